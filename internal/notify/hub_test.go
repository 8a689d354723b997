package notify

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestHubDeliversToSubscriber(t *testing.T) {
	hub := NewHub()
	userID := uuid.New()

	events, unregister := hub.Register(userID)
	defer unregister()

	hub.Notify(userID, Event{Type: EventScanSuccess, Data: "hi"})

	got := <-events
	require.Equal(t, EventScanSuccess, got.Type)
	require.Equal(t, "hi", got.Data)
}

func TestHubNotifyWithoutSubscriberIsNoop(t *testing.T) {
	hub := NewHub()
	hub.Notify(uuid.New(), Event{Type: EventRedeemSuccess})
}

func TestHubUnregisterClosesChannel(t *testing.T) {
	hub := NewHub()
	userID := uuid.New()

	events, unregister := hub.Register(userID)
	unregister()

	_, open := <-events
	require.False(t, open)

	// Events after teardown are dropped, not delivered to a dead channel.
	hub.Notify(userID, Event{Type: EventScanSuccess})
}

func TestHubNewRegistrationReplacesOld(t *testing.T) {
	hub := NewHub()
	userID := uuid.New()

	stale, _ := hub.Register(userID)
	fresh, unregister := hub.Register(userID)
	defer unregister()

	_, open := <-stale
	require.False(t, open)

	hub.Notify(userID, Event{Type: EventRedeemSuccess})
	got := <-fresh
	require.Equal(t, EventRedeemSuccess, got.Type)
}

func TestHubNotifyDuringReconnect(t *testing.T) {
	hub := NewHub()
	userID := uuid.New()

	// A customer reconnecting their event stream races the delivery of an
	// event from a grant that just landed. Replacing the subscription closes
	// the previous channel; a concurrent Notify must drop, never panic.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 1000; i++ {
			events, unregister := hub.Register(userID)
			go func() {
				for range events {
				}
			}()
			unregister()
		}
	}()

	for i := 0; i < 1000; i++ {
		hub.Notify(userID, Event{Type: EventScanSuccess})
	}
	<-done
}

func TestHubDropsWhenBufferFull(t *testing.T) {
	hub := NewHub()
	userID := uuid.New()

	events, unregister := hub.Register(userID)
	defer unregister()

	// Overfill the buffer; Notify must never block.
	for i := 0; i < 32; i++ {
		hub.Notify(userID, Event{Type: EventScanSuccess})
	}

	received := 0
	for {
		select {
		case <-events:
			received++
		default:
			require.Equal(t, cap(events), received)
			return
		}
	}
}
