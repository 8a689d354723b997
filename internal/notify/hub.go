// Package notify is the in-process notification sink: a per-user
// subscription map with an explicit register/unregister lifecycle. Delivery
// is fire-and-forget; an absent or slow subscriber loses the event.
package notify

import (
	"sync"

	"github.com/google/uuid"
)

const (
	EventScanSuccess   = "scanSuccess"
	EventRedeemSuccess = "redeemSuccess"
)

type Event struct {
	Type string `json:"type"`
	Data string `json:"data"`
}

// Sink is what the services see: push an event at a user, never block.
type Sink interface {
	Notify(userID uuid.UUID, event Event)
}

type Hub struct {
	mu   sync.RWMutex
	subs map[uuid.UUID]chan Event
}

func NewHub() *Hub {
	return &Hub{subs: make(map[uuid.UUID]chan Event)}
}

// Register opens a subscription for the user and returns the event channel
// plus its unregister func. A newer registration replaces the previous one;
// the stale channel is closed so its connection handler terminates.
func (h *Hub) Register(userID uuid.UUID) (<-chan Event, func()) {
	ch := make(chan Event, 8)

	h.mu.Lock()
	if prev, ok := h.subs[userID]; ok {
		close(prev)
	}
	h.subs[userID] = ch
	h.mu.Unlock()

	unregister := func() {
		h.mu.Lock()
		if cur, ok := h.subs[userID]; ok && cur == ch {
			delete(h.subs, userID)
			close(ch)
		}
		h.mu.Unlock()
	}
	return ch, unregister
}

// Notify delivers an event to the user's subscription if one exists. The
// send never blocks: with no subscriber, or a full buffer, the event is
// dropped. The send happens under the read lock; channels are only closed
// under the write lock, so the channel cannot close mid-send.
func (h *Hub) Notify(userID uuid.UUID, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	ch, ok := h.subs[userID]
	if !ok {
		return
	}
	select {
	case ch <- event:
	default:
	}
}
