package service

import (
	"sync"

	"github.com/google/uuid"
)

// keyedMutex serializes work per (customer, definition) pair. Entries are
// reference counted and removed once the last holder releases, so the map
// does not grow with the key space.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*lockEntry)}
}

// Lock acquires the mutex for the pair and returns its release func.
func (k *keyedMutex) Lock(userID, definitionID uuid.UUID) func() {
	key := userID.String() + "/" + definitionID.String()

	k.mu.Lock()
	entry, ok := k.locks[key]
	if !ok {
		entry = &lockEntry{}
		k.locks[key] = entry
	}
	entry.refs++
	k.mu.Unlock()

	entry.mu.Lock()
	return func() {
		entry.mu.Unlock()
		k.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
