package cache

import (
	"sync/atomic"
	"time"
)

// Entry is one cached payload together with its capture metadata.
type Entry[T any] struct {
	FetchedAt   time.Time
	Key         string
	Payload     T
	LastUpdated string
}

// Slot is a single-entry TTL cache. The slot holds at most one entry and is
// replaced as a whole: a concurrent reader observes either the previous
// entry or the new one, never a partial write. Entries are only ever
// written after a completed fetch and live until overwritten.
type Slot[T any] struct {
	entry atomic.Pointer[Entry[T]]
}

// NewSlot returns an empty slot.
func NewSlot[T any]() *Slot[T] {
	return &Slot[T]{}
}

// Get returns the cached entry when it is younger than ttl and its key
// matches the requested one. Keyless slots use key "".
func (s *Slot[T]) Get(key string, ttl time.Duration) (*Entry[T], bool) {
	e := s.entry.Load()
	if e == nil || e.Key != key {
		return nil, false
	}
	if time.Since(e.FetchedAt) >= ttl {
		return nil, false
	}
	return e, true
}

// Put replaces the slot content atomically.
func (s *Slot[T]) Put(e *Entry[T]) {
	s.entry.Store(e)
}
