// Package store persists audit events. The in-memory implementation backs
// unit tests and local development; postgres backs real deployments.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/YuriTheCoder/AuditCenter-API/internal/audit"
)

// MemoryStore keeps events in insertion order, which is also the order every
// listing returns them in.
type MemoryStore struct {
	mu     sync.RWMutex
	events []audit.Event
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Save assigns the event's ID and timestamp and appends it.
func (s *MemoryStore) Save(_ context.Context, event audit.Event) (audit.Event, error) {
	event.ID = uuid.New()
	event.Timestamp = time.Now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return event, nil
}

// ListAll returns every stored event in insertion order.
func (s *MemoryStore) ListAll(_ context.Context) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]audit.Event{}, s.events...), nil
}

// ListByUserEmail returns events whose attribution exactly matches email, in
// insertion order.
func (s *MemoryStore) ListByUserEmail(_ context.Context, email string) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []audit.Event
	for _, e := range s.events {
		if e.UserEmail == email {
			matched = append(matched, e)
		}
	}
	return matched, nil
}
