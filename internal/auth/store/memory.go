package store

import (
	"context"
	"sync"

	"github.com/YuriTheCoder/AuditCenter-API/internal/auth/models"
)

// MemoryStore keeps users keyed by email. The map write under a single lock
// gives the same check-then-insert atomicity the postgres unique constraint
// provides.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[string]models.User
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[string]models.User)}
}

// Save persists a new user, failing with ErrDuplicateEmail when the email is
// already taken.
func (s *MemoryStore) Save(_ context.Context, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[user.Email]; exists {
		return ErrDuplicateEmail
	}
	s.users[user.Email] = user
	return nil
}

// FindByEmail looks a user up by their unique email.
func (s *MemoryStore) FindByEmail(_ context.Context, email string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if user, ok := s.users[email]; ok {
		return user, nil
	}
	return models.User{}, ErrNotFound
}
