// Package models holds the credential-store user record.
package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/YuriTheCoder/AuditCenter-API/pkg/domain"
)

// User is the persisted identity. Email is the unique identifier; the
// password is stored only as a one-way hash.
type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	Role         domain.Role
	CreatedAt    time.Time
}

// Principal returns the request-scoped identity for this user.
func (u User) Principal() domain.Principal {
	return domain.Principal{Email: u.Email, Role: u.Role}
}
