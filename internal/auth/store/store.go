// Package store persists user records behind the credential-store contract.
package store

import (
	dErrors "github.com/YuriTheCoder/AuditCenter-API/pkg/domain-errors"
)

// Store-level sentinels keep lookup misses and duplicate inserts consistent
// across the in-memory and postgres implementations.
var (
	ErrNotFound       = dErrors.New(dErrors.CodeNotFound, "user not found")
	ErrDuplicateEmail = dErrors.New(dErrors.CodeConflict, "user with this email already exists")
)
