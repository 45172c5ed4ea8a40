package domain

import "fmt"

// Role is the permission tier attached to a principal.
// This is a domain primitive that enforces validity at parse time.
type Role string

const (
	// RoleAdmin grants full visibility over every audit event in the system.
	RoleAdmin Role = "admin"
	// RoleAnalyst limits visibility to events attributed to the principal's
	// own email.
	RoleAnalyst Role = "analyst"
)

// ParseRole validates and returns a Role. Unknown values are rejected so a
// bad role can never be persisted.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleAnalyst:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role: %s", s)
	}
}

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}
