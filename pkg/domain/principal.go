package domain

// Principal is the authenticated identity attached to a request. It is
// reconstructed from the user store on every request and never cached across
// requests, so role or credential changes take effect immediately.
type Principal struct {
	Email string
	Role  Role
}

// IsZero reports whether no principal is attached.
func (p Principal) IsZero() bool {
	return p.Email == ""
}

// SeesAllEvents reports whether the principal's role grants system-wide
// event visibility.
func (p Principal) SeesAllEvents() bool {
	return p.Role == RoleAdmin
}
