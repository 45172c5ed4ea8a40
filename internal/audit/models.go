// Package audit defines the audit event model shared by the stores, the
// service, the broker, and the HTTP layer.
package audit

import (
	"time"

	"github.com/google/uuid"
)

// Event is an immutable record of an action reported by an external system.
// ID and Timestamp are assigned when the event is persisted and never change
// afterwards.
//
// UserEmail is a free-form attribution string, deliberately not a foreign key
// into the users table: webhooks may report actions by identities this system
// has never seen.
type Event struct {
	ID         uuid.UUID
	SystemName string
	UserEmail  string
	Action     string
	// Metadata is an opaque JSON object serialized to text. The system never
	// inspects it beyond storing and returning it.
	Metadata  string
	Timestamp time.Time
}
