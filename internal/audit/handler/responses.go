package handler

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/YuriTheCoder/AuditCenter-API/internal/audit"
)

// EventResponse is the public representation of an audit event, used by the
// webhook response, the listing, and each stream push.
type EventResponse struct {
	ID         uuid.UUID       `json:"id"`
	SystemName string          `json:"systemName"`
	UserEmail  string          `json:"userEmail"`
	Action     string          `json:"action"`
	Metadata   json.RawMessage `json:"metadata"`
	Timestamp  time.Time       `json:"timestamp"`
}

// FromEvent converts a stored event. Metadata is stored as JSON text, so it
// is re-emitted verbatim as a raw JSON object.
func FromEvent(e audit.Event) EventResponse {
	metadata := json.RawMessage(e.Metadata)
	if len(metadata) == 0 {
		metadata = json.RawMessage("{}")
	}
	return EventResponse{
		ID:         e.ID,
		SystemName: e.SystemName,
		UserEmail:  e.UserEmail,
		Action:     e.Action,
		Metadata:   metadata,
		Timestamp:  e.Timestamp,
	}
}

// FromEvents converts a listing, keeping the store's order. An empty result
// renders as [] rather than null.
func FromEvents(events []audit.Event) []EventResponse {
	out := make([]EventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, FromEvent(e))
	}
	return out
}
