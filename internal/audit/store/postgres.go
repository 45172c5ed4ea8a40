package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/YuriTheCoder/AuditCenter-API/internal/audit"
)

// PostgresStore persists audit events in the audit_events table. Listing
// order is the table's insertion order, exposed via the created sequence.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Schema is applied at startup. The seq column pins insertion order so
// listings stay stable even when event timestamps collide.
const Schema = `
CREATE TABLE IF NOT EXISTS audit_events (
	id          UUID PRIMARY KEY,
	seq         BIGSERIAL,
	system_name TEXT NOT NULL,
	user_email  TEXT NOT NULL,
	action      TEXT NOT NULL,
	metadata    TEXT NOT NULL DEFAULT '{}',
	created_at  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_audit_events_user_email ON audit_events (user_email);
`

func (s *PostgresStore) Save(ctx context.Context, event audit.Event) (audit.Event, error) {
	event.ID = uuid.New()
	event.Timestamp = time.Now().UTC()

	query := `
		INSERT INTO audit_events (id, system_name, user_email, action, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(ctx, query,
		event.ID,
		event.SystemName,
		event.UserEmail,
		event.Action,
		event.Metadata,
		event.Timestamp,
	)
	if err != nil {
		return audit.Event{}, fmt.Errorf("insert audit event: %w", err)
	}
	return event, nil
}

func (s *PostgresStore) ListAll(ctx context.Context) ([]audit.Event, error) {
	query := `
		SELECT id, system_name, user_email, action, metadata, created_at
		FROM audit_events
		ORDER BY seq
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

func (s *PostgresStore) ListByUserEmail(ctx context.Context, email string) ([]audit.Event, error) {
	query := `
		SELECT id, system_name, user_email, action, metadata, created_at
		FROM audit_events
		WHERE user_email = $1
		ORDER BY seq
	`
	rows, err := s.db.QueryContext(ctx, query, email)
	if err != nil {
		return nil, fmt.Errorf("query audit events by user: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

func scanEvents(rows *sql.Rows) ([]audit.Event, error) {
	var events []audit.Event
	for rows.Next() {
		var e audit.Event
		if err := rows.Scan(&e.ID, &e.SystemName, &e.UserEmail, &e.Action, &e.Metadata, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}
