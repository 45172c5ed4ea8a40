// Package service holds the audit event business logic: ingestion, the
// role-scoped visibility policy, and live-stream subscriptions.
package service

import (
	"context"
	"log/slog"

	"github.com/YuriTheCoder/AuditCenter-API/internal/audit"
	"github.com/YuriTheCoder/AuditCenter-API/internal/audit/broker"
	"github.com/YuriTheCoder/AuditCenter-API/internal/audit/metrics"
	"github.com/YuriTheCoder/AuditCenter-API/pkg/domain"
	dErrors "github.com/YuriTheCoder/AuditCenter-API/pkg/domain-errors"
	"github.com/YuriTheCoder/AuditCenter-API/pkg/requestcontext"
)

// EventStore is the persistence contract the service depends on.
type EventStore interface {
	Save(ctx context.Context, event audit.Event) (audit.Event, error)
	ListAll(ctx context.Context) ([]audit.Event, error)
	ListByUserEmail(ctx context.Context, email string) ([]audit.Event, error)
}

// Broadcaster fans persisted events out to live listeners.
type Broadcaster interface {
	Publish(event audit.Event)
	Subscribe() *broker.Listener
	Unsubscribe(l *broker.Listener)
}

// Service orchestrates event ingestion and listing.
type Service struct {
	store       EventStore
	broadcaster Broadcaster
	logger      *slog.Logger
	metrics     *metrics.Metrics
}

// Option configures a Service.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// New constructs a Service.
func New(store EventStore, broadcaster Broadcaster, opts ...Option) *Service {
	s := &Service{
		store:       store,
		broadcaster: broadcaster,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ingest persists a webhook event and broadcasts it to live listeners. The
// broadcast runs strictly after the save succeeds, so a listener never sees
// an event that is not durable; a delivery failure to any listener is
// recovered inside the broker and never fails the ingest.
func (s *Service) Ingest(ctx context.Context, event audit.Event) (audit.Event, error) {
	saved, err := s.store.Save(ctx, event)
	if err != nil {
		return audit.Event{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist audit event")
	}

	if s.metrics != nil {
		s.metrics.IncrementEventsIngested()
	}
	s.logger.InfoContext(ctx, "audit event ingested",
		"request_id", requestcontext.RequestID(ctx),
		"event_id", saved.ID,
		"system_name", saved.SystemName,
		"action", saved.Action,
	)

	s.broadcaster.Publish(saved)
	return saved, nil
}

// List returns the events visible to the principal: everything for an admin,
// only self-attributed events otherwise. The store is re-queried on every
// call since events arrive continuously; ordering is the store's natural
// insertion order.
func (s *Service) List(ctx context.Context, principal domain.Principal) ([]audit.Event, error) {
	if principal.IsZero() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}

	var (
		events []audit.Event
		err    error
	)
	if principal.SeesAllEvents() {
		events, err = s.store.ListAll(ctx)
	} else {
		events, err = s.store.ListByUserEmail(ctx, principal.Email)
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list audit events")
	}
	return events, nil
}

// Subscribe registers a live listener for subsequently ingested events.
func (s *Service) Subscribe() *broker.Listener {
	return s.broadcaster.Subscribe()
}

// Unsubscribe removes a live listener. Safe to call more than once.
func (s *Service) Unsubscribe(l *broker.Listener) {
	s.broadcaster.Unsubscribe(l)
}
