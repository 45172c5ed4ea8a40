// Package handler wires the audit event endpoints: the ingestion webhook,
// the role-scoped listing, and the live SSE stream.
package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/YuriTheCoder/AuditCenter-API/internal/audit"
	"github.com/YuriTheCoder/AuditCenter-API/internal/audit/broker"
	"github.com/YuriTheCoder/AuditCenter-API/pkg/domain"
	dErrors "github.com/YuriTheCoder/AuditCenter-API/pkg/domain-errors"
	"github.com/YuriTheCoder/AuditCenter-API/pkg/platform/httputil"
	"github.com/YuriTheCoder/AuditCenter-API/pkg/requestcontext"
)

// streamEventName is the SSE event label clients subscribe to.
const streamEventName = "audit-event"

// Service defines the audit operations the handler depends on.
type Service interface {
	Ingest(ctx context.Context, event audit.Event) (audit.Event, error)
	List(ctx context.Context, principal domain.Principal) ([]audit.Event, error)
	Subscribe() *broker.Listener
	Unsubscribe(l *broker.Listener)
}

// Handler wires audit endpoints to the audit service.
type Handler struct {
	service Service
	logger  *slog.Logger

	streamMaxLifetime time.Duration
	streamHeartbeat   time.Duration
}

// New constructs an audit handler. streamMaxLifetime bounds how long one
// stream connection stays open; streamHeartbeat is the interval for SSE
// keepalive comments.
func New(service Service, logger *slog.Logger, streamMaxLifetime, streamHeartbeat time.Duration) *Handler {
	return &Handler{
		service:           service,
		logger:            logger,
		streamMaxLifetime: streamMaxLifetime,
		streamHeartbeat:   streamHeartbeat,
	}
}

// Register mounts the audit endpoints. The router is expected to have the
// request gate's RequireAuth applied to this group.
func (h *Handler) Register(r chi.Router) {
	r.Post("/events/webhook", h.HandleWebhook)
	r.Get("/events", h.HandleList)
	r.Get("/events/stream", h.HandleStream)
}

// HandleWebhook handles POST /events/webhook requests.
func (h *Handler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[WebhookEventRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	metadata, err := req.MetadataJSON()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	saved, err := h.service.Ingest(ctx, audit.Event{
		SystemName: req.SystemName,
		UserEmail:  req.UserEmail,
		Action:     req.Action,
		Metadata:   metadata,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "webhook ingestion failed",
			"request_id", requestID,
			"system_name", req.SystemName,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, FromEvent(saved))
}

// HandleList handles GET /events requests.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal := requestcontext.Principal(ctx)

	events, err := h.service.List(ctx, principal)
	if err != nil {
		h.logger.ErrorContext(ctx, "event listing failed",
			"request_id", requestcontext.RequestID(ctx),
			"principal", principal.Email,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromEvents(events))
}

// HandleStream handles GET /events/stream requests. The connection is held
// open, pushing each newly ingested event as an SSE message, until the client
// disconnects, the broker drops the listener, or the configured maximum
// lifetime elapses. All three paths run the same unsubscribe cleanup.
func (h *Handler) HandleStream(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	principal := requestcontext.Principal(ctx)

	flusher, ok := w.(http.Flusher)
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "streaming unsupported"))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	listener := h.service.Subscribe()
	defer h.service.Unsubscribe(listener)

	h.logger.InfoContext(ctx, "stream listener connected",
		"request_id", requestID,
		"principal", principal.Email,
	)

	lifetime := time.NewTimer(h.streamMaxLifetime)
	defer lifetime.Stop()
	heartbeat := time.NewTicker(h.streamHeartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			h.logger.InfoContext(ctx, "stream listener disconnected",
				"request_id", requestID,
			)
			return
		case <-listener.Done():
			return
		case <-lifetime.C:
			h.logger.InfoContext(ctx, "stream listener reached max lifetime",
				"request_id", requestID,
			)
			return
		case <-heartbeat.C:
			if _, err := fmt.Fprint(w, ": heartbeat\n\n"); err != nil {
				return
			}
			flusher.Flush()
		case event := <-listener.Events():
			if err := writeSSE(w, event); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, event audit.Event) error {
	data, err := json.Marshal(FromEvent(event))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", streamEventName, data)
	return err
}
