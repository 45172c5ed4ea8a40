// Package handler wires the public registration and login endpoints.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/YuriTheCoder/AuditCenter-API/pkg/domain"
	"github.com/YuriTheCoder/AuditCenter-API/pkg/platform/httputil"
	"github.com/YuriTheCoder/AuditCenter-API/pkg/requestcontext"
)

// Service defines the authentication operations the handler depends on.
type Service interface {
	Register(ctx context.Context, name, email, password string, role domain.Role) (string, error)
	Login(ctx context.Context, email, password string) (string, error)
}

// TokenResponse carries the issued bearer token.
type TokenResponse struct {
	AccessToken string `json:"accessToken"`
}

// Handler wires auth endpoints to the auth service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs an auth handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the public auth endpoints.
func (h *Handler) Register(r chi.Router) {
	r.Post("/auth/register", h.HandleRegister)
	r.Post("/auth/login", h.HandleLogin)
}

// HandleRegister handles POST /auth/register requests.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[RegisterRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	tokenString, err := h.service.Register(ctx, req.Name, req.Email, req.Password, req.ParsedRole())
	if err != nil {
		h.logger.WarnContext(ctx, "registration failed",
			"request_id", requestID,
			"email", req.Email,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, TokenResponse{AccessToken: tokenString})
}

// HandleLogin handles POST /auth/login requests.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[LoginRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	tokenString, err := h.service.Login(ctx, req.Email, req.Password)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, TokenResponse{AccessToken: tokenString})
}
