// Package service implements registration and credential login against the
// user store.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/YuriTheCoder/AuditCenter-API/internal/auth/metrics"
	"github.com/YuriTheCoder/AuditCenter-API/internal/auth/models"
	"github.com/YuriTheCoder/AuditCenter-API/internal/auth/store"
	"github.com/YuriTheCoder/AuditCenter-API/pkg/domain"
	dErrors "github.com/YuriTheCoder/AuditCenter-API/pkg/domain-errors"
	"github.com/YuriTheCoder/AuditCenter-API/pkg/requestcontext"
	"github.com/YuriTheCoder/AuditCenter-API/pkg/secrets"
)

// UserStore is the credential-store contract the service depends on.
type UserStore interface {
	Save(ctx context.Context, user models.User) error
	FindByEmail(ctx context.Context, email string) (models.User, error)
}

// TokenIssuer mints a signed bearer token for a subject.
type TokenIssuer interface {
	Issue(subject string) (string, error)
}

// Service orchestrates registration and login.
type Service struct {
	users   UserStore
	tokens  TokenIssuer
	logger  *slog.Logger
	metrics *metrics.Metrics
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
func New(users UserStore, tokens TokenIssuer, opts ...Option) *Service {
	s := &Service{
		users:  users,
		tokens: tokens,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates a new user and returns a bearer token for it. It performs
// exactly one persist. The store's duplicate detection (map insert or unique
// constraint) makes the check-and-persist a single logical unit, so two
// racing registrations for the same email cannot both succeed.
func (s *Service) Register(ctx context.Context, name, email, password string, role domain.Role) (string, error) {
	hash, err := secrets.HashPassword(password)
	if err != nil {
		return "", err
	}

	user := models.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.Save(ctx, user); err != nil {
		if dErrors.HasCode(err, dErrors.CodeConflict) {
			return "", err
		}
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist user")
	}

	tokenString, err := s.tokens.Issue(user.Email)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue token")
	}

	if s.metrics != nil {
		s.metrics.IncrementRegistrations()
	}
	s.logger.InfoContext(ctx, "user registered",
		"request_id", requestcontext.RequestID(ctx),
		"email", user.Email,
		"role", user.Role,
	)
	return tokenString, nil
}

// Login verifies credentials and returns a bearer token. Both an unknown
// email and a password mismatch produce the same generic unauthorized error
// so callers cannot probe which emails are registered. No persist happens.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			s.recordLoginFailure(ctx, email, "unknown email")
			return "", dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
		}
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up user")
	}

	if err := secrets.VerifyPassword(password, user.PasswordHash); err != nil {
		if dErrors.HasCode(err, dErrors.CodeUnauthorized) {
			s.recordLoginFailure(ctx, email, "password mismatch")
			return "", dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
		}
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to verify password")
	}

	tokenString, err := s.tokens.Issue(user.Email)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue token")
	}

	if s.metrics != nil {
		s.metrics.IncrementLogins()
	}
	s.logger.InfoContext(ctx, "user logged in",
		"request_id", requestcontext.RequestID(ctx),
		"email", user.Email,
	)
	return tokenString, nil
}

// ResolvePrincipal reconstructs the principal for a verified token subject.
// Used by the request gate on every authenticated request.
func (s *Service) ResolvePrincipal(ctx context.Context, email string) (domain.Principal, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			return domain.Principal{}, store.ErrNotFound
		}
		return domain.Principal{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up user")
	}
	return user.Principal(), nil
}

func (s *Service) recordLoginFailure(ctx context.Context, email, reason string) {
	if s.metrics != nil {
		s.metrics.IncrementLoginFailures()
	}
	// The reason stays in logs only; the caller sees a generic message.
	s.logger.WarnContext(ctx, "login rejected",
		"request_id", requestcontext.RequestID(ctx),
		"email", email,
		"reason", reason,
	)
}
