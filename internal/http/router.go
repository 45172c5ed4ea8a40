// Package httpapi assembles the router: public auth endpoints, the guarded
// event endpoints, and the operational endpoints.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	audithandler "github.com/YuriTheCoder/AuditCenter-API/internal/audit/handler"
	authhandler "github.com/YuriTheCoder/AuditCenter-API/internal/auth/handler"
	"github.com/YuriTheCoder/AuditCenter-API/pkg/platform/middleware/requestid"
)

// Deps carries everything the router mounts.
type Deps struct {
	Auth  *authhandler.Handler
	Audit *audithandler.Handler

	// Authenticate attaches a principal when a valid token is presented;
	// RequireAuth guards the protected group.
	Authenticate func(http.Handler) http.Handler
	RequireAuth  func(http.Handler) http.Handler
}

// NewRouter wires all endpoints. Registration, login, health, and metrics are
// the public allow-list; everything under /events requires a principal.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(deps.Authenticate)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	deps.Auth.Register(r)

	r.Group(func(r chi.Router) {
		r.Use(deps.RequireAuth)
		deps.Audit.Register(r)
	})

	return r
}
