// Package requestid assigns each request a correlation ID used across logs.
package requestid

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/YuriTheCoder/AuditCenter-API/pkg/requestcontext"
)

// Header carries the correlation ID on responses and may supply one on
// requests from upstream proxies.
const Header = "X-Request-Id"

// Middleware attaches a request ID to the context and echoes it back on the
// response.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(Header)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		w.Header().Set(Header, requestID)
		ctx := requestcontext.WithRequestID(r.Context(), requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
