// Package requestid exposes chi's request ID through requestcontext so
// services and audit events can read it without importing chi.
package requestid

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"edureward/pkg/requestcontext"
)

// Middleware assigns a request ID (honouring an inbound X-Request-Id) and
// echoes it on the response.
func Middleware(next http.Handler) http.Handler {
	bridge := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := middleware.GetReqID(r.Context())
		w.Header().Set(middleware.RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(requestcontext.WithRequestID(r.Context(), id)))
	})
	return middleware.RequestID(bridge)
}
