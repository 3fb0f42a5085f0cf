// Package auth turns bearer capability tokens into request-scoped capabilities.
package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"edureward/internal/identity"
	dErrors "edureward/pkg/domain-errors"
	"edureward/pkg/platform/httputil"
	"edureward/pkg/requestcontext"
)

const bearerPrefix = "Bearer "

// RequireAuth rejects requests without a valid bearer token with 401 and
// otherwise stores the verified Capability on the request context. Whether the
// capability may act for a given identity is decided by the service.
func RequireAuth(verifier identity.Verifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), bearerPrefix)
			if !ok || strings.TrimSpace(token) == "" {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestcontext.RequestID(ctx),
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing or invalid Authorization header"))
				return
			}

			capability, err := verifier.Verify(strings.TrimSpace(token))
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", requestcontext.RequestID(ctx),
				)
				if !dErrors.Is(err, dErrors.CodeUnauthorized) {
					err = dErrors.New(dErrors.CodeUnauthorized, "invalid or expired token")
				}
				httputil.WriteError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(requestcontext.WithCapability(ctx, capability)))
		})
	}
}
