package auth

import (
	"log/slog"
	"net/http"

	"github.com/aetherhq/control-plane/internal/httpserver"
	"github.com/aetherhq/control-plane/pkg/identity"
)

// Middleware authenticates every request via the configured Validator and
// stores the resulting identity.Identity in the request context. Requests
// with no Authorization header, or a token the validator rejects, are
// rejected per spec §4.7/§7's error taxonomy.
func Middleware(validator Validator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				httpserver.RespondError(w, httpserver.ErrMissingAuthHeader, "missing Authorization header")
				return
			}

			token, ok := bearerToken(header)
			if !ok {
				httpserver.RespondError(w, httpserver.ErrMissingAuthHeader, "Authorization header must be a Bearer token")
				return
			}

			id, err := validator.Validate(r.Context(), token)
			if err != nil {
				logger.Warn("token validation failed", "error", err)
				httpserver.RespondError(w, httpserver.ErrTokenNotFound, "invalid or expired token")
				return
			}

			ctx := identity.NewContext(r.Context(), id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
