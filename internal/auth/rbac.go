package auth

import (
	"net/http"

	"github.com/aetherhq/control-plane/internal/httpserver"
	"github.com/aetherhq/control-plane/pkg/identity"
)

// RequireService rejects requests whose identity is not the Herald service
// account. fetch_actions is the one operation spec.md restricts this way.
func RequireService(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := identity.FromContext(r.Context())
		if !ok || !id.IsService() {
			httpserver.RespondError(w, httpserver.ErrForbidden, "this operation is restricted to the herald service identity")
			return
		}
		next.ServeHTTP(w, r)
	})
}
