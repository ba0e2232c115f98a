package user

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aetherhq/control-plane/internal/httpserver"
	"github.com/aetherhq/control-plane/pkg/identity"
)

// Handler provides HTTP handlers for the users API.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler creates a user Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// Routes returns a chi.Router with the users/me route mounted.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/me", h.handleMe)
	return r
}

// handleMe resolves (creating on first sight) the user row for the caller's
// authenticated subject and returns its profile.
func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	id, ok := identity.FromContext(r.Context())
	if !ok || id.Kind != identity.KindUser {
		httpserver.RespondError(w, httpserver.ErrForbidden, "users/me requires a user identity")
		return
	}

	u, err := h.service.EnsureExists(r.Context(), EnsureCommand{
		Sub:   id.Sub,
		Email: id.Email,
		Name:  id.Username,
	})
	if err != nil {
		httpserver.RespondDomainError(w, h.logger, err)
		return
	}
	httpserver.Respond(w, http.StatusOK, u.ToResponse())
}
