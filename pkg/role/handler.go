package role

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/aetherhq/control-plane/internal/httpserver"
	"github.com/aetherhq/control-plane/pkg/identity"
	"github.com/aetherhq/control-plane/pkg/permission"
)

// Handler provides HTTP handlers for the roles API, mounted under an
// organisation's sub-router.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler creates a role Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// Routes returns a chi.Router with all role routes mounted.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.handleList)
	r.Post("/", h.handleCreate)
	r.Route("/{roleID}", func(r chi.Router) {
		r.Patch("/", h.handleUpdate)
		r.Delete("/", h.handleDelete)
	})
	return r
}

func callerIdentity(w http.ResponseWriter, r *http.Request) (identity.Identity, bool) {
	id, ok := identity.FromContext(r.Context())
	if !ok {
		httpserver.RespondError(w, httpserver.ErrMissingAuthHeader, "authentication required")
		return identity.Identity{}, false
	}
	return id, true
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	id, ok := callerIdentity(w, r)
	if !ok {
		return
	}
	organisationID, err := uuid.Parse(chi.URLParam(r, "organisationID"))
	if err != nil {
		httpserver.RespondError(w, httpserver.ErrBadRequest, "invalid organisation ID")
		return
	}

	roles, err := h.service.List(r.Context(), id, organisationID)
	if err != nil {
		httpserver.RespondDomainError(w, h.logger, err)
		return
	}

	resp := make([]Response, len(roles))
	for i, role := range roles {
		resp[i] = role.ToResponse()
	}
	httpserver.Respond(w, http.StatusOK, map[string]any{"roles": resp})
}

// createRequest is the JSON body for POST /organisations/{organisationID}/roles.
type createRequest struct {
	Name        string   `json:"name" validate:"required"`
	Permissions []string `json:"permissions"`
	Color       string   `json:"color"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	id, ok := callerIdentity(w, r)
	if !ok {
		return
	}
	organisationID, err := uuid.Parse(chi.URLParam(r, "organisationID"))
	if err != nil {
		httpserver.RespondError(w, httpserver.ErrBadRequest, "invalid organisation ID")
		return
	}

	var req createRequest
	if !httpserver.DecodeAndValidate(w, r, &req) {
		return
	}

	role, err := h.service.Create(r.Context(), id, organisationID, CreateCommand{
		Name:        req.Name,
		Permissions: permission.FromNames(req.Permissions),
		Color:       req.Color,
	})
	if err != nil {
		httpserver.RespondDomainError(w, h.logger, err)
		return
	}
	httpserver.Respond(w, http.StatusCreated, role.ToResponse())
}

// updateRequest is the JSON body for PATCH .../roles/{roleID}.
type updateRequest struct {
	Name        *string  `json:"name"`
	Permissions []string `json:"permissions"`
	Color       *string  `json:"color"`
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := callerIdentity(w, r)
	if !ok {
		return
	}
	organisationID, err := uuid.Parse(chi.URLParam(r, "organisationID"))
	if err != nil {
		httpserver.RespondError(w, httpserver.ErrBadRequest, "invalid organisation ID")
		return
	}
	roleID, err := uuid.Parse(chi.URLParam(r, "roleID"))
	if err != nil {
		httpserver.RespondError(w, httpserver.ErrBadRequest, "invalid role ID")
		return
	}

	var req updateRequest
	if !httpserver.DecodeAndValidate(w, r, &req) {
		return
	}

	cmd := UpdateCommand{Name: req.Name, Color: req.Color}
	if req.Permissions != nil {
		p := permission.FromNames(req.Permissions)
		cmd.Permissions = &p
	}

	role, err := h.service.Update(r.Context(), id, organisationID, roleID, cmd)
	if err != nil {
		httpserver.RespondDomainError(w, h.logger, err)
		return
	}
	httpserver.Respond(w, http.StatusOK, role.ToResponse())
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := callerIdentity(w, r)
	if !ok {
		return
	}
	organisationID, err := uuid.Parse(chi.URLParam(r, "organisationID"))
	if err != nil {
		httpserver.RespondError(w, httpserver.ErrBadRequest, "invalid organisation ID")
		return
	}
	roleID, err := uuid.Parse(chi.URLParam(r, "roleID"))
	if err != nil {
		httpserver.RespondError(w, httpserver.ErrBadRequest, "invalid role ID")
		return
	}

	if err := h.service.Delete(r.Context(), id, organisationID, roleID); err != nil {
		httpserver.RespondDomainError(w, h.logger, err)
		return
	}
	httpserver.Respond(w, http.StatusNoContent, nil)
}
