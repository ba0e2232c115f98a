package organisation

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/aetherhq/control-plane/internal/httpserver"
	"github.com/aetherhq/control-plane/pkg/identity"
)

// Handler provides HTTP handlers for the organisations API.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler creates an organisation Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// Routes returns a chi.Router with all organisation routes mounted.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.handleCreate)
	r.Get("/", h.handleListByMember)
	r.Route("/{organisationID}", func(r chi.Router) {
		r.Get("/", h.handleGet)
		r.Patch("/", h.handleUpdate)
		r.Delete("/", h.handleDelete)
	})
	return r
}

// createRequest is the JSON body for POST /organisations.
type createRequest struct {
	Name string `json:"name" validate:"required,min=3,max=100"`
	Slug string `json:"slug"`
	Plan string `json:"plan"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	id, ok := identity.FromContext(r.Context())
	if !ok || id.Kind != identity.KindUser {
		httpserver.RespondError(w, httpserver.ErrForbidden, "organisation creation requires a user identity")
		return
	}

	var req createRequest
	if !httpserver.DecodeAndValidate(w, r, &req) {
		return
	}

	o, err := h.service.Create(r.Context(), CreateCommand{
		Name:    req.Name,
		Slug:    req.Slug,
		OwnerID: id.UserID,
		Plan:    Plan(req.Plan),
	})
	if err != nil {
		httpserver.RespondDomainError(w, h.logger, err)
		return
	}
	httpserver.Respond(w, http.StatusCreated, o.ToResponse())
}

func (h *Handler) handleListByMember(w http.ResponseWriter, r *http.Request) {
	id, ok := identity.FromContext(r.Context())
	if !ok || id.Kind != identity.KindUser {
		httpserver.RespondError(w, httpserver.ErrForbidden, "listing organisations requires a user identity")
		return
	}

	orgs, err := h.service.ListByMember(r.Context(), id.UserID)
	if err != nil {
		httpserver.RespondDomainError(w, h.logger, err)
		return
	}

	resp := make([]Response, len(orgs))
	for i, o := range orgs {
		resp[i] = o.ToResponse()
	}
	httpserver.Respond(w, http.StatusOK, map[string]any{"organisations": resp})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	organisationID, err := uuid.Parse(chi.URLParam(r, "organisationID"))
	if err != nil {
		httpserver.RespondError(w, httpserver.ErrBadRequest, "invalid organisation ID")
		return
	}

	o, err := h.service.Get(r.Context(), organisationID)
	if err != nil {
		httpserver.RespondDomainError(w, h.logger, err)
		return
	}
	httpserver.Respond(w, http.StatusOK, o.ToResponse())
}

// updateRequest is the JSON body for PATCH /organisations/{organisationID}.
type updateRequest struct {
	Name *string `json:"name"`
	Slug *string `json:"slug"`
	Plan *string `json:"plan"`
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	organisationID, err := uuid.Parse(chi.URLParam(r, "organisationID"))
	if err != nil {
		httpserver.RespondError(w, httpserver.ErrBadRequest, "invalid organisation ID")
		return
	}

	var req updateRequest
	if !httpserver.DecodeAndValidate(w, r, &req) {
		return
	}

	cmd := UpdateCommand{Name: req.Name, Slug: req.Slug}
	if req.Plan != nil {
		p := Plan(*req.Plan)
		cmd.Plan = &p
	}

	o, err := h.service.Update(r.Context(), organisationID, cmd)
	if err != nil {
		httpserver.RespondDomainError(w, h.logger, err)
		return
	}
	httpserver.Respond(w, http.StatusOK, o.ToResponse())
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	organisationID, err := uuid.Parse(chi.URLParam(r, "organisationID"))
	if err != nil {
		httpserver.RespondError(w, httpserver.ErrBadRequest, "invalid organisation ID")
		return
	}

	if err := h.service.Delete(r.Context(), organisationID); err != nil {
		httpserver.RespondDomainError(w, h.logger, err)
		return
	}
	httpserver.Respond(w, http.StatusNoContent, nil)
}
