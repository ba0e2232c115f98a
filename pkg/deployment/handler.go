package deployment

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/aetherhq/control-plane/internal/httpserver"
	"github.com/aetherhq/control-plane/pkg/identity"
)

// Handler provides HTTP handlers for the deployments API, mounted under an
// organisation's sub-router.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler creates a deployment Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// Routes returns a chi.Router with all deployment routes mounted.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.handleList)
	r.Post("/", h.handleCreate)
	r.Route("/{deploymentID}", func(r chi.Router) {
		r.Get("/", h.handleGet)
		r.Delete("/", h.handleDelete)
	})
	return r
}

// DataPlaneRoutes returns a chi.Router implementing get_deployments_in_dataplane,
// mounted at the platform level (e.g. /dataplanes/{dataPlaneID}/deployments)
// rather than under an organisation, since results span organisations.
func (h *Handler) DataPlaneRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.handleListByDataPlane)
	return r
}

func (h *Handler) handleListByDataPlane(w http.ResponseWriter, r *http.Request) {
	id, ok := callerIdentity(w, r)
	if !ok {
		return
	}
	dataPlaneID, err := uuid.Parse(chi.URLParam(r, "dataPlaneID"))
	if err != nil {
		httpserver.RespondError(w, httpserver.ErrBadRequest, "invalid data plane ID")
		return
	}

	items, err := h.service.ListByDataPlane(r.Context(), id, dataPlaneID)
	if err != nil {
		httpserver.RespondDomainError(w, h.logger, err)
		return
	}

	resp := make([]Response, len(items))
	for i, d := range items {
		resp[i] = d.ToResponse()
	}
	httpserver.Respond(w, http.StatusOK, map[string]any{"deployments": resp})
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

	params, err := httpserver.ParseOffsetParams(r)
	if err != nil {
		httpserver.RespondError(w, httpserver.ErrBadRequest, err.Error())
		return
	}

	items, total, err := h.service.List(r.Context(), id, organisationID, params.PageSize, params.Offset)
	if err != nil {
		httpserver.RespondDomainError(w, h.logger, err)
		return
	}

	resp := make([]Response, len(items))
	for i, d := range items {
		resp[i] = d.ToResponse()
	}
	httpserver.Respond(w, http.StatusOK, httpserver.NewOffsetPage(resp, params, total))
}

// createRequest is the JSON body for POST /organisations/{organisationID}/deployments.
type createRequest struct {
	Name      string `json:"name" validate:"required"`
	Kind      string `json:"kind" validate:"required"`
	Version   string `json:"version" validate:"required"`
	Namespace string `json:"namespace" validate:"required"`
	Region    string `json:"region"`
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

	var createdBy uuid.UUID
	if id.Kind == identity.KindUser {
		createdBy = id.UserID
	}

	d, err := h.service.Create(r.Context(), id, CreateCommand{
		OrganisationID: organisationID,
		Name:           req.Name,
		Kind:           Kind(req.Kind),
		Version:        req.Version,
		Namespace:      req.Namespace,
		Region:         req.Region,
		CreatedBy:      createdBy,
	})
	if err != nil {
		httpserver.RespondDomainError(w, h.logger, err)
		return
	}
	httpserver.Respond(w, http.StatusCreated, d.ToResponse())
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := callerIdentity(w, r)
	if !ok {
		return
	}
	organisationID, err := uuid.Parse(chi.URLParam(r, "organisationID"))
	if err != nil {
		httpserver.RespondError(w, httpserver.ErrBadRequest, "invalid organisation ID")
		return
	}
	deploymentID, err := uuid.Parse(chi.URLParam(r, "deploymentID"))
	if err != nil {
		httpserver.RespondError(w, httpserver.ErrBadRequest, "invalid deployment ID")
		return
	}

	d, err := h.service.Get(r.Context(), id, organisationID, deploymentID)
	if err != nil {
		httpserver.RespondDomainError(w, h.logger, err)
		return
	}
	httpserver.Respond(w, http.StatusOK, d.ToResponse())
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
	deploymentID, err := uuid.Parse(chi.URLParam(r, "deploymentID"))
	if err != nil {
		httpserver.RespondError(w, httpserver.ErrBadRequest, "invalid deployment ID")
		return
	}

	if err := h.service.Delete(r.Context(), id, organisationID, deploymentID); err != nil {
		httpserver.RespondDomainError(w, h.logger, err)
		return
	}
	httpserver.Respond(w, http.StatusNoContent, nil)
}
