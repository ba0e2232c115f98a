package action

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/aetherhq/control-plane/internal/httpserver"
	"github.com/aetherhq/control-plane/pkg/identity"
)

// Handler provides HTTP handlers for the action log, mounted under a
// deployment's sub-router.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler creates an action Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// Routes returns a chi.Router with all action routes mounted. The caller is
// responsible for putting auth.RequireService in front of this router: only
// Herald may fetch or claim actions, per spec §4.2.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.handleFetch)
	r.Post("/claim", h.handleClaim)
	r.Route("/{actionID}", func(r chi.Router) {
		r.Get("/", h.handleGet)
		r.Post("/published", h.handleMarkPublished)
		r.Post("/failed", h.handleMarkFailed)
	})
	return r
}

func (h *Handler) handleFetch(w http.ResponseWriter, r *http.Request) {
	id, ok := identity.FromContext(r.Context())
	if !ok {
		httpserver.RespondError(w, httpserver.ErrMissingAuthHeader, "authentication required")
		return
	}
	deploymentID, err := uuid.Parse(chi.URLParam(r, "deploymentID"))
	if err != nil {
		httpserver.RespondError(w, httpserver.ErrBadRequest, "invalid deployment ID")
		return
	}

	limit := httpserver.DefaultPageSize
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			httpserver.RespondError(w, httpserver.ErrBadRequest, "limit must be a positive integer")
			return
		}
		if n > httpserver.MaxPageSize {
			n = httpserver.MaxPageSize
		}
		limit = n
	}

	batch, err := h.service.FetchActions(r.Context(), id, deploymentID, r.URL.Query().Get("cursor"), limit)
	if err != nil {
		httpserver.RespondDomainError(w, h.logger, err)
		return
	}

	resp := make([]Response, len(batch.Actions))
	for i, a := range batch.Actions {
		resp[i] = a.ToResponse()
	}
	httpserver.Respond(w, http.StatusOK, map[string]any{
		"actions":     resp,
		"next_cursor": batch.NextCursor,
	})
}

// claimRequest is the JSON body for POST .../actions/claim.
type claimRequest struct {
	DataPlaneID  uuid.UUID `json:"dataplane_id" validate:"required"`
	Max          int       `json:"max" validate:"required,gte=1"`
	LeaseSeconds int       `json:"lease_seconds" validate:"required,gte=1"`
}

func (h *Handler) handleClaim(w http.ResponseWriter, r *http.Request) {
	id, ok := identity.FromContext(r.Context())
	if !ok {
		httpserver.RespondError(w, httpserver.ErrMissingAuthHeader, "authentication required")
		return
	}
	if !id.IsService() {
		httpserver.RespondError(w, httpserver.ErrForbidden, "only the herald service may claim actions")
		return
	}
	deploymentID, err := uuid.Parse(chi.URLParam(r, "deploymentID"))
	if err != nil {
		httpserver.RespondError(w, httpserver.ErrBadRequest, "invalid deployment ID")
		return
	}

	var req claimRequest
	if !httpserver.DecodeAndValidate(w, r, &req) {
		return
	}

	items, err := h.service.ClaimActions(r.Context(), ClaimCommand{
		DataPlaneID:  req.DataPlaneID,
		DeploymentID: deploymentID,
		Max:          req.Max,
		LeaseSeconds: req.LeaseSeconds,
	})
	if err != nil {
		httpserver.RespondDomainError(w, h.logger, err)
		return
	}

	resp := make([]Response, len(items))
	for i, a := range items {
		resp[i] = a.ToResponse()
	}
	httpserver.Respond(w, http.StatusOK, map[string]any{"actions": resp})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	deploymentID, err := uuid.Parse(chi.URLParam(r, "deploymentID"))
	if err != nil {
		httpserver.RespondError(w, httpserver.ErrBadRequest, "invalid deployment ID")
		return
	}
	actionID, err := uuid.Parse(chi.URLParam(r, "actionID"))
	if err != nil {
		httpserver.RespondError(w, httpserver.ErrBadRequest, "invalid action ID")
		return
	}

	a, err := h.service.GetByID(r.Context(), deploymentID, actionID)
	if err != nil {
		httpserver.RespondDomainError(w, h.logger, err)
		return
	}
	httpserver.Respond(w, http.StatusOK, a.ToResponse())
}

func (h *Handler) handleMarkPublished(w http.ResponseWriter, r *http.Request) {
	id, ok := identity.FromContext(r.Context())
	if !ok {
		httpserver.RespondError(w, httpserver.ErrMissingAuthHeader, "authentication required")
		return
	}
	deploymentID, err := uuid.Parse(chi.URLParam(r, "deploymentID"))
	if err != nil {
		httpserver.RespondError(w, httpserver.ErrBadRequest, "invalid deployment ID")
		return
	}
	actionID, err := uuid.Parse(chi.URLParam(r, "actionID"))
	if err != nil {
		httpserver.RespondError(w, httpserver.ErrBadRequest, "invalid action ID")
		return
	}

	if err := h.service.MarkPublished(r.Context(), id, deploymentID, actionID); err != nil {
		httpserver.RespondDomainError(w, h.logger, err)
		return
	}
	httpserver.Respond(w, http.StatusNoContent, nil)
}

// markFailedRequest is the JSON body for POST .../actions/{actionID}/failed.
type markFailedRequest struct {
	Reason string `json:"reason" validate:"required"`
}

func (h *Handler) handleMarkFailed(w http.ResponseWriter, r *http.Request) {
	id, ok := identity.FromContext(r.Context())
	if !ok {
		httpserver.RespondError(w, httpserver.ErrMissingAuthHeader, "authentication required")
		return
	}
	deploymentID, err := uuid.Parse(chi.URLParam(r, "deploymentID"))
	if err != nil {
		httpserver.RespondError(w, httpserver.ErrBadRequest, "invalid deployment ID")
		return
	}
	actionID, err := uuid.Parse(chi.URLParam(r, "actionID"))
	if err != nil {
		httpserver.RespondError(w, httpserver.ErrBadRequest, "invalid action ID")
		return
	}

	var req markFailedRequest
	if !httpserver.DecodeAndValidate(w, r, &req) {
		return
	}

	if err := h.service.MarkFailed(r.Context(), id, deploymentID, actionID, req.Reason); err != nil {
		httpserver.RespondDomainError(w, h.logger, err)
		return
	}
	httpserver.Respond(w, http.StatusNoContent, nil)
}
