package dataplane

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/aetherhq/control-plane/internal/httpserver"
)

// Handler provides HTTP handlers for the data planes API. Data planes are a
// platform-level resource, not organisation-scoped — mutation routes are
// expected to be mounted behind an operator-only gate by the caller.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler creates a data plane Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// Routes returns a chi.Router with all data plane routes mounted.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.handleList)
	r.Post("/", h.handleCreate)
	r.Get("/{dataPlaneID}", h.handleGet)
	return r
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	planes, err := h.service.List(r.Context())
	if err != nil {
		httpserver.RespondDomainError(w, h.logger, err)
		return
	}
	resp := make([]Response, len(planes))
	for i, p := range planes {
		resp[i] = p.ToResponse()
	}
	httpserver.Respond(w, http.StatusOK, map[string]any{"dataplanes": resp})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "dataPlaneID"))
	if err != nil {
		httpserver.RespondError(w, httpserver.ErrBadRequest, "invalid data plane ID")
		return
	}
	p, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpserver.RespondDomainError(w, h.logger, err)
		return
	}
	httpserver.Respond(w, http.StatusOK, p.ToResponse())
}

// createRequest is the JSON body for POST /dataplanes.
type createRequest struct {
	Mode     string `json:"mode" validate:"required"`
	Region   string `json:"region" validate:"required"`
	Capacity int    `json:"capacity" validate:"required,gte=1"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if !httpserver.DecodeAndValidate(w, r, &req) {
		return
	}
	p, err := h.service.Create(r.Context(), CreateCommand{
		Mode:     Mode(req.Mode),
		Region:   req.Region,
		Capacity: req.Capacity,
	})
	if err != nil {
		httpserver.RespondDomainError(w, h.logger, err)
		return
	}
	httpserver.Respond(w, http.StatusCreated, p.ToResponse())
}
