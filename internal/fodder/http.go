package fodder

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/exam-engine/internal/auth"
	"github.com/gokatarajesh/exam-engine/internal/logging"
	httperrors "github.com/gokatarajesh/exam-engine/pkg/http/errors"
	"github.com/gokatarajesh/exam-engine/pkg/http/render"
)

// HTTPHandler exposes fodder pool management under /v1/fodder-pools.
type HTTPHandler struct {
	svc    *Service
	logger zerolog.Logger
}

func NewHTTPHandler(svc *Service, logger zerolog.Logger) *HTTPHandler {
	return &HTTPHandler{svc: svc, logger: logger.With().Str("component", "fodder_http").Logger()}
}

// Routes returns the pool routes relative to their mount point.
func (h *HTTPHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.CreatePool)
	r.Get("/", h.ListPools)
	r.Route("/{poolID}", func(r chi.Router) {
		r.Get("/", h.GetPool)
		r.Delete("/", h.DeletePool)
		r.Post("/items", h.AddItems)
		r.Delete("/items", h.RemoveItems)
	})
	return r
}

type itemsRequest struct {
	Items []string `json:"items"`
}

type removeItemsRequest struct {
	ItemIDs []uuid.UUID `json:"itemIds"`
}

// CreatePool handles POST /v1/fodder-pools
func (h *HTTPHandler) CreatePool(w http.ResponseWriter, r *http.Request) {
	var req CreatePoolRequest
	if !render.Decode(w, r, &req) {
		return
	}
	actorID, _ := auth.ActorFromContext(r.Context())
	pool, err := h.svc.CreatePool(r.Context(), req, actorID)
	if err != nil {
		h.fail(w, r, err, "create pool")
		return
	}
	render.JSON(w, http.StatusCreated, pool)
}

// ListPools handles GET /v1/fodder-pools
func (h *HTTPHandler) ListPools(w http.ResponseWriter, r *http.Request) {
	pools, err := h.svc.ListPools(r.Context())
	if err != nil {
		h.fail(w, r, err, "list pools")
		return
	}
	render.JSON(w, http.StatusOK, map[string]interface{}{"pools": pools})
}

// GetPool handles GET /v1/fodder-pools/{poolID}
func (h *HTTPHandler) GetPool(w http.ResponseWriter, r *http.Request) {
	poolID, ok := render.UUIDParam(w, "poolID", chi.URLParam(r, "poolID"))
	if !ok {
		return
	}
	pool, err := h.svc.GetPool(r.Context(), poolID)
	if err != nil {
		h.fail(w, r, err, "get pool")
		return
	}
	render.JSON(w, http.StatusOK, pool)
}

// DeletePool handles DELETE /v1/fodder-pools/{poolID}
func (h *HTTPHandler) DeletePool(w http.ResponseWriter, r *http.Request) {
	poolID, ok := render.UUIDParam(w, "poolID", chi.URLParam(r, "poolID"))
	if !ok {
		return
	}
	if err := h.svc.DeletePool(r.Context(), poolID); err != nil {
		h.fail(w, r, err, "delete pool")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddItems handles POST /v1/fodder-pools/{poolID}/items
func (h *HTTPHandler) AddItems(w http.ResponseWriter, r *http.Request) {
	poolID, ok := render.UUIDParam(w, "poolID", chi.URLParam(r, "poolID"))
	if !ok {
		return
	}
	var req itemsRequest
	if !render.Decode(w, r, &req) {
		return
	}
	actorID, _ := auth.ActorFromContext(r.Context())
	items, err := h.svc.AddItems(r.Context(), poolID, req.Items, actorID)
	if err != nil {
		h.fail(w, r, err, "add items")
		return
	}
	render.JSON(w, http.StatusCreated, map[string]interface{}{"items": items})
}

// RemoveItems handles DELETE /v1/fodder-pools/{poolID}/items
func (h *HTTPHandler) RemoveItems(w http.ResponseWriter, r *http.Request) {
	poolID, ok := render.UUIDParam(w, "poolID", chi.URLParam(r, "poolID"))
	if !ok {
		return
	}
	var req removeItemsRequest
	if !render.Decode(w, r, &req) {
		return
	}
	n, err := h.svc.RemoveItems(r.Context(), poolID, req.ItemIDs)
	if err != nil {
		h.fail(w, r, err, "remove items")
		return
	}
	render.JSON(w, http.StatusOK, map[string]interface{}{"removed": n})
}

func (h *HTTPHandler) fail(w http.ResponseWriter, r *http.Request, err error, op string) {
	logger := logging.FromContext(r.Context(), h.logger)
	logger.Warn().Err(err).Str("op", op).Msg("fodder request failed")
	httperrors.RespondDomainError(w, err)
}
