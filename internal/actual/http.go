package actual

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/exam-engine/internal/logging"
	httperrors "github.com/gokatarajesh/exam-engine/pkg/http/errors"
	"github.com/gokatarajesh/exam-engine/pkg/http/render"
)

// HTTPHandler exposes generation and retrieval under /v1/actuals.
type HTTPHandler struct {
	svc    *Service
	logger zerolog.Logger
}

func NewHTTPHandler(svc *Service, logger zerolog.Logger) *HTTPHandler {
	return &HTTPHandler{svc: svc, logger: logger.With().Str("component", "actual_http").Logger()}
}

// Routes is mounted at /v1/actuals.
func (h *HTTPHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Generate)
	r.Get("/{actualID}", h.Get)
	return r
}

type generateRequest struct {
	TemplateID      uuid.UUID `json:"templateId"`
	ExamType        string    `json:"examType"`
	SectionPosition int       `json:"sectionPosition"`
}

// Generate handles POST /v1/actuals
func (h *HTTPHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if !render.Decode(w, r, &req) {
		return
	}
	examType, err := ParseExamType(req.ExamType)
	if err != nil {
		h.fail(w, r, err, "generate actual")
		return
	}
	a, err := h.svc.Generate(r.Context(), req.TemplateID, examType, req.SectionPosition)
	if err != nil {
		h.fail(w, r, err, "generate actual")
		return
	}
	render.JSON(w, http.StatusCreated, a.ToDTO())
}

// Get handles GET /v1/actuals/{actualID}
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := render.UUIDParam(w, "actualID", chi.URLParam(r, "actualID"))
	if !ok {
		return
	}
	a, err := h.svc.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err, "get actual")
		return
	}
	render.JSON(w, http.StatusOK, a.ToDTO())
}

func (h *HTTPHandler) fail(w http.ResponseWriter, r *http.Request, err error, op string) {
	logger := logging.FromContext(r.Context(), h.logger)
	logger.Warn().Err(err).Str("op", op).Msg("actual request failed")
	httperrors.RespondDomainError(w, err)
}
