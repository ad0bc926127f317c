package template

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/exam-engine/internal/auth"
	"github.com/gokatarajesh/exam-engine/internal/logging"
	httperrors "github.com/gokatarajesh/exam-engine/pkg/http/errors"
	"github.com/gokatarajesh/exam-engine/pkg/http/render"
)

// HTTPHandler exposes template authoring under /v1/templates.
type HTTPHandler struct {
	svc    *Service
	logger zerolog.Logger
}

func NewHTTPHandler(svc *Service, logger zerolog.Logger) *HTTPHandler {
	return &HTTPHandler{svc: svc, logger: logger.With().Str("component", "template_http").Logger()}
}

// Routes is mounted at /v1/templates.
func (h *HTTPHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Create)
	r.Get("/", h.Search)
	r.Get("/{templateID}", h.Get)
	r.Put("/{templateID}", h.Update)
	return r
}

// Create handles POST /v1/templates
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var sp Spec
	if !render.Decode(w, r, &sp) {
		return
	}
	actorID, _ := auth.ActorFromContext(r.Context())
	t, err := h.svc.Create(r.Context(), sp, actorID)
	if err != nil {
		h.fail(w, r, err, "create template")
		return
	}
	render.JSON(w, http.StatusCreated, t)
}

// Get handles GET /v1/templates/{templateID}
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := render.UUIDParam(w, "templateID", chi.URLParam(r, "templateID"))
	if !ok {
		return
	}
	t, err := h.svc.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err, "get template")
		return
	}
	render.JSON(w, http.StatusOK, t)
}

// Update handles PUT /v1/templates/{templateID}
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := render.UUIDParam(w, "templateID", chi.URLParam(r, "templateID"))
	if !ok {
		return
	}
	var p Patch
	if !render.Decode(w, r, &p) {
		return
	}
	actorID, _ := auth.ActorFromContext(r.Context())
	t, err := h.svc.Update(r.Context(), id, p, actorID)
	if err != nil {
		h.fail(w, r, err, "update template")
		return
	}
	render.JSON(w, http.StatusOK, t)
}

// Search handles GET /v1/templates, reading the filter from the query string:
// ?q=&difficulty=&topics=a,b&promptType=&responseType=&courseId=&limit=&offset=
func (h *HTTPHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := Filter{
		SearchTerm:   q.Get("q"),
		Difficulty:   q.Get("difficulty"),
		PromptType:   q.Get("promptType"),
		ResponseType: q.Get("responseType"),
		CourseID:     q.Get("courseId"),
	}
	if raw := q.Get("topics"); raw != "" {
		f.Topics = strings.Split(raw, ",")
	}
	for name, dst := range map[string]*int{"limit": &f.Limit, "offset": &f.Offset} {
		raw := q.Get(name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, name+" must be an integer")
			return
		}
		*dst = n
	}

	ts, err := h.svc.Search(r.Context(), f)
	if err != nil {
		h.fail(w, r, err, "search templates")
		return
	}
	render.JSON(w, http.StatusOK, map[string]interface{}{"templates": ts})
}

func (h *HTTPHandler) fail(w http.ResponseWriter, r *http.Request, err error, op string) {
	logger := logging.FromContext(r.Context(), h.logger)
	logger.Warn().Err(err).Str("op", op).Msg("template request failed")
	httperrors.RespondDomainError(w, err)
}
