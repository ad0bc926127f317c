package lifecycle

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/exam-engine/internal/auth"
	"github.com/gokatarajesh/exam-engine/internal/logging"
	httperrors "github.com/gokatarajesh/exam-engine/pkg/http/errors"
	"github.com/gokatarajesh/exam-engine/pkg/http/render"
)

// HTTPHandler exposes exam instances, sections and questions.
type HTTPHandler struct {
	svc    *Service
	logger zerolog.Logger
}

func NewHTTPHandler(svc *Service, logger zerolog.Logger) *HTTPHandler {
	return &HTTPHandler{svc: svc, logger: logger.With().Str("component", "lifecycle_http").Logger()}
}

// InstanceRoutes is mounted at /v1/exam-instances.
func (h *HTTPHandler) InstanceRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.CreateInstance)
	r.Get("/{instanceID}", h.GetInstance)
	r.Post("/{instanceID}/complete", h.CompleteInstance)
	return r
}

// SectionRoutes is mounted at /v1/exam-sections.
func (h *HTTPHandler) SectionRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/{sectionID}/start", h.StartSection)
	r.Post("/{sectionID}/complete", h.CompleteSection)
	return r
}

// QuestionRoutes is mounted at /v1/exam-questions.
func (h *HTTPHandler) QuestionRoutes() chi.Router {
	r := chi.NewRouter()
	r.Route("/{questionID}", func(r chi.Router) {
		r.Get("/", h.OpenQuestion)
		r.Post("/answer", h.SubmitAnswer)
		r.Post("/flag", h.questionAction("flag", h.svc.FlagQuestion))
		r.Post("/unflag", h.questionAction("unflag", h.svc.UnflagQuestion))
		r.Post("/skip", h.questionAction("skip", h.svc.SkipQuestion))
	})
	return r
}

type answerRequest struct {
	Answer string `json:"answer"`
}

// CreateInstance handles POST /v1/exam-instances
func (h *HTTPHandler) CreateInstance(w http.ResponseWriter, r *http.Request) {
	var req CreateInstanceRequest
	if !render.Decode(w, r, &req) {
		return
	}
	actorID, _ := auth.ActorFromContext(r.Context())
	inst, err := h.svc.CreateInstance(r.Context(), req, actorID)
	if err != nil {
		h.fail(w, r, err, "create instance")
		return
	}
	render.JSON(w, http.StatusCreated, inst)
}

// GetInstance handles GET /v1/exam-instances/{instanceID}
func (h *HTTPHandler) GetInstance(w http.ResponseWriter, r *http.Request) {
	id, ok := render.UUIDParam(w, "instanceID", chi.URLParam(r, "instanceID"))
	if !ok {
		return
	}
	inst, err := h.svc.GetInstance(r.Context(), id)
	if err != nil {
		h.fail(w, r, err, "get instance")
		return
	}
	render.JSON(w, http.StatusOK, inst)
}

// CompleteInstance handles POST /v1/exam-instances/{instanceID}/complete
func (h *HTTPHandler) CompleteInstance(w http.ResponseWriter, r *http.Request) {
	id, ok := render.UUIDParam(w, "instanceID", chi.URLParam(r, "instanceID"))
	if !ok {
		return
	}
	inst, err := h.svc.CompleteInstance(r.Context(), id)
	if err != nil {
		h.fail(w, r, err, "complete instance")
		return
	}
	render.JSON(w, http.StatusOK, inst)
}

// StartSection handles POST /v1/exam-sections/{sectionID}/start
func (h *HTTPHandler) StartSection(w http.ResponseWriter, r *http.Request) {
	id, ok := render.UUIDParam(w, "sectionID", chi.URLParam(r, "sectionID"))
	if !ok {
		return
	}
	sec, err := h.svc.StartSection(r.Context(), id)
	if err != nil {
		h.fail(w, r, err, "start section")
		return
	}
	render.JSON(w, http.StatusOK, sec)
}

// CompleteSection handles POST /v1/exam-sections/{sectionID}/complete
func (h *HTTPHandler) CompleteSection(w http.ResponseWriter, r *http.Request) {
	id, ok := render.UUIDParam(w, "sectionID", chi.URLParam(r, "sectionID"))
	if !ok {
		return
	}
	sec, err := h.svc.CompleteSection(r.Context(), id)
	if err != nil {
		h.fail(w, r, err, "complete section")
		return
	}
	render.JSON(w, http.StatusOK, sec)
}

// OpenQuestion handles GET /v1/exam-questions/{questionID}
func (h *HTTPHandler) OpenQuestion(w http.ResponseWriter, r *http.Request) {
	id, ok := render.UUIDParam(w, "questionID", chi.URLParam(r, "questionID"))
	if !ok {
		return
	}
	env, err := h.svc.OpenQuestion(r.Context(), id)
	if err != nil {
		h.fail(w, r, err, "open question")
		return
	}
	render.JSON(w, http.StatusOK, env)
}

// SubmitAnswer handles POST /v1/exam-questions/{questionID}/answer
func (h *HTTPHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	id, ok := render.UUIDParam(w, "questionID", chi.URLParam(r, "questionID"))
	if !ok {
		return
	}
	var req answerRequest
	if !render.Decode(w, r, &req) {
		return
	}
	actorID, _ := auth.ActorFromContext(r.Context())
	q, err := h.svc.SubmitAnswer(r.Context(), id, req.Answer, actorID)
	if err != nil {
		h.fail(w, r, err, "submit answer")
		return
	}
	render.JSON(w, http.StatusOK, q)
}

// questionAction serves the flag, unflag and skip routes under /v1/exam-questions/{questionID}.
func (h *HTTPHandler) questionAction(op string, fn func(context.Context, uuid.UUID) (Question, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := render.UUIDParam(w, "questionID", chi.URLParam(r, "questionID"))
		if !ok {
			return
		}
		q, err := fn(r.Context(), id)
		if err != nil {
			h.fail(w, r, err, op+" question")
			return
		}
		render.JSON(w, http.StatusOK, q)
	}
}

func (h *HTTPHandler) fail(w http.ResponseWriter, r *http.Request, err error, op string) {
	logger := logging.FromContext(r.Context(), h.logger)
	logger.Warn().Err(err).Str("op", op).Msg("exam request failed")
	httperrors.RespondDomainError(w, err)
}
