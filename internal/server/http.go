package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/exam-engine/internal/actual"
	"github.com/gokatarajesh/exam-engine/internal/auth"
	"github.com/gokatarajesh/exam-engine/internal/config"
	"github.com/gokatarajesh/exam-engine/internal/fodder"
	"github.com/gokatarajesh/exam-engine/internal/lifecycle"
	"github.com/gokatarajesh/exam-engine/internal/logging"
	"github.com/gokatarajesh/exam-engine/internal/template"
	httperrors "github.com/gokatarajesh/exam-engine/pkg/http/errors"
	"github.com/gokatarajesh/exam-engine/pkg/http/render"
)

// Handlers are the domain route groups mounted under /v1.
type Handlers struct {
	Fodder    *fodder.HTTPHandler
	Templates *template.HTTPHandler
	Actuals   *actual.HTTPHandler
	Exams     *lifecycle.HTTPHandler
}

// Deps is what the router needs besides the handlers.
type Deps struct {
	Tokens   auth.TokenValidator
	Gatherer prometheus.Gatherer
	// Ping checks upstream dependencies for /v1/ping.
	Ping func(ctx context.Context) error
}

// NewHTTPServer wraps the router in an http.Server bound to cfg.HTTPAddr.
func NewHTTPServer(cfg *config.App, logger zerolog.Logger, deps Deps, h Handlers) *http.Server {
	return &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: NewRouter(cfg, logger, deps, h),
	}
}

// NewRouter wires health, metrics and the authenticated /v1 API.
func NewRouter(cfg *config.App, logger zerolog.Logger, deps Deps, h Handlers) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)
	if cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           cfg.CORS.MaxAge,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Get("/v1/ping", func(w http.ResponseWriter, r *http.Request) {
		if deps.Ping != nil {
			if err := deps.Ping(r.Context()); err != nil {
				reqLogger := logging.FromContext(r.Context(), logger)
				reqLogger.Error().Err(err).Msg("dependency ping failed")
				httperrors.RespondError(w, http.StatusBadGateway, httperrors.ErrCodeUpstreamError, "upstream error")
				return
			}
		}
		render.JSON(w, http.StatusOK, map[string]bool{"pong": true})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Use(auth.Middleware(deps.Tokens, logger))
		r.Use(auth.RequireActor)
		if h.Fodder != nil {
			r.Mount("/fodder-pools", h.Fodder.Routes())
		}
		if h.Templates != nil {
			r.Mount("/templates", h.Templates.Routes())
		}
		if h.Actuals != nil {
			r.Mount("/actuals", h.Actuals.Routes())
		}
		if h.Exams != nil {
			r.Mount("/exam-instances", h.Exams.InstanceRoutes())
			r.Mount("/exam-sections", h.Exams.SectionRoutes())
			r.Mount("/exam-questions", h.Exams.QuestionRoutes())
		}
	})

	return r
}

// PingDependencies checks Postgres and Redis.
func PingDependencies(pool *pgxpool.Pool, redis *redis.Client) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if err := pool.Ping(ctx); err != nil {
			return err
		}
		return redis.Ping(ctx).Err()
	}
}

// requestLogger stores a request-scoped logger carrying the request id.
func requestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqLogger := logger.With().Str("request_id", middleware.GetReqID(r.Context())).Logger()
			next.ServeHTTP(w, r.WithContext(logging.IntoContext(r.Context(), reqLogger)))
		})
	}
}
