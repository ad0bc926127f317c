package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/exam-engine/internal/actual"
	"github.com/gokatarajesh/exam-engine/internal/auth/jwt"
	"github.com/gokatarajesh/exam-engine/internal/config"
	"github.com/gokatarajesh/exam-engine/internal/db/queries"
	"github.com/gokatarajesh/exam-engine/internal/db/repository"
	"github.com/gokatarajesh/exam-engine/internal/fodder"
	"github.com/gokatarajesh/exam-engine/internal/generation"
	"github.com/gokatarajesh/exam-engine/internal/lifecycle"
	"github.com/gokatarajesh/exam-engine/internal/logging"
	"github.com/gokatarajesh/exam-engine/internal/metrics"
	"github.com/gokatarajesh/exam-engine/internal/server"
	"github.com/gokatarajesh/exam-engine/internal/template"
)

// Application aggregates shared infrastructure (DB, cache, HTTP server).
type Application struct {
	cfg    *config.App
	logger zerolog.Logger

	pool  *pgxpool.Pool
	redis *redis.Client
	http  *http.Server
}

// New bootstraps logger, Postgres, Redis, the domain services and the HTTP server.
func New(ctx context.Context, cfg *config.App) (*Application, error) {
	logger := logging.New(cfg.Name, cfg.Env)
	logger.Info().Msg("starting application bootstrap")

	connString := fmt.Sprintf("%s pool_max_conns=%d", cfg.Postgres.DSN(), cfg.Postgres.MaxConns)
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	store := queries.NewStore(pool)
	fodderRepo := repository.NewFodderRepository(store)
	templateRepo := repository.NewTemplateRepository(store)
	actualRepo := repository.NewActualRepository(store)
	examRepo := repository.NewExamRepository(store)

	fodderSvc := fodder.NewService(fodderRepo, logger)
	templateSvc := template.NewService(templateRepo, fodderSvc, logger)

	engine := generation.NewEngine(templateRepo, fodderSvc, actualRepo, m, logger, generation.Options{
		Source:       generation.NewSource(cfg.Generation.RandomSeed),
		ShuffleCorrect: cfg.Generation.ShuffleCorrect,
	})
	actualSvc := actual.NewService(actualRepo, actual.NewCache(redisClient, cfg.Generation.ActualCacheTTL), engine, m, logger)

	locker := lifecycle.NewRedisLocker(redisClient, cfg.Lifecycle.GenerationLockTTL, cfg.Lifecycle.LockRetries, cfg.Lifecycle.LockRetryDelay, logger)
	examSvc := lifecycle.NewService(examRepo, templateRepo, actualSvc, actualSvc, locker, m, logger, lifecycle.Options{})

	tokens := jwt.NewManager(jwt.TokenConfig{
		Secret: []byte(cfg.Security.JWTSecret),
		Issuer: cfg.Security.JWTIssuer,
	})

	apiServer := server.NewHTTPServer(cfg, logger, server.Deps{
		Tokens:   tokens,
		Gatherer: reg,
		Ping:     server.PingDependencies(pool, redisClient),
	}, server.Handlers{
		Fodder:    fodder.NewHTTPHandler(fodderSvc, logger),
		Templates: template.NewHTTPHandler(templateSvc, logger),
		Actuals:   actual.NewHTTPHandler(actualSvc, logger),
		Exams:     lifecycle.NewHTTPHandler(examSvc, logger),
	})

	return &Application{
		cfg:    cfg,
		logger: logger,
		pool:   pool,
		redis:  redisClient,
		http:   apiServer,
	}, nil
}

// Run starts the HTTP server and waits for termination signals.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info().Str("addr", a.cfg.HTTPAddr).Msg("http server listening")
		if err := a.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		a.logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
		a.logger.Warn().Msg("context canceled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.GracefulShutdownTimeout)
	defer cancel()

	if err := a.http.Shutdown(shutdownCtx); err != nil {
		a.logger.Error().Err(err).Msg("http shutdown error")
	}

	a.pool.Close()
	if err := a.redis.Close(); err != nil {
		a.logger.Error().Err(err).Msg("redis shutdown error")
	}

	a.logger.Info().Msg("shutdown complete")
	return nil
}
