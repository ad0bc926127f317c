package actual

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/gokatarajesh/exam-engine/internal/metrics"
)

// ActualCache is implemented by the Redis-backed Cache.
type ActualCache interface {
	Get(ctx context.Context, id uuid.UUID) (*Actual, error)
	Set(ctx context.Context, a Actual) error
}

// Repository reads persisted actuals.
type Repository interface {
	Get(ctx context.Context, id uuid.UUID) (Actual, error)
}

// Generator creates new actuals (implemented by generation.Engine).
type Generator interface {
	Generate(ctx context.Context, templateID uuid.UUID, examType ExamType, sectionPosition int) (Actual, error)
}

// Service reads actuals through the cache and fronts the generation engine.
type Service struct {
	repo    Repository
	cache   ActualCache
	gen     Generator
	group   singleflight.Group
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

func NewService(repo Repository, cache ActualCache, gen Generator, m *metrics.Metrics, logger zerolog.Logger) *Service {
	return &Service{
		repo:    repo,
		cache:   cache,
		gen:     gen,
		metrics: m,
		logger:  logger.With().Str("component", "actual").Logger(),
	}
}

// Generate creates a new actual and warms the cache with it.
func (s *Service) Generate(ctx context.Context, templateID uuid.UUID, examType ExamType, sectionPosition int) (Actual, error) {
	a, err := s.gen.Generate(ctx, templateID, examType, sectionPosition)
	if err != nil {
		return Actual{}, err
	}
	s.store(ctx, a)
	return a, nil
}

// Get returns the actual with its choices and answer key. Concurrent misses
// for the same id share one database read.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Actual, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, id)
		if err != nil {
			s.logger.Warn().Err(err).Str("actual_id", id.String()).Msg("actual cache read failed")
		}
		if cached != nil {
			s.metrics.CacheLookup(true)
			return *cached, nil
		}
		s.metrics.CacheLookup(false)
	}

	v, err, _ := s.group.Do(id.String(), func() (interface{}, error) {
		a, err := s.repo.Get(ctx, id)
		if err != nil {
			return Actual{}, err
		}
		s.store(ctx, a)
		return a, nil
	})
	if err != nil {
		return Actual{}, err
	}
	return v.(Actual), nil
}

func (s *Service) store(ctx context.Context, a Actual) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, a); err != nil {
		s.logger.Warn().Err(err).Str("actual_id", a.ID.String()).Msg("actual cache write failed")
	}
}
