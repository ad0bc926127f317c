package template

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/exam-engine/internal/examerr"
)

// Repository is the storage behavior the service depends on.
type Repository interface {
	Create(ctx context.Context, rec Record) (Template, error)
	Get(ctx context.Context, templateID uuid.UUID) (Template, error)
	Update(ctx context.Context, templateID uuid.UUID, rec Record, replaceMedia, replaceAnswers bool) (Template, error)
	Search(ctx context.Context, f Filter) ([]Template, error)
	HasLiveActual(ctx context.Context, templateID uuid.UUID) (bool, error)
}

// PoolChecker confirms referenced fodder pools exist.
type PoolChecker interface {
	Exists(ctx context.Context, poolID uuid.UUID) (bool, error)
}

// Service authors question templates.
type Service struct {
	repo   Repository
	pools  PoolChecker
	logger zerolog.Logger
}

func NewService(repo Repository, pools PoolChecker, logger zerolog.Logger) *Service {
	return &Service{repo: repo, pools: pools, logger: logger.With().Str("component", "template").Logger()}
}

// Create validates the payload against its declared shape and stores version 1.
func (s *Service) Create(ctx context.Context, sp Spec, actorID string) (Template, error) {
	rec, err := sp.toRecord(actorID)
	if err != nil {
		return Template{}, err
	}
	if err := s.checkPools(ctx, rec.ValidAnswers); err != nil {
		return Template{}, err
	}
	t, err := s.repo.Create(ctx, rec)
	if err != nil {
		return Template{}, err
	}
	s.logger.Info().Str("template_id", t.ID.String()).Str("response_type", string(t.UserResponseType)).Msg("template created")
	return t, nil
}

func (s *Service) Get(ctx context.Context, templateID uuid.UUID) (Template, error) {
	return s.repo.Get(ctx, templateID)
}

// Update applies a patch. Templates that already back a live actual are
// frozen: the patch is written as a new version whose parent is the original,
// and the new version is returned.
func (s *Service) Update(ctx context.Context, templateID uuid.UUID, p Patch, actorID string) (Template, error) {
	cur, err := s.repo.Get(ctx, templateID)
	if err != nil {
		return Template{}, err
	}
	rec, err := p.apply(cur).toRecord(cur.CreatedBy)
	if err != nil {
		return Template{}, err
	}
	if err := s.checkPools(ctx, rec.ValidAnswers); err != nil {
		return Template{}, err
	}

	locked, err := s.repo.HasLiveActual(ctx, templateID)
	if err != nil {
		return Template{}, fmt.Errorf("check live actuals: %w", err)
	}
	if !locked {
		return s.repo.Update(ctx, templateID, rec, p.Media != nil, p.ValidAnswers != nil)
	}

	rec.ParentTemplateID = &cur.ID
	rec.Version = cur.Version + 1
	rec.CreatedBy = actorID
	next, err := s.repo.Create(ctx, rec)
	if err != nil {
		return Template{}, err
	}
	s.logger.Info().
		Str("template_id", cur.ID.String()).
		Str("new_template_id", next.ID.String()).
		Int("version", next.Version).
		Msg("template frozen by live actual, forked new version")
	return next, nil
}

// Search returns templates matching every non-empty filter field.
func (s *Service) Search(ctx context.Context, f Filter) ([]Template, error) {
	if f.Limit < 0 || f.Offset < 0 {
		return nil, examerr.Invalid("limit", "limit and offset must not be negative")
	}
	if f.Limit > 200 {
		f.Limit = 200
	}
	f.Topics = normalizeTopics(f.Topics)
	return s.repo.Search(ctx, f)
}

func (s *Service) checkPools(ctx context.Context, answers []ValidAnswer) error {
	for i, a := range answers {
		if a.FodderPoolID == nil {
			continue
		}
		ok, err := s.pools.Exists(ctx, *a.FodderPoolID)
		if err != nil {
			return fmt.Errorf("check fodder pool: %w", err)
		}
		if !ok {
			return examerr.Invalid(fmt.Sprintf("validAnswers[%d].fodderPoolId", i), "fodder pool %s does not exist", a.FodderPoolID)
		}
	}
	return nil
}
