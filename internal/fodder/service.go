package fodder

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/exam-engine/internal/examerr"
)

// Repository is the storage behavior the service depends on.
type Repository interface {
	CreatePool(ctx context.Context, p NewPool) (Pool, error)
	GetPool(ctx context.Context, poolID uuid.UUID) (Pool, error)
	ListPools(ctx context.Context) ([]Summary, error)
	ListItems(ctx context.Context, poolID uuid.UUID) ([]Item, error)
	AddItems(ctx context.Context, poolID uuid.UUID, texts []string, actorID string) ([]Item, error)
	RemoveItems(ctx context.Context, poolID uuid.UUID, itemIDs []uuid.UUID) (int64, error)
	DeletePool(ctx context.Context, poolID uuid.UUID) error
	PoolExists(ctx context.Context, poolID uuid.UUID) (bool, error)
}

// Service manages fodder pools used as distractor sources.
type Service struct {
	repo   Repository
	logger zerolog.Logger
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{repo: repo, logger: logger.With().Str("component", "fodder").Logger()}
}

// CreatePool creates a pool with optional initial items.
func (s *Service) CreatePool(ctx context.Context, req CreatePoolRequest, actorID string) (Pool, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return Pool{}, examerr.Invalid("name", "pool name is required")
	}
	items, err := cleanItems(req.Items, false)
	if err != nil {
		return Pool{}, err
	}
	pool, err := s.repo.CreatePool(ctx, NewPool{
		Name:        name,
		Description: req.Description,
		Items:       items,
		CreatedBy:   actorID,
	})
	if err != nil {
		return Pool{}, err
	}
	s.logger.Info().Str("pool_id", pool.ID.String()).Int("items", len(pool.Items)).Msg("fodder pool created")
	return pool, nil
}

func (s *Service) GetPool(ctx context.Context, poolID uuid.UUID) (Pool, error) {
	return s.repo.GetPool(ctx, poolID)
}

func (s *Service) ListPools(ctx context.Context) ([]Summary, error) {
	return s.repo.ListPools(ctx)
}

// Items returns the pool's current items. Generation calls this so every
// draw sees the latest content.
func (s *Service) Items(ctx context.Context, poolID uuid.UUID) ([]Item, error) {
	return s.repo.ListItems(ctx, poolID)
}

// Exists reports whether the pool is present.
func (s *Service) Exists(ctx context.Context, poolID uuid.UUID) (bool, error) {
	return s.repo.PoolExists(ctx, poolID)
}

// AddItems appends items to an existing pool.
func (s *Service) AddItems(ctx context.Context, poolID uuid.UUID, texts []string, actorID string) ([]Item, error) {
	items, err := cleanItems(texts, true)
	if err != nil {
		return nil, err
	}
	added, err := s.repo.AddItems(ctx, poolID, items, actorID)
	if err != nil {
		return nil, err
	}
	s.logger.Debug().Str("pool_id", poolID.String()).Int("added", len(added)).Msg("fodder items added")
	return added, nil
}

// RemoveItems deletes the given items from the pool. Ids that do not belong
// to the pool are ignored.
func (s *Service) RemoveItems(ctx context.Context, poolID uuid.UUID, itemIDs []uuid.UUID) (int64, error) {
	if len(itemIDs) == 0 {
		return 0, examerr.Invalid("itemIds", "at least one item id is required")
	}
	n, err := s.repo.RemoveItems(ctx, poolID, itemIDs)
	if err != nil {
		return 0, err
	}
	s.logger.Debug().Str("pool_id", poolID.String()).Int64("removed", n).Msg("fodder items removed")
	return n, nil
}

// DeletePool removes the pool and all of its items. Template answers bound to
// it lose their pool reference.
func (s *Service) DeletePool(ctx context.Context, poolID uuid.UUID) error {
	if err := s.repo.DeletePool(ctx, poolID); err != nil {
		return err
	}
	s.logger.Info().Str("pool_id", poolID.String()).Msg("fodder pool deleted")
	return nil
}

func cleanItems(texts []string, required bool) ([]string, error) {
	if required && len(texts) == 0 {
		return nil, examerr.Invalid("items", "at least one item is required")
	}
	out := make([]string, 0, len(texts))
	for _, t := range texts {
		t = strings.TrimSpace(t)
		if t == "" {
			return nil, examerr.Invalid("items", "item text must not be empty")
		}
		out = append(out, t)
	}
	return out, nil
}
