package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/gokatarajesh/exam-engine/internal/db/queries"
	"github.com/gokatarajesh/exam-engine/internal/examerr"
	"github.com/gokatarajesh/exam-engine/internal/fodder"
)

type fodderStore interface {
	CreateFodderPool(ctx context.Context, arg queries.CreateFodderPoolParams) (queries.FodderPool, error)
	GetFodderPool(ctx context.Context, poolID uuid.UUID) (queries.FodderPool, error)
	ListFodderPools(ctx context.Context) ([]queries.FodderPoolSummary, error)
	DeleteFodderPool(ctx context.Context, poolID uuid.UUID) (int64, error)
	FodderPoolExists(ctx context.Context, poolID uuid.UUID) (bool, error)
	CreateFodderItem(ctx context.Context, arg queries.CreateFodderItemParams) (queries.FodderItem, error)
	ListFodderItems(ctx context.Context, poolID uuid.UUID) ([]queries.FodderItem, error)
	DeleteFodderItems(ctx context.Context, arg queries.DeleteFodderItemsParams) (int64, error)
}

// FodderRepository persists fodder pools and their items.
type FodderRepository struct {
	store fodderStore
	inTx  txRunner[fodderStore]
}

// NewFodderRepository binds the repository to the pgx-backed store.
func NewFodderRepository(db *queries.Store) *FodderRepository {
	return &FodderRepository{
		store: db,
		inTx:  storeTx(db, func(q *queries.Queries) fodderStore { return q }),
	}
}

func newFodderRepository(store fodderStore) *FodderRepository {
	return &FodderRepository{store: store, inTx: directTx(store)}
}

// CreatePool inserts the pool and its initial items atomically.
func (r *FodderRepository) CreatePool(ctx context.Context, p fodder.NewPool) (fodder.Pool, error) {
	var out fodder.Pool
	err := r.inTx(ctx, func(s fodderStore) error {
		row, err := s.CreateFodderPool(ctx, queries.CreateFodderPoolParams{
			PoolID:      uuid.New(),
			Name:        p.Name,
			Description: pgText(p.Description),
			CreatedBy:   p.CreatedBy,
		})
		if err != nil {
			return fmt.Errorf("insert pool: %w", err)
		}
		out = poolFromRow(row)
		items, err := insertItems(ctx, s, row.PoolID, p.Items, p.CreatedBy)
		if err != nil {
			return err
		}
		out.Items = items
		return nil
	})
	return out, err
}

// GetPool loads a pool with its items.
func (r *FodderRepository) GetPool(ctx context.Context, poolID uuid.UUID) (fodder.Pool, error) {
	row, err := r.store.GetFodderPool(ctx, poolID)
	if err != nil {
		return fodder.Pool{}, notFound(err, "fodder pool", poolID)
	}
	pool := poolFromRow(row)
	pool.Items, err = r.ListItems(ctx, poolID)
	if err != nil {
		return fodder.Pool{}, err
	}
	return pool, nil
}

func (r *FodderRepository) ListPools(ctx context.Context) ([]fodder.Summary, error) {
	rows, err := r.store.ListFodderPools(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]fodder.Summary, 0, len(rows))
	for _, row := range rows {
		out = append(out, fodder.Summary{
			ID:          row.PoolID,
			Name:        row.Name,
			Description: textPtr(row.Description),
			CreatedBy:   row.CreatedBy,
			CreatedAt:   row.CreatedAt,
			ItemCount:   int(row.ItemCount),
		})
	}
	return out, nil
}

// ListItems reads the current items of a pool straight from storage.
func (r *FodderRepository) ListItems(ctx context.Context, poolID uuid.UUID) ([]fodder.Item, error) {
	rows, err := r.store.ListFodderItems(ctx, poolID)
	if err != nil {
		return nil, err
	}
	items := make([]fodder.Item, 0, len(rows))
	for _, row := range rows {
		items = append(items, itemFromRow(row))
	}
	return items, nil
}

func (r *FodderRepository) AddItems(ctx context.Context, poolID uuid.UUID, texts []string, actorID string) ([]fodder.Item, error) {
	var out []fodder.Item
	err := r.inTx(ctx, func(s fodderStore) error {
		if err := requirePool(ctx, s, poolID); err != nil {
			return err
		}
		items, err := insertItems(ctx, s, poolID, texts, actorID)
		out = items
		return err
	})
	return out, err
}

func (r *FodderRepository) RemoveItems(ctx context.Context, poolID uuid.UUID, itemIDs []uuid.UUID) (int64, error) {
	var removed int64
	err := r.inTx(ctx, func(s fodderStore) error {
		if err := requirePool(ctx, s, poolID); err != nil {
			return err
		}
		n, err := s.DeleteFodderItems(ctx, queries.DeleteFodderItemsParams{PoolID: poolID, ItemIDs: itemIDs})
		removed = n
		return err
	})
	return removed, err
}

// DeletePool removes the pool; items go with it through the cascade.
func (r *FodderRepository) DeletePool(ctx context.Context, poolID uuid.UUID) error {
	n, err := r.store.DeleteFodderPool(ctx, poolID)
	if err != nil {
		return err
	}
	if n == 0 {
		return examerr.NotFound("fodder pool", poolID.String())
	}
	return nil
}

func (r *FodderRepository) PoolExists(ctx context.Context, poolID uuid.UUID) (bool, error) {
	return r.store.FodderPoolExists(ctx, poolID)
}

func requirePool(ctx context.Context, s fodderStore, poolID uuid.UUID) error {
	ok, err := s.FodderPoolExists(ctx, poolID)
	if err != nil {
		return err
	}
	if !ok {
		return examerr.NotFound("fodder pool", poolID.String())
	}
	return nil
}

func insertItems(ctx context.Context, s fodderStore, poolID uuid.UUID, texts []string, actorID string) ([]fodder.Item, error) {
	items := make([]fodder.Item, 0, len(texts))
	for _, text := range texts {
		row, err := s.CreateFodderItem(ctx, queries.CreateFodderItemParams{
			ItemID:    uuid.New(),
			PoolID:    poolID,
			Text:      text,
			CreatedBy: actorID,
		})
		if err != nil {
			return nil, fmt.Errorf("insert item: %w", err)
		}
		items = append(items, itemFromRow(row))
	}
	return items, nil
}

func poolFromRow(row queries.FodderPool) fodder.Pool {
	return fodder.Pool{
		ID:          row.PoolID,
		Name:        row.Name,
		Description: textPtr(row.Description),
		CreatedBy:   row.CreatedBy,
		CreatedAt:   row.CreatedAt,
		Items:       []fodder.Item{},
	}
}

func itemFromRow(row queries.FodderItem) fodder.Item {
	return fodder.Item{
		ID:        row.ItemID,
		PoolID:    row.PoolID,
		Text:      row.Text,
		CreatedBy: row.CreatedBy,
		CreatedAt: row.CreatedAt,
	}
}
