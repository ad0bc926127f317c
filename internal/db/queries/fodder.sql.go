package queries

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const createFodderPool = `-- name: CreateFodderPool :one
INSERT INTO fodder_pools (pool_id, name, description, created_by)
VALUES ($1, $2, $3, $4)
RETURNING pool_id, name, description, created_by, created_at
`

type CreateFodderPoolParams struct {
	PoolID      uuid.UUID
	Name        string
	Description pgtype.Text
	CreatedBy   string
}

func (q *Queries) CreateFodderPool(ctx context.Context, arg CreateFodderPoolParams) (FodderPool, error) {
	row := q.db.QueryRow(ctx, createFodderPool, arg.PoolID, arg.Name, arg.Description, arg.CreatedBy)
	var i FodderPool
	err := row.Scan(&i.PoolID, &i.Name, &i.Description, &i.CreatedBy, &i.CreatedAt)
	return i, err
}

const getFodderPool = `-- name: GetFodderPool :one
SELECT pool_id, name, description, created_by, created_at
FROM fodder_pools
WHERE pool_id = $1
`

func (q *Queries) GetFodderPool(ctx context.Context, poolID uuid.UUID) (FodderPool, error) {
	row := q.db.QueryRow(ctx, getFodderPool, poolID)
	var i FodderPool
	err := row.Scan(&i.PoolID, &i.Name, &i.Description, &i.CreatedBy, &i.CreatedAt)
	return i, err
}

const listFodderPools = `-- name: ListFodderPools :many
SELECT p.pool_id, p.name, p.description, p.created_by, p.created_at, COUNT(i.item_id) AS item_count
FROM fodder_pools p
LEFT JOIN fodder_items i ON i.pool_id = p.pool_id
GROUP BY p.pool_id
ORDER BY p.created_at DESC
`

func (q *Queries) ListFodderPools(ctx context.Context) ([]FodderPoolSummary, error) {
	rows, err := q.db.Query(ctx, listFodderPools)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []FodderPoolSummary
	for rows.Next() {
		var i FodderPoolSummary
		if err := rows.Scan(&i.PoolID, &i.Name, &i.Description, &i.CreatedBy, &i.CreatedAt, &i.ItemCount); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const deleteFodderPool = `-- name: DeleteFodderPool :execrows
DELETE FROM fodder_pools WHERE pool_id = $1
`

func (q *Queries) DeleteFodderPool(ctx context.Context, poolID uuid.UUID) (int64, error) {
	tag, err := q.db.Exec(ctx, deleteFodderPool, poolID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const fodderPoolExists = `-- name: FodderPoolExists :one
SELECT EXISTS (SELECT 1 FROM fodder_pools WHERE pool_id = $1)
`

func (q *Queries) FodderPoolExists(ctx context.Context, poolID uuid.UUID) (bool, error) {
	row := q.db.QueryRow(ctx, fodderPoolExists, poolID)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}

const createFodderItem = `-- name: CreateFodderItem :one
INSERT INTO fodder_items (item_id, pool_id, text, created_by)
VALUES ($1, $2, $3, $4)
RETURNING item_id, pool_id, text, created_by, created_at
`

type CreateFodderItemParams struct {
	ItemID    uuid.UUID
	PoolID    uuid.UUID
	Text      string
	CreatedBy string
}

func (q *Queries) CreateFodderItem(ctx context.Context, arg CreateFodderItemParams) (FodderItem, error) {
	row := q.db.QueryRow(ctx, createFodderItem, arg.ItemID, arg.PoolID, arg.Text, arg.CreatedBy)
	var i FodderItem
	err := row.Scan(&i.ItemID, &i.PoolID, &i.Text, &i.CreatedBy, &i.CreatedAt)
	return i, err
}

const listFodderItems = `-- name: ListFodderItems :many
SELECT item_id, pool_id, text, created_by, created_at
FROM fodder_items
WHERE pool_id = $1
ORDER BY created_at, item_id
`

func (q *Queries) ListFodderItems(ctx context.Context, poolID uuid.UUID) ([]FodderItem, error) {
	rows, err := q.db.Query(ctx, listFodderItems, poolID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []FodderItem
	for rows.Next() {
		var i FodderItem
		if err := rows.Scan(&i.ItemID, &i.PoolID, &i.Text, &i.CreatedBy, &i.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const deleteFodderItems = `-- name: DeleteFodderItems :execrows
DELETE FROM fodder_items
WHERE pool_id = $1 AND item_id = ANY($2::uuid[])
`

type DeleteFodderItemsParams struct {
	PoolID  uuid.UUID
	ItemIDs []uuid.UUID
}

func (q *Queries) DeleteFodderItems(ctx context.Context, arg DeleteFodderItemsParams) (int64, error) {
	tag, err := q.db.Exec(ctx, deleteFodderItems, arg.PoolID, arg.ItemIDs)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
