package queries

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store couples the pool-bound queries with transaction support.
type Store struct {
	*Queries
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{Queries: New(pool), pool: pool}
}

// ExecTx runs fn inside a single transaction. Any error rolls everything back.
func (s *Store) ExecTx(ctx context.Context, fn func(*Queries) error) error {
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		return fn(s.WithTx(tx))
	})
	if err != nil {
		return fmt.Errorf("tx: %w", err)
	}
	return nil
}
