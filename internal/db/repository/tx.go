package repository

import (
	"context"

	"github.com/gokatarajesh/exam-engine/internal/db/queries"
)

// txRunner executes fn against a store bound to one transaction.
type txRunner[S any] func(ctx context.Context, fn func(S) error) error

func storeTx[S any](db *queries.Store, bind func(*queries.Queries) S) txRunner[S] {
	return func(ctx context.Context, fn func(S) error) error {
		return db.ExecTx(ctx, func(q *queries.Queries) error {
			return fn(bind(q))
		})
	}
}

// directTx runs fn on the store itself; used where no real transaction exists (tests).
func directTx[S any](store S) txRunner[S] {
	return func(ctx context.Context, fn func(S) error) error {
		return fn(store)
	}
}
