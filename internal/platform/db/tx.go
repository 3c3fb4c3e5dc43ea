package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type contextKey string

// DBTxKey carries an open transaction through a request context. Repositories
// route their statements through it when present, so an existence check and
// the mutation that follows it observe one snapshot.
const DBTxKey contextKey = "db_tx"

// TxFromContext retrieves the transaction bound to the context, or nil.
func TxFromContext(ctx context.Context) pgx.Tx {
	tx, _ := ctx.Value(DBTxKey).(pgx.Tx)
	return tx
}

// Transactor runs a workflow atomically. Services depend on this rather than
// on the pool so tests can substitute a pass-through.
type Transactor interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// PoolTransactor is the production Transactor backed by a pgx pool.
type PoolTransactor struct {
	Pool *pgxpool.Pool
}

func (t *PoolTransactor) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return WithTx(ctx, t.Pool, fn)
}

// WithTx runs fn inside a transaction bound to the context it passes down.
// The transaction commits when fn returns nil and rolls back otherwise,
// including on typed domain failures raised mid-workflow.
func WithTx(ctx context.Context, pool *pgxpool.Pool, fn func(ctx context.Context) error) error {
	if tx := TxFromContext(ctx); tx != nil {
		// Already inside a transaction; join it.
		return fn(ctx)
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(context.WithValue(ctx, DBTxKey, tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
