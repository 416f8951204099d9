package postgresql

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type txKey struct{}

func txFromContext(ctx context.Context) (pgx.Tx, bool) {
	tx, ok := ctx.Value(txKey{}).(pgx.Tx)
	return tx, ok
}

// WithTransaction executes fn inside a database transaction. Repositories
// called with txCtx join it. A nested call reuses the outer transaction.
func WithTransaction(ctx context.Context, db *database.DB, fn func(txCtx context.Context) error) error {
	if _, ok := txFromContext(ctx); ok {
		return fn(ctx)
	}

	var tx pgx.Tx
	err := db.Retry.Do(ctx, func(ctx context.Context) error {
		var err error
		tx, err = db.BeginTx(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				slog.ErrorContext(ctx, "rollback error during panic recovery", "error", rbErr)
			}
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("rollback error: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// Transactor lets services open a unit of work without holding the pool.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(txCtx context.Context) error) error
}

type transactor struct {
	db *database.DB
}

func NewTransactor(db *database.DB) Transactor {
	return &transactor{db: db}
}

func (t *transactor) WithTransaction(ctx context.Context, fn func(txCtx context.Context) error) error {
	return WithTransaction(ctx, t.db, fn)
}

// GetQuerier returns either transaction or pool
func GetQuerier(ctx context.Context, db *database.DB) database.Querier {
	if tx, ok := txFromContext(ctx); ok {
		return tx
	}
	return db.Pool
}

// run executes fn with the retry policy. Inside a transaction fn runs once:
// a lost connection has already aborted the transaction.
func run(ctx context.Context, db *database.DB, fn func(q database.Querier) error) error {
	if tx, ok := txFromContext(ctx); ok {
		return fn(tx)
	}
	return db.Retry.Do(ctx, func(ctx context.Context) error {
		return fn(db.Pool)
	})
}
