package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/RichardKnop/casedocs"
)

type contextKey string

func transactionKey() contextKey {
	return contextKey("tx")
}

// Transactional executes fn within a database transaction, reusing one already
// stored in ctx. Failing to start a transaction means the database cannot be
// reached and is reported as casedocs.ErrUnavailable.
func (a *Adapter) Transactional(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error) (finalErr error) {
	// TODO - check for options being compatible with existing transaction (isolation level, etc.)
	if _, ok := ctx.Value(transactionKey()).(*sql.Tx); ok {
		return fn(ctx)
	}

	tx, err := a.db.BeginTx(ctx, opts)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("begin transaction: %w", ctxErr)
		}
		return fmt.Errorf("%w: begin transaction: %v", casedocs.ErrUnavailable, err)
	}
	defer func() {
		err := tx.Rollback()
		if err != nil && !errors.Is(err, sql.ErrTxDone) {
			finalErr = errors.Join(fmt.Errorf("rollback: %w", err), finalErr)
		}
	}()

	if err := fn(context.WithValue(ctx, transactionKey(), tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

// inTxDo runs fn with the transaction from ctx, starting one when there is none.
func (a *Adapter) inTxDo(ctx context.Context, fn func(ctx context.Context, tx *sql.Tx) error) error {
	if tx, ok := ctx.Value(transactionKey()).(*sql.Tx); ok {
		return fn(ctx, tx)
	}

	return a.Transactional(ctx, &sql.TxOptions{}, func(ctx context.Context) error {
		return fn(ctx, ctx.Value(transactionKey()).(*sql.Tx))
	})
}
