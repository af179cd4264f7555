// Package pkg calls stored procedures through the engine installed with
// procmap.Configure.
package pkg

import (
	"context"

	"github.com/ignaciocaff/procmap/internal/core"
)

// Call executes entity's procedure on the configured engine.
func Call(ctx context.Context, entity any) (bool, error) {
	e, err := core.Default()
	if err != nil {
		return false, err
	}
	return e.Call(ctx, entity)
}

// Begin starts a manual transaction on the configured engine.
func Begin(ctx context.Context) error {
	return transaction(func(tx core.TransactionManager) error { return tx.Begin(ctx) })
}

// Commit persists the current manual transaction.
func Commit(ctx context.Context) error {
	return transaction(func(tx core.TransactionManager) error { return tx.Commit(ctx) })
}

// Rollback discards the current manual transaction.
func Rollback(ctx context.Context) error {
	return transaction(func(tx core.TransactionManager) error { return tx.Rollback(ctx) })
}

// End returns the configured engine to auto-commit.
func End(ctx context.Context) error {
	return transaction(func(tx core.TransactionManager) error { return tx.End(ctx) })
}

func transaction(op func(core.TransactionManager) error) error {
	e, err := core.Default()
	if err != nil {
		return err
	}
	return op(e.Transaction())
}
