// Package db carries the gorm transaction plumbing shared by the
// application use cases and the repositories.
package db

import (
	"context"

	"gorm.io/gorm"
)

// txContextKey keys the active transaction handle in the context.
type txContextKey struct{}

// TransactionManager wraps provisioning mutations that span several
// aggregates in one transaction: a user create moves the tenant's
// extension cursor and inserts the user row, a number assignment flips
// the number status and writes the assignment row. Either both land or
// neither does.
type TransactionManager struct {
	db *gorm.DB
}

func NewTransactionManager(db *gorm.DB) *TransactionManager {
	return &TransactionManager{db: db}
}

// RunInTransaction runs fn inside a transaction and hands it a context
// carrying the transaction handle. Repositories called with that context
// join the transaction; fn returning an error rolls everything back.
// When the context already carries a transaction, fn joins it instead of
// opening a nested one.
func (tm *TransactionManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txContextKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txContextKey{}, tx))
	})
}

// GetTxFromContext returns the transaction the context carries, or the
// given handle bound to ctx when no transaction is open. Repositories
// route every statement through this so they transparently join a
// surrounding use-case transaction.
func GetTxFromContext(ctx context.Context, defaultDB *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txContextKey{}).(*gorm.DB); ok {
		return tx
	}
	return defaultDB.WithContext(ctx)
}
