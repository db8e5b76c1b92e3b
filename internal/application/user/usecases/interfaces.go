package usecases

import "context"

// TransactionManager runs a function inside a database transaction. The
// repositories pick the transaction up from the context.
type TransactionManager interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
