package domain

import "context"

// TransactionManager executes a function within a database transaction
// so an article's chunk replacement commits or rolls back as one unit.
type TransactionManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
