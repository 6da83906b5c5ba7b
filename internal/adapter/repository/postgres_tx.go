package repository

import (
	"context"
	"fmt"

	"digest-orchestrator/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type txKey struct{}

// InjectTx stores the transaction in the context so repository calls
// made inside RunInTx share it.
func InjectTx(ctx context.Context, tx pgx.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// ExtractTx returns the transaction carried by the context, or nil.
func ExtractTx(ctx context.Context) pgx.Tx {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return nil
}

type postgresTransactionManager struct {
	pool *pgxpool.Pool
}

// NewPostgresTransactionManager creates a TransactionManager backed by
// the connection pool.
func NewPostgresTransactionManager(pool *pgxpool.Pool) domain.TransactionManager {
	return &postgresTransactionManager{pool: pool}
}

func (tm *postgresTransactionManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	tx, err := tm.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		} else if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(InjectTx(ctx, tx))
	return err
}
