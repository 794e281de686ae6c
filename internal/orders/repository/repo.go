package repository

import (
	"context"

	"order-manager/internal/domain"
)

// OrderRepositoryInterface is the Order Store contract the coordinator
// depends on.
type OrderRepositoryInterface interface {
	// InsertBatch persists all inputs or none, assigning identifiers and
	// creation timestamps.
	InsertBatch(ctx context.Context, inputs []domain.OrderInput) ([]domain.Order, error)
	// List returns one page ordered by creation time descending plus the
	// total match count before pagination. page and limit are 1-indexed
	// positive values, validated upstream.
	List(ctx context.Context, statusID *int, page, limit int) ([]domain.Order, int, error)
	GetByID(ctx context.Context, id string) (domain.Order, bool, error)
	// Begin opens the transaction used by the status-reconciliation flow.
	Begin(ctx context.Context) (StatusTx, error)
}

// StatusTx applies status-update commands inside one database transaction.
// Rollback after a successful Commit is a no-op, so callers can defer it
// unconditionally.
type StatusTx interface {
	// UpdateStatus sets the status of one order and, when recipeName is
	// non-nil, its recipe. Returns the number of rows affected; zero means
	// the identifier matched nothing.
	UpdateStatus(ctx context.Context, id string, statusID int, recipeName *string) (int64, error)
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}
