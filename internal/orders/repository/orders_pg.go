package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"order-manager/internal/domain"
)

type OrderRepository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

func (r *OrderRepository) InsertBatch(ctx context.Context, inputs []domain.OrderInput) ([]domain.Order, error) {
	if len(inputs) == 0 {
		return []domain.Order{}, nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin insert transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	saved := make([]domain.Order, 0, len(inputs))
	for _, in := range inputs {
		order := domain.Order{
			ID:         uuid.NewString(),
			Name:       in.Name,
			RecipeName: in.RecipeName,
			StatusID:   domain.StatusReceived,
		}
		err := tx.QueryRow(ctx, `
			INSERT INTO orders (id, name, recipe_name, status_id, created_at)
			VALUES ($1, $2, $3, $4, now())
			RETURNING created_at
		`, order.ID, order.Name, order.RecipeName, order.StatusID).Scan(&order.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("insert order %q: %w", in.Name, err)
		}
		saved = append(saved, order)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit insert transaction: %w", err)
	}
	return saved, nil
}

func (r *OrderRepository) List(ctx context.Context, statusID *int, page, limit int) ([]domain.Order, int, error) {
	where := ""
	args := []any{}
	if statusID != nil {
		where = "WHERE status_id = $1"
		args = append(args, *statusID)
	}

	var total int
	if err := r.pool.QueryRow(ctx,
		fmt.Sprintf("SELECT COUNT(*) FROM orders %s", where), args...,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	offset := (page - 1) * limit
	query := fmt.Sprintf(`
		SELECT id, name, recipe_name, status_id, created_at
		FROM orders %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	out := []domain.Order{}
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.Name, &o.RecipeName, &o.StatusID, &o.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan order: %w", err)
		}
		out = append(out, o)
	}
	return out, total, rows.Err()
}

func (r *OrderRepository) GetByID(ctx context.Context, id string) (domain.Order, bool, error) {
	var o domain.Order
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, recipe_name, status_id, created_at
		FROM orders WHERE id = $1
	`, id).Scan(&o.ID, &o.Name, &o.RecipeName, &o.StatusID, &o.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Order{}, false, nil
	}
	if err != nil {
		return domain.Order{}, false, fmt.Errorf("get order %s: %w", id, err)
	}
	return o, true, nil
}

func (r *OrderRepository) Begin(ctx context.Context) (StatusTx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin status transaction: %w", err)
	}
	return &statusTx{tx: tx}, nil
}

type statusTx struct {
	tx pgx.Tx
}

func (t *statusTx) UpdateStatus(ctx context.Context, id string, statusID int, recipeName *string) (int64, error) {
	var (
		tag pgconn.CommandTag
		err error
	)
	if recipeName != nil {
		tag, err = t.tx.Exec(ctx, `
			UPDATE orders SET status_id = $2, recipe_name = $3 WHERE id = $1
		`, id, statusID, *recipeName)
	} else {
		tag, err = t.tx.Exec(ctx, `
			UPDATE orders SET status_id = $2 WHERE id = $1
		`, id, statusID)
	}
	if err != nil {
		return 0, fmt.Errorf("update order %s: %w", id, err)
	}
	return tag.RowsAffected(), nil
}

func (t *statusTx) Commit(ctx context.Context) error   { return t.tx.Commit(ctx) }
func (t *statusTx) Rollback(ctx context.Context) error { return t.tx.Rollback(ctx) }
