package service

import (
	"context"

	"order-manager/internal/domain"
)

// Publisher is the outbound messaging leg. The connections/rabbitmq client
// satisfies it.
type Publisher interface {
	Publish(ctx context.Context, queue string, body []byte) error
}

type OrderServiceInterface interface {
	CreateBulkOrders(ctx context.Context, inputs []domain.OrderInput) (CreateBulkResult, error)
	ListOrders(ctx context.Context, statusID *int, page, limit int) (OrderPage, error)
	GetOrderByID(ctx context.Context, id string) (domain.Order, bool, error)
	HandleStatusChangeBatch(ctx context.Context, cmds []domain.StatusUpdateCommand) (BatchResult, error)
}

type CreateBulkResult struct {
	Message string         `json:"message"`
	Orders  []domain.Order `json:"orders"`
}

type OrderPage struct {
	Data       []domain.Order `json:"data"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"totalPages"`
	TotalItems int            `json:"totalItems"`
}

// BatchResult reports how a status-change batch landed. Unmatched counts
// commands whose identifier hit no row; those are tolerated, not errors.
type BatchResult struct {
	Applied   int
	Unmatched int
}
