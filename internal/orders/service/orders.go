package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"order-manager/internal/domain"
	"order-manager/internal/metrics"
	"order-manager/internal/orders/repository"
)

type OrderService struct {
	repo         repository.OrderRepositoryInterface
	pub          Publisher
	kitchenQueue string
	metrics      *metrics.Metrics
	logger       *zap.Logger
}

func NewOrderService(
	repo repository.OrderRepositoryInterface,
	pub Publisher,
	kitchenQueue string,
	m *metrics.Metrics,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		repo:         repo,
		pub:          pub,
		kitchenQueue: kitchenQueue,
		metrics:      m,
		logger:       logger,
	}
}

// CreateBulkOrders persists the whole batch in one store call, then announces
// it to the kitchen with a single order_dispatched event. The publish leg is
// fire-and-forget: a failure there is logged but the rows stay and the caller
// still gets a success.
func (s *OrderService) CreateBulkOrders(ctx context.Context, inputs []domain.OrderInput) (CreateBulkResult, error) {
	if len(inputs) == 0 {
		return CreateBulkResult{Message: "Order dispatched successfully", Orders: []domain.Order{}}, nil
	}

	saved, err := s.repo.InsertBatch(ctx, inputs)
	if err != nil {
		s.logger.Error("failed to persist order batch",
			zap.Int("count", len(inputs)),
			zap.Error(err))
		return CreateBulkResult{}, fmt.Errorf("insert order batch: %w", err)
	}
	s.metrics.OrdersCreated(len(saved))

	body, err := domain.NewEnvelope(domain.EventOrderDispatched, saved)
	if err != nil {
		s.logger.Error("failed to encode dispatch event", zap.Error(err))
	} else if err := s.pub.Publish(ctx, s.kitchenQueue, body); err != nil {
		s.logger.Error("failed to publish dispatch event",
			zap.String("queue", s.kitchenQueue),
			zap.Int("orders", len(saved)),
			zap.Error(err))
	} else {
		s.metrics.DispatchEventPublished()
		s.logger.Info("orders dispatched",
			zap.String("queue", s.kitchenQueue),
			zap.Int("orders", len(saved)))
	}

	return CreateBulkResult{Message: "Order dispatched successfully", Orders: saved}, nil
}

func (s *OrderService) ListOrders(ctx context.Context, statusID *int, page, limit int) (OrderPage, error) {
	data, total, err := s.repo.List(ctx, statusID, page, limit)
	if err != nil {
		s.logger.Error("failed to list orders", zap.Error(err))
		return OrderPage{}, fmt.Errorf("list orders: %w", err)
	}

	return OrderPage{
		Data:       data,
		Page:       page,
		Limit:      limit,
		TotalPages: (total + limit - 1) / limit,
		TotalItems: total,
	}, nil
}

func (s *OrderService) GetOrderByID(ctx context.Context, id string) (domain.Order, bool, error) {
	order, found, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to get order", zap.String("order_id", id), zap.Error(err))
		return domain.Order{}, false, fmt.Errorf("get order: %w", err)
	}
	return order, found, nil
}

// HandleStatusChangeBatch applies every command of one inbound message inside
// a single transaction, in arrival order. Any failure aborts the whole batch;
// the caller converts the returned error into a negative acknowledgment so the
// broker redelivers. Commands that match no row are counted, not failed.
func (s *OrderService) HandleStatusChangeBatch(ctx context.Context, cmds []domain.StatusUpdateCommand) (BatchResult, error) {
	tx, err := s.repo.Begin(ctx)
	if err != nil {
		s.metrics.StatusBatchFailed()
		return BatchResult{}, fmt.Errorf("begin status transaction: %w", err)
	}
	// Releases the transaction on every exit path; no-op once committed.
	defer func() { _ = tx.Rollback(ctx) }()

	var res BatchResult
	for _, cmd := range cmds {
		affected, err := tx.UpdateStatus(ctx, cmd.ID, cmd.StatusID, cmd.RecipeName)
		if err != nil {
			s.metrics.StatusBatchFailed()
			return BatchResult{}, fmt.Errorf("apply status update for %s: %w", cmd.ID, err)
		}
		if affected == 0 {
			res.Unmatched++
			s.logger.Warn("status update matched no order",
				zap.String("order_id", cmd.ID),
				zap.Int("status_id", cmd.StatusID))
			continue
		}
		res.Applied++
	}

	if err := tx.Commit(ctx); err != nil {
		s.metrics.StatusBatchFailed()
		return BatchResult{}, fmt.Errorf("commit status transaction: %w", err)
	}

	s.metrics.StatusBatchCommitted()
	s.metrics.UnmatchedCommands(res.Unmatched)
	s.logger.Info("status batch committed",
		zap.Int("commands", len(cmds)),
		zap.Int("applied", res.Applied),
		zap.Int("unmatched", res.Unmatched))
	return res, nil
}
