package consumer

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"order-manager/internal/connections/rabbitmq"
	"order-manager/internal/domain"
	"order-manager/internal/orders/service"
)

var (
	// errRequeue tells the loop to nack with requeue: the batch may succeed
	// on redelivery.
	errRequeue = errors.New("requeue")
	// errDrop tells the loop to nack without requeue: the message can never
	// be processed, let the broker dead-letter it.
	errDrop = errors.New("dead_letter")
)

const consumerTag = "order-manager"

// Consumer drains the manager queue: every delivery is one status-change
// batch whose transaction outcome decides ack or nack.
type Consumer struct {
	client   *rabbitmq.Client
	svc      service.OrderServiceInterface
	queue    string
	prefetch int
	logger   *zap.Logger
}

func New(client *rabbitmq.Client, svc service.OrderServiceInterface, queue string, prefetch int, logger *zap.Logger) *Consumer {
	if prefetch <= 0 {
		prefetch = 1
	}
	return &Consumer{client: client, svc: svc, queue: queue, prefetch: prefetch, logger: logger}
}

// Run consumes until ctx is canceled, then stops accepting deliveries and
// drains the in-flight ones before returning.
func (c *Consumer) Run(ctx context.Context) error {
	ch, err := c.client.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	if _, err := ch.QueueDeclare(c.queue, true, false, false, false, nil); err != nil {
		return err
	}
	if err := ch.Qos(c.prefetch, 0, false); err != nil {
		return err
	}

	msgs, err := ch.Consume(c.queue, consumerTag, false, false, false, false, nil)
	if err != nil {
		return err
	}

	c.logger.Info("consuming status changes",
		zap.String("queue", c.queue),
		zap.Int("prefetch", c.prefetch))

	done := make(chan struct{})
	go func() {
		defer close(done)
		for d := range msgs {
			err := c.handle(ctx, d.Body)
			switch {
			case err == nil:
				_ = d.Ack(false)
			case errors.Is(err, errDrop):
				_ = d.Nack(false, false)
			default:
				_ = d.Nack(false, true)
			}
		}
	}()

	<-ctx.Done()
	_ = ch.Cancel(consumerTag, false) // stop new deliveries
	<-done                            // wait for in-flight ones
	return nil
}

func (c *Consumer) handle(ctx context.Context, body []byte) error {
	var env domain.Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		c.logger.Error("undecodable message", zap.Error(err))
		return errDrop
	}
	if env.Pattern != domain.EventOrderStatusChanged {
		c.logger.Warn("unexpected event pattern", zap.String("pattern", env.Pattern))
		return errDrop
	}

	var cmds []domain.StatusUpdateCommand
	if err := json.Unmarshal(env.Data, &cmds); err != nil {
		c.logger.Error("undecodable status-change payload", zap.Error(err))
		return errDrop
	}

	res, err := c.svc.HandleStatusChangeBatch(ctx, cmds)
	if err != nil {
		c.logger.Error("status batch failed, requeueing",
			zap.Int("commands", len(cmds)),
			zap.Error(err))
		return errRequeue
	}

	c.logger.Debug("status batch acknowledged",
		zap.Int("applied", res.Applied),
		zap.Int("unmatched", res.Unmatched))
	return nil
}
