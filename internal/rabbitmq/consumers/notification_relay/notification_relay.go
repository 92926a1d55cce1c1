package notificationrelay

import (
	"context"
	e "thursday/internal/core/domain/errors"
	"thursday/internal/core/domain/logging"
	"thursday/internal/rabbitmq/schema"

	"github.com/rabbitmq/amqp091-go"
)

// Source is satisfied by *rabbitmq.Channel.
type Source interface {
	Consume(
		queue, consumer string,
		autoAck, exclusive, noLocal, noWait bool,
		args amqp091.Table,
	) (<-chan amqp091.Delivery, error)
}

// Handle receives every notification decoded from the queue.
type Handle func(ctx context.Context, notification schema.Notification) error

// Consumer relays reminder notifications published by the amqp channel to a
// local handler.
type Consumer struct {
	log    logging.Logger
	source Source
	queue  string
	handle Handle
}

func New(
	log logging.Logger,
	source Source,
	queue string,
	handle Handle,
) *Consumer {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if source == nil {
		panic(e.NewNilArgumentError("source"))
	}
	if queue == "" {
		panic(e.NewInvalidArgumentError("queue", "must not be empty"))
	}
	if handle == nil {
		panic(e.NewNilArgumentError("handle"))
	}

	return &Consumer{log: log, source: source, queue: queue, handle: handle}
}

// Consume blocks until ctx is done or the source stops delivering.
func (c *Consumer) Consume(ctx context.Context) error {
	deliveries, err := c.source.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		c.log.Error(ctx, "Could not start consuming.", logging.Entry("queue", c.queue), logging.Entry("err", err))
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case delivery, ok := <-deliveries:
			if !ok {
				return nil
			}
			c.relay(ctx, delivery)
		}
	}
}

func (c *Consumer) relay(ctx context.Context, delivery amqp091.Delivery) {
	notification := schema.Notification{}
	if err := notification.Unmarshal(delivery.Body); err != nil {
		c.log.Error(
			ctx,
			"Could not unmarshal notification.",
			logging.Entry("err", err),
			logging.Entry("body", string(delivery.Body)),
		)
		c.ack(ctx, delivery)
		return
	}

	if err := c.handle(ctx, notification); err != nil {
		c.log.Error(
			ctx,
			"Could not relay notification, handler returned an error.",
			logging.Entry("notification", notification),
			logging.Entry("err", err),
		)
		c.nack(ctx, delivery)
		return
	}
	c.ack(ctx, delivery)
}

func (c *Consumer) ack(ctx context.Context, delivery amqp091.Delivery) {
	if err := delivery.Ack(false); err != nil {
		c.log.Error(ctx, "Could not ACK AMQP message.", logging.Entry("err", err))
	}
}

func (c *Consumer) nack(ctx context.Context, delivery amqp091.Delivery) {
	if err := delivery.Nack(false, true); err != nil {
		c.log.Error(ctx, "Could not NACK AMQP message.", logging.Entry("err", err))
	}
}
