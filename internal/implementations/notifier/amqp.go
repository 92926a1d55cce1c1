package notifier

import (
	"context"
	e "thursday/internal/core/domain/errors"
	"thursday/internal/core/domain/logging"
	"thursday/internal/core/domain/reminder"
	"thursday/internal/rabbitmq/schema"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

const AMQPChannelName = "amqp"

type amqpPublisher interface {
	PublishWithContext(
		ctx context.Context,
		exchange string,
		key string,
		mandatory bool,
		immediate bool,
		msg amqp091.Publishing,
	) error
}

// AMQP publishes notices to a queue through the default exchange so that
// downstream consumers (bots, bridges) can relay them.
type AMQP struct {
	log       logging.Logger
	publisher amqpPublisher
	queue     string
	now       func() time.Time
}

func NewAMQP(log logging.Logger, publisher amqpPublisher, queue string, now func() time.Time) *AMQP {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if publisher == nil {
		panic(e.NewNilArgumentError("publisher"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &AMQP{log: log, publisher: publisher, queue: queue, now: now}
}

func (a *AMQP) Name() string {
	return AMQPChannelName
}

func (a *AMQP) Send(ctx context.Context, text string) error {
	if a.queue == "" {
		return notConfigured(AMQPChannelName)
	}

	notification := schema.Notification{Text: text, SentAt: a.now()}
	body, err := notification.Marshal()
	if err != nil {
		return reminder.NewDeliveryError(AMQPChannelName, 0, err)
	}
	err = a.publisher.PublishWithContext(ctx, "", a.queue, false, false, amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		Body:         body,
	})
	if err != nil {
		return reminder.NewDeliveryError(AMQPChannelName, 0, err)
	}
	a.log.Debug(
		ctx,
		"AMQP message has been successfully published.",
		logging.Entry("queue", a.queue),
	)
	return nil
}
