package consumers

import (
	"context"
	"errors"
	"thursday/internal/app/deps"
	dl "thursday/internal/core/domain/logging"
	notificationrelay "thursday/internal/rabbitmq/consumers/notification_relay"
)

var ErrRabbitmqDisabled = errors.New("RabbitMQ is not configured, set RABBITMQ_URL")

// InitNotificationRelay opens a dedicated channel for relaying the
// notification queue to handle. The returned func closes the channel.
func InitNotificationRelay(
	deps *deps.Deps,
	handle notificationrelay.Handle,
) (*notificationrelay.Consumer, func(), error) {
	if deps.Rabbitmq == nil {
		return nil, nil, ErrRabbitmqDisabled
	}
	rabbitmqChannel, err := deps.Rabbitmq.Channel()
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not create RabbitMQ channel.", dl.Entry("err", err))
		return nil, nil, err
	}

	queue := deps.Config.RabbitmqNotificationQueue
	consumer := notificationrelay.New(deps.Logger, rabbitmqChannel, queue, handle)
	deps.Logger.Info(context.Background(), "Notification relay is ready.", dl.Entry("queue", queue))
	return consumer, func() { rabbitmqChannel.Close() }, nil
}
