package rabbitmq

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	e "thursday/internal/core/domain/errors"
	"thursday/internal/core/domain/logging"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	delay          = 3 // reconnect after delay seconds
	heartbeat      = 10 * time.Second
	connectionName = "thursday"
)

// Connection wraps amqp.Connection and redials it when the broker drops it.
type Connection struct {
	*amqp.Connection
	log logging.Logger
}

// Channel opens a channel that is recreated whenever it is closed by the
// broker.
func (c *Connection) Channel() (*Channel, error) {
	ch, err := c.Connection.Channel()
	if err != nil {
		return nil, err
	}

	channel := &Channel{
		Channel: ch,
		done:    make(chan struct{}),
		log:     c.log,
	}

	go func() {
		for {
			reason, ok := <-channel.Channel.NotifyClose(make(chan *amqp.Error))
			// closed on purpose
			if !ok || channel.IsClosed() {
				channel.Close() // close again, ensure closed flag set when connection closed
				break
			}

			c.log.Warning(context.Background(), "RabbitMQ channel closed.", logging.Entry("reason", *reason))
			for {
				time.Sleep(delay * time.Second)

				ch, err := c.Connection.Channel()
				if err == nil {
					c.log.Info(context.Background(), "Channel recreate success.")
					channel.Channel = ch
					break
				}

				c.log.Error(context.Background(), "Channel recreate failed.", logging.Entry("err", err))
			}
		}

	}()

	return channel, nil
}

func Dial(url string, log logging.Logger) (*Connection, error) {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	conn, err := dial(url)
	if err != nil {
		return nil, fmt.Errorf("could not dial RabbitMQ: %w", err)
	}

	connection := &Connection{
		Connection: conn,
		log:        log,
	}

	go func() {
		for {
			reason, ok := <-connection.Connection.NotifyClose(make(chan *amqp.Error))
			if !ok {
				log.Info(context.Background(), "RabbitMQ connection closed.")
				break
			}

			log.Warning(context.Background(), "RabbitMQ connection closed.", logging.Entry("reason", *reason))
			for {
				time.Sleep(delay * time.Second)

				conn, err := dial(url)
				if err == nil {
					connection.Connection = conn
					log.Info(context.Background(), "RabbitMQ reconnect success.")
					break
				}
				log.Error(context.Background(), "RabbitMQ reconnect failed.", logging.Entry("err", err))
			}
		}
	}()

	return connection, nil
}

func dial(url string) (*amqp.Connection, error) {
	return amqp.DialConfig(url, amqp.Config{
		Heartbeat:  heartbeat,
		Properties: amqp.Table{"connection_name": connectionName},
	})
}

type Channel struct {
	*amqp.Channel
	closed    int32
	done      chan struct{}
	closeDone sync.Once
	log       logging.Logger
}

// DeclareQueue declares a durable queue. Publishing to the default exchange
// with the queue name as routing key delivers to it.
func (ch *Channel) DeclareQueue(name string) error {
	if name == "" {
		return fmt.Errorf("queue name must not be empty")
	}
	_, err := ch.Channel.QueueDeclare(name, true, false, false, false, nil)
	return err
}

// IsClosed reports whether Close was called.
func (ch *Channel) IsClosed() bool {
	return (atomic.LoadInt32(&ch.closed) == 1)
}

func (ch *Channel) Close() error {
	if ch.IsClosed() {
		return amqp.ErrClosed
	}

	ch.markClosed()

	return ch.Channel.Close()
}

func (ch *Channel) markClosed() {
	atomic.StoreInt32(&ch.closed, 1)
	ch.closeDone.Do(func() { close(ch.done) })
}

// Consume keeps consuming across channel recreation. The deliveries end only
// after Close.
func (ch *Channel) Consume(
	queue, consumer string,
	autoAck, exclusive, noLocal, noWait bool,
	args amqp.Table,
) (<-chan amqp.Delivery, error) {
	deliveries := make(chan amqp.Delivery)

	go ch.relay(queue, deliveries, func() (<-chan amqp.Delivery, error) {
		return ch.Channel.Consume(queue, consumer, autoAck, exclusive, noLocal, noWait, args)
	})

	return deliveries, nil
}

func (ch *Channel) relay(
	queue string,
	deliveries chan<- amqp.Delivery,
	consume func() (<-chan amqp.Delivery, error),
) {
	defer close(deliveries)
	defer ch.log.Info(context.Background(), "Channel is closed, stop consuming.", logging.Entry("queue", queue))

	for {
		d, err := consume()
		if err != nil {
			if ch.IsClosed() {
				return
			}
			ch.log.Error(context.Background(), "Consume failed.", logging.Entry("err", err))
			if !ch.wait(delay * time.Second) {
				return
			}
			continue
		}

		for msg := range d {
			select {
			case deliveries <- msg:
			case <-ch.done:
				return
			}
		}

		// the closed flag may be set only after the deliveries end
		if !ch.wait(delay * time.Second) {
			return
		}
	}
}

// wait sleeps for d and reports whether the channel is still open.
func (ch *Channel) wait(d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return !ch.IsClosed()
	case <-ch.done:
		return false
	}
}
