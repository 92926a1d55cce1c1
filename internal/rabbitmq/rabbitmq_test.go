package rabbitmq

import (
	"errors"
	"testing"
	"thursday/internal/core/domain/logging"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/require"
)

func newTestChannel() *Channel {
	return &Channel{done: make(chan struct{}), log: logging.NewFakeLogger()}
}

func TestRelayStopsWhenClosedWithoutReader(t *testing.T) {
	r := require.New(t)

	// Setup ---
	ch := newTestChannel()
	source := make(chan amqp.Delivery, 2)
	source <- amqp.Delivery{Body: []byte("first")}
	source <- amqp.Delivery{Body: []byte("second")}
	deliveries := make(chan amqp.Delivery)
	finished := make(chan struct{})

	// Exercise ---
	go func() {
		ch.relay("q", deliveries, func() (<-chan amqp.Delivery, error) { return source, nil })
		close(finished)
	}()
	first := <-deliveries
	ch.markClosed()

	// Verify ---
	r.Equal("first", string(first.Body))
	r.Eventually(func() bool {
		select {
		case <-finished:
			return true
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond)
	r.True(ch.IsClosed())
}

func TestRelayStopsOnConsumeErrorAfterClose(t *testing.T) {
	r := require.New(t)

	// Setup ---
	ch := newTestChannel()
	ch.markClosed()
	deliveries := make(chan amqp.Delivery)
	calls := 0

	// Exercise ---
	ch.relay("q", deliveries, func() (<-chan amqp.Delivery, error) {
		calls++
		return nil, errors.New("channel/connection is not open")
	})

	// Verify ---
	r.Equal(1, calls)
	_, ok := <-deliveries
	r.False(ok)
}

func TestWaitReturnsEarlyOnClose(t *testing.T) {
	r := require.New(t)
	ch := newTestChannel()
	ch.markClosed()
	ch.markClosed()

	started := time.Now()
	r.False(ch.wait(time.Minute))
	r.Less(time.Since(started), time.Second)
}
