package notifier

import (
	"context"
	"errors"
	e "thursday/internal/core/domain/errors"
	"thursday/internal/core/domain/logging"
	"thursday/internal/core/domain/reminder"
)

// Dispatcher routes notices to a primary and a secondary channel.
type Dispatcher struct {
	log       logging.Logger
	primary   reminder.Channel
	secondary reminder.Channel
	metrics   reminder.Metrics
}

func New(
	log logging.Logger,
	primary reminder.Channel,
	secondary reminder.Channel,
	metrics reminder.Metrics,
) *Dispatcher {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if primary == nil {
		panic(e.NewNilArgumentError("primary"))
	}
	if secondary == nil {
		panic(e.NewNilArgumentError("secondary"))
	}
	if metrics == nil {
		panic(e.NewNilArgumentError("metrics"))
	}
	return &Dispatcher{log: log, primary: primary, secondary: secondary, metrics: metrics}
}

func (d *Dispatcher) Notify(ctx context.Context, text string, route reminder.Route) bool {
	switch route {
	case reminder.RoutePrimaryOnly:
		return d.send(ctx, d.primary, text) == nil
	case reminder.RouteSecondaryOnly:
		return d.send(ctx, d.secondary, text) == nil
	case reminder.RouteAll:
		primaryErr := d.send(ctx, d.primary, text)
		secondaryErr := d.send(ctx, d.secondary, text)
		return primaryErr == nil || secondaryErr == nil
	default:
		err := d.send(ctx, d.primary, text)
		if err == nil {
			return true
		}
		if errors.Is(err, context.Canceled) || ctx.Err() != nil {
			return false
		}
		d.log.Warning(
			ctx,
			"Primary channel failed, falling back to secondary.",
			logging.Entry("primary", d.primary.Name()),
			logging.Entry("secondary", d.secondary.Name()),
		)
		return d.send(ctx, d.secondary, text) == nil
	}
}

func (d *Dispatcher) send(ctx context.Context, channel reminder.Channel, text string) error {
	err := channel.Send(ctx, text)
	d.metrics.NotificationSent(channel.Name(), err)

	var deliveryErr *reminder.DeliveryError
	switch {
	case err == nil:
		d.log.Info(ctx, "Notification has been sent.", logging.Entry("channel", channel.Name()))
	case errors.Is(err, reminder.ErrChannelNotConfigured):
		d.log.Warning(ctx, "Notification channel is not configured.", logging.Entry("channel", channel.Name()))
	case errors.As(err, &deliveryErr):
		d.log.Error(
			ctx,
			"Could not deliver notification.",
			logging.Entry("channel", deliveryErr.Channel),
			logging.Entry("statusCode", deliveryErr.StatusCode),
			logging.Entry("err", deliveryErr.Err),
		)
	default:
		logging.Error(ctx, d.log, err, logging.Entry("channel", channel.Name()))
	}
	return err
}

// Unconfigured stands in for a channel that has no credentials.
type Unconfigured struct {
	name string
}

func NewUnconfigured(name string) *Unconfigured {
	return &Unconfigured{name: name}
}

func (c *Unconfigured) Name() string {
	return c.name
}

func (c *Unconfigured) Send(ctx context.Context, text string) error {
	return notConfigured(c.name)
}
