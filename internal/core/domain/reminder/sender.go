package reminder

import (
	"context"
	"errors"
	"fmt"
)

// Channel is a single notification transport (webhook, messaging API...).
type Channel interface {
	Name() string
	Send(ctx context.Context, text string) error
}

// Notifier delivers notices over the configured channels. It never returns
// an error: the outcome is the boolean and a log line.
type Notifier interface {
	Notify(ctx context.Context, text string, route Route) bool
}

type Route struct {
	v string
}

func (r Route) String() string {
	return r.v
}

var ErrParseRoute = errors.New("invalid notification route")

func ParseRoute(value string) (Route, error) {
	switch value {
	case "", "default":
		return RouteDefault, nil
	case "primary_only":
		return RoutePrimaryOnly, nil
	case "secondary_only":
		return RouteSecondaryOnly, nil
	case "all":
		return RouteAll, nil
	default:
		return Route{}, ErrParseRoute
	}
}

var (
	// RouteDefault tries the primary channel and falls back to the
	// secondary one once.
	RouteDefault       = Route{v: "default"}
	RoutePrimaryOnly   = Route{v: "primary_only"}
	RouteSecondaryOnly = Route{v: "secondary_only"}
	// RouteAll sends to both channels independently.
	RouteAll = Route{v: "all"}
)

// DeliveryError is returned by channels when the transport was reached but
// the message was not accepted, or the transport itself failed.
type DeliveryError struct {
	Channel    string
	StatusCode int
	Err        error
}

func NewDeliveryError(channel string, statusCode int, err error) *DeliveryError {
	return &DeliveryError{Channel: channel, StatusCode: statusCode, Err: err}
}

func (e *DeliveryError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: delivery failed with status %d: %v", e.Channel, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: delivery failed: %v", e.Channel, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}
