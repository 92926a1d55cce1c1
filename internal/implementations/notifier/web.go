package notifier

import (
	"context"
	"encoding/json"
	e "thursday/internal/core/domain/errors"
	"thursday/internal/core/domain/reminder"
	"time"

	"github.com/r3labs/sse/v2"
)

const (
	WebChannelName = "web"
	// RemindersStream is the SSE stream the web UI subscribes to.
	RemindersStream = "reminders"
)

type webEvent struct {
	Type   string    `json:"type"`
	Text   string    `json:"text"`
	SentAt time.Time `json:"sentAt"`
}

// Web publishes notices as server-sent events for connected browsers.
type Web struct {
	sseServer *sse.Server
	now       func() time.Time
}

func NewWeb(sseServer *sse.Server, now func() time.Time) *Web {
	if sseServer == nil {
		panic(e.NewNilArgumentError("sseServer"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	if !sseServer.StreamExists(RemindersStream) {
		sseServer.CreateStream(RemindersStream)
	}
	return &Web{sseServer: sseServer, now: now}
}

func (w *Web) Name() string {
	return WebChannelName
}

func (w *Web) Send(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return reminder.NewDeliveryError(WebChannelName, 0, err)
	}
	data, err := json.Marshal(webEvent{Type: "reminder", Text: text, SentAt: w.now()})
	if err != nil {
		return reminder.NewDeliveryError(WebChannelName, 0, err)
	}
	w.sseServer.Publish(RemindersStream, &sse.Event{Data: data})
	return nil
}
