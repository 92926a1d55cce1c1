package notifier

import (
	"fmt"
	"io"
	"net/http"
	"thursday/internal/core/domain/reminder"
)

const maxErrorBodyLen = 200

func notConfigured(channel string) error {
	return fmt.Errorf("%s: %w", channel, reminder.ErrChannelNotConfigured)
}

func unexpectedStatus(channel string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyLen))
	return reminder.NewDeliveryError(
		channel,
		resp.StatusCode,
		fmt.Errorf("unexpected response: %s", string(body)),
	)
}
