package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"thursday/internal/core/domain/reminder"
	"time"
)

const DiscordChannelName = "discord"

type discordMessage struct {
	Content  string `json:"content"`
	Username string `json:"username"`
}

// Discord pushes messages to a webhook. Delivery is fire-and-forget: any
// 2xx response counts as success.
type Discord struct {
	httpClient http.Client
	webhookURL string
	username   string
}

func NewDiscord(webhookURL string, username string, timeout time.Duration) *Discord {
	return &Discord{
		httpClient: http.Client{Timeout: timeout},
		webhookURL: webhookURL,
		username:   username,
	}
}

func (d *Discord) Name() string {
	return DiscordChannelName
}

func (d *Discord) Send(ctx context.Context, text string) error {
	if d.webhookURL == "" {
		return notConfigured(DiscordChannelName)
	}

	var body bytes.Buffer
	encoder := json.NewEncoder(&body)
	err := encoder.Encode(discordMessage{Content: text, Username: d.username})
	if err != nil {
		return reminder.NewDeliveryError(DiscordChannelName, 0, err)
	}
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, d.webhookURL, &body)
	if err != nil {
		return reminder.NewDeliveryError(DiscordChannelName, 0, err)
	}
	request.Header.Add("content-type", "application/json")
	resp, err := d.httpClient.Do(request)
	if err != nil {
		return reminder.NewDeliveryError(DiscordChannelName, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return unexpectedStatus(DiscordChannelName, resp)
	}
	return nil
}
