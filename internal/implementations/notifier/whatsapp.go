package notifier

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"thursday/internal/core/domain/reminder"
	"time"
)

const (
	WhatsAppChannelName = "whatsapp"
	// Twilio rejects WhatsApp bodies above ~1600 characters.
	whatsAppPartLimit = 1500
)

type TwilioSettings struct {
	AccountSID string
	AuthToken  string
	From       string
	To         string
}

func (s TwilioSettings) configured() bool {
	return s.AccountSID != "" && s.AuthToken != "" && s.From != "" && s.To != ""
}

// WhatsApp sends messages through the Twilio Messages API. Long texts are
// sent as ordered, numbered parts.
type WhatsApp struct {
	httpClient http.Client
	baseURL    url.URL
	settings   TwilioSettings
	partDelay  time.Duration
}

func NewWhatsApp(
	baseURL url.URL,
	settings TwilioSettings,
	partDelay time.Duration,
	timeout time.Duration,
) *WhatsApp {
	return &WhatsApp{
		httpClient: http.Client{Timeout: timeout},
		baseURL:    baseURL,
		settings:   settings,
		partDelay:  partDelay,
	}
}

func (w *WhatsApp) Name() string {
	return WhatsAppChannelName
}

// Send succeeds only if every part has been accepted.
func (w *WhatsApp) Send(ctx context.Context, text string) error {
	if !w.settings.configured() {
		return notConfigured(WhatsAppChannelName)
	}

	parts := labelParts(splitMessage(text, whatsAppPartLimit))
	var errs []error
	for ix, part := range parts {
		if err := w.sendPart(ctx, part); err != nil {
			errs = append(errs, fmt.Errorf("part %d/%d: %w", ix+1, len(parts), err))
		}
		if ix < len(parts)-1 {
			if err := sleep(ctx, w.partDelay); err != nil {
				return reminder.NewDeliveryError(WhatsAppChannelName, 0, err)
			}
		}
	}
	if len(errs) > 0 {
		return reminder.NewDeliveryError(WhatsAppChannelName, statusCodeOf(errs[0]), errors.Join(errs...))
	}
	return nil
}

func (w *WhatsApp) sendPart(ctx context.Context, body string) error {
	endpoint := w.baseURL.JoinPath("2010-04-01", "Accounts", w.settings.AccountSID, "Messages.json")
	form := url.Values{}
	form.Set("From", "whatsapp:"+w.settings.From)
	form.Set("To", "whatsapp:"+w.settings.To)
	form.Set("Body", body)

	request, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		endpoint.String(),
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return err
	}
	request.Header.Add("content-type", "application/x-www-form-urlencoded")
	request.SetBasicAuth(w.settings.AccountSID, w.settings.AuthToken)
	resp, err := w.httpClient.Do(request)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return unexpectedStatus(WhatsAppChannelName, resp)
	}
	return nil
}

func statusCodeOf(err error) int {
	var deliveryErr *reminder.DeliveryError
	if errors.As(err, &deliveryErr) {
		return deliveryErr.StatusCode
	}
	return 0
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
