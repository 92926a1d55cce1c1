package notifier

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"thursday/internal/core/domain/reminder"
	"time"

	"github.com/r3labs/sse/v2"
	"github.com/stretchr/testify/require"
)

func TestWebPublishesEvent(t *testing.T) {
	// Setup ---
	r := require.New(t)
	now := time.Date(2024, 3, 10, 10, 0, 0, 0, time.UTC)
	sseServer := sse.New()
	sseServer.AutoReplay = true
	defer sseServer.Close()
	web := NewWeb(sseServer, func() time.Time { return now })
	r.True(sseServer.StreamExists(RemindersStream))

	// Exercise ---
	err := web.Send(context.Background(), "🔔 Time's up!\n📝 stretch")
	r.Nil(err)

	// Verify ---
	httpServer := httptest.NewServer(sseServer)
	defer httpServer.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, httpServer.URL+"?stream="+RemindersStream, nil)
	r.Nil(err)
	resp, err := http.DefaultClient.Do(request)
	r.Nil(err)
	defer resp.Body.Close()

	scanner := bufio.NewScanner(resp.Body)
	var data string
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "data: ") {
			data = strings.TrimPrefix(line, "data: ")
			break
		}
	}
	cancel()

	var event webEvent
	r.Nil(json.Unmarshal([]byte(data), &event))
	r.Equal("reminder", event.Type)
	r.Equal("🔔 Time's up!\n📝 stretch", event.Text)
	r.True(now.Equal(event.SentAt))
}

func TestWebSendOnCancelledContext(t *testing.T) {
	sseServer := sse.New()
	defer sseServer.Close()
	web := NewWeb(sseServer, time.Now)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := web.Send(ctx, "hi")

	require.ErrorIs(t, err, context.Canceled)
	var deliveryErr *reminder.DeliveryError
	require.ErrorAs(t, err, &deliveryErr)
}
