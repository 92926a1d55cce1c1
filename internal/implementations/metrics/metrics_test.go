package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"thursday/internal/core/domain/reminder"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestCountersAreExported(t *testing.T) {
	// Setup ---
	r := require.New(t)
	p, err := NewPrometheus()
	r.Nil(err)

	// Exercise ---
	p.ReminderCreated()
	p.ReminderCreated()
	p.ReminderFired()
	p.NotificationSent("discord", nil)
	p.NotificationSent("discord", errors.New("boom"))
	p.NotificationSent("whatsapp", reminder.ErrChannelNotConfigured)
	p.SchedulerCycle(reminder.CycleOK)

	// Verify ---
	r.Equal(2.0, testutil.ToFloat64(p.remindersCreated))
	r.Equal(1.0, testutil.ToFloat64(p.remindersFired))
	r.Equal(1.0, testutil.ToFloat64(p.notifications.WithLabelValues("discord", outcomeDelivered)))
	r.Equal(1.0, testutil.ToFloat64(p.notifications.WithLabelValues("discord", outcomeFailed)))
	r.Equal(1.0, testutil.ToFloat64(p.notifications.WithLabelValues("whatsapp", outcomeNotConfigured)))
	r.Equal(1.0, testutil.ToFloat64(p.schedulerCycles.WithLabelValues(string(reminder.CycleOK))))

	rw := httptest.NewRecorder()
	p.Handler().ServeHTTP(rw, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	r.Equal(http.StatusOK, rw.Code)
	r.Contains(rw.Body.String(), "thursday_reminders_created_total 2")
}

func TestNilReceiverIsNoop(t *testing.T) {
	var p *Prometheus
	require.NotPanics(t, func() {
		p.ReminderCreated()
		p.ReminderFired()
		p.NotificationSent("discord", nil)
		p.SchedulerCycle(reminder.CycleFailed)
	})
}
