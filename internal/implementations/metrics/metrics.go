package metrics

import (
	"errors"
	"fmt"
	"net/http"
	"thursday/internal/core/domain/reminder"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "thursday"

const (
	outcomeDelivered     = "delivered"
	outcomeFailed        = "failed"
	outcomeNotConfigured = "not_configured"
)

type Prometheus struct {
	registry         *prometheus.Registry
	remindersCreated prometheus.Counter
	remindersFired   prometheus.Counter
	notifications    *prometheus.CounterVec
	schedulerCycles  *prometheus.CounterVec
}

// NewPrometheus registers reminder counters on a dedicated registry so that
// several instances (tests, multiple binaries) never collide.
func NewPrometheus() (*Prometheus, error) {
	p := &Prometheus{
		registry: prometheus.NewRegistry(),
		remindersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reminders_created_total",
			Help:      "Reminders persisted by the chat and assistant paths.",
		}),
		remindersFired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reminders_fired_total",
			Help:      "Reminders marked fired by the scheduler.",
		}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Notification attempts per channel and outcome.",
		}, []string{"channel", "outcome"}),
		schedulerCycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scheduler_cycles_total",
			Help:      "Scheduler poll cycles per outcome.",
		}, []string{"outcome"}),
	}

	cs := []prometheus.Collector{
		collectors.NewGoCollector(),
		p.remindersCreated,
		p.remindersFired,
		p.notifications,
		p.schedulerCycles,
	}
	for _, collector := range cs {
		if err := p.registry.Register(collector); err != nil {
			return nil, fmt.Errorf("register reminder metric: %w", err)
		}
	}
	return p, nil
}

func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

func (p *Prometheus) ReminderCreated() {
	if p == nil {
		return
	}
	p.remindersCreated.Inc()
}

func (p *Prometheus) ReminderFired() {
	if p == nil {
		return
	}
	p.remindersFired.Inc()
}

func (p *Prometheus) NotificationSent(channel string, err error) {
	if p == nil {
		return
	}
	outcome := outcomeDelivered
	switch {
	case errors.Is(err, reminder.ErrChannelNotConfigured):
		outcome = outcomeNotConfigured
	case err != nil:
		outcome = outcomeFailed
	}
	p.notifications.WithLabelValues(channel, outcome).Inc()
}

func (p *Prometheus) SchedulerCycle(outcome reminder.CycleOutcome) {
	if p == nil {
		return
	}
	p.schedulerCycles.WithLabelValues(string(outcome)).Inc()
}
