package health

import (
	"context"
	"net/http"
	e "thursday/internal/core/domain/errors"
	"thursday/internal/core/domain/logging"
	"thursday/internal/http/handlers/response"
	"thursday/internal/scheduler"
	"time"
)

const pingTimeout = 2 * time.Second

type Pinger interface {
	Ping(ctx context.Context) error
}

type SchedulerStatus interface {
	Status() scheduler.Status
}

type Handler struct {
	log       logging.Logger
	store     Pinger
	scheduler SchedulerStatus
}

// New builds the health check. scheduler may be nil when the process does
// not run the poll loop.
func New(log logging.Logger, store Pinger, scheduler SchedulerStatus) *Handler {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if store == nil {
		panic(e.NewNilArgumentError("store"))
	}
	return &Handler{log: log, store: store, scheduler: scheduler}
}

type Scheduler struct {
	Running     bool       `json:"running"`
	Cycles      uint64     `json:"cycles"`
	Failures    uint64     `json:"failures"`
	Skipped     uint64     `json:"skipped"`
	Fired       uint64     `json:"fired"`
	LastCycleAt *time.Time `json:"last_cycle_at"`
	LastError   string     `json:"last_error,omitempty"`
}

type Result struct {
	Status    string     `json:"status"`
	Store     string     `json:"store"`
	Scheduler *Scheduler `json:"scheduler,omitempty"`
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
	defer cancel()

	result := Result{Status: "ok", Store: "ok"}
	status := http.StatusOK
	if err := h.store.Ping(ctx); err != nil {
		h.log.Warning(r.Context(), "Reminder store ping failed.", logging.Entry("err", err))
		result.Status = "degraded"
		result.Store = "unavailable"
		status = http.StatusServiceUnavailable
	}

	if h.scheduler != nil {
		s := h.scheduler.Status()
		result.Scheduler = &Scheduler{
			Running:   s.Running,
			Cycles:    s.Cycles,
			Failures:  s.Failures,
			Skipped:   s.Skipped,
			Fired:     s.Fired,
			LastError: s.LastError,
		}
		if !s.LastCycleAt.IsZero() {
			result.Scheduler.LastCycleAt = &s.LastCycleAt
		}
	}
	response.Render(rw, result, status)
}
