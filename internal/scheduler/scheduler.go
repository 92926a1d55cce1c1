package scheduler

import (
	"context"
	"errors"
	"sync"
	e "thursday/internal/core/domain/errors"
	"thursday/internal/core/domain/logging"
	"thursday/internal/core/domain/reminder"
	"thursday/internal/core/services"
	fireduereminders "thursday/internal/core/services/fire_due_reminders"
	"time"
)

const DEFAULT_INTERVAL = 10 * time.Second

var ErrAlreadyRunning = errors.New("scheduler is already running")

type Status struct {
	Running     bool
	Cycles      uint64
	Failures    uint64
	Skipped     uint64
	Fired       uint64
	LastCycleAt time.Time
	LastError   string
}

// Scheduler polls for due reminders every interval. All of its state lives
// in the instance.
type Scheduler struct {
	log      logging.Logger
	cycle    services.Service[fireduereminders.Input, fireduereminders.Result]
	metrics  reminder.Metrics
	interval time.Duration
	now      func() time.Time

	lock   sync.Mutex
	status Status
}

func New(
	log logging.Logger,
	cycle services.Service[fireduereminders.Input, fireduereminders.Result],
	metrics reminder.Metrics,
	interval time.Duration,
	now func() time.Time,
) *Scheduler {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if cycle == nil {
		panic(e.NewNilArgumentError("cycle"))
	}
	if metrics == nil {
		panic(e.NewNilArgumentError("metrics"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	if interval <= 0 {
		interval = DEFAULT_INTERVAL
	}
	return &Scheduler{
		log:      log,
		cycle:    cycle,
		metrics:  metrics,
		interval: interval,
		now:      now,
	}
}

// Run fires due reminders right away and then on every tick until ctx is
// cancelled. A cycle in flight finishes its current reminder before Run
// returns.
func (s *Scheduler) Run(ctx context.Context) error {
	if !s.setRunning(true) {
		return ErrAlreadyRunning
	}
	defer s.setRunning(false)

	s.log.Info(
		ctx,
		"Starting reminder scheduler.",
		logging.Entry("intervalSeconds", s.interval.Seconds()),
	)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.RunOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			s.log.Info(context.WithoutCancel(ctx), "Stopping reminder scheduler.")
			return nil
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce executes a single cycle and records its outcome.
func (s *Scheduler) RunOnce(ctx context.Context) reminder.CycleOutcome {
	result, err := s.cycle.Run(ctx, fireduereminders.Input{})

	outcome := reminder.CycleOK
	switch {
	case errors.Is(err, reminder.ErrLeaseHeld):
		outcome = reminder.CycleSkipped
	case err != nil:
		outcome = reminder.CycleFailed
		s.log.Error(
			ctx,
			"Reminder cycle failed, retrying on the next tick.",
			logging.Entry("err", err),
		)
	}
	s.metrics.SchedulerCycle(outcome)

	s.lock.Lock()
	defer s.lock.Unlock()
	s.status.Cycles++
	s.status.LastCycleAt = s.now()
	s.status.Fired += uint64(result.Fired)
	switch outcome {
	case reminder.CycleSkipped:
		s.status.Skipped++
	case reminder.CycleFailed:
		s.status.Failures++
		s.status.LastError = err.Error()
	default:
		s.status.LastError = ""
	}
	return outcome
}

func (s *Scheduler) Status() Status {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.status
}

func (s *Scheduler) setRunning(running bool) bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	if running && s.status.Running {
		return false
	}
	s.status.Running = running
	return true
}
