package fireduereminders

import (
	"context"
	"fmt"
	e "thursday/internal/core/domain/errors"
	"thursday/internal/core/domain/logging"
	"thursday/internal/core/domain/reminder"
	"thursday/internal/core/services"
	"time"
)

const DEFAULT_FIRE_TIMEOUT = 30 * time.Second

type Input struct{}

type Result struct {
	Due       int
	Notified  int
	Fired     int
	Remaining int
}

type service struct {
	log         logging.Logger
	repository  reminder.Repository
	notifier    reminder.Notifier
	metrics     reminder.Metrics
	lease       reminder.Lease
	now         func() time.Time
	mention     string
	fireTimeout time.Duration
}

// New builds one poll cycle. The cycle runs under a lease acquired by the
// caller and extends it before every reminder. mention is the Discord user
// id put into fire notices, it may be empty.
func New(
	log logging.Logger,
	repository reminder.Repository,
	notifier reminder.Notifier,
	metrics reminder.Metrics,
	lease reminder.Lease,
	now func() time.Time,
	mention string,
	fireTimeout time.Duration,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if repository == nil {
		panic(e.NewNilArgumentError("repository"))
	}
	if notifier == nil {
		panic(e.NewNilArgumentError("notifier"))
	}
	if metrics == nil {
		panic(e.NewNilArgumentError("metrics"))
	}
	if lease == nil {
		panic(e.NewNilArgumentError("lease"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	if fireTimeout <= 0 {
		panic(e.NewInvalidArgumentError("fireTimeout", "must be positive"))
	}
	return &service{
		log:         log,
		repository:  repository,
		notifier:    notifier,
		metrics:     metrics,
		lease:       lease,
		now:         now,
		mention:     mention,
		fireTimeout: fireTimeout,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	due, err := s.repository.GetDue(ctx, s.now())
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("phase", "get_due"))
		return result, err
	}
	result.Due = len(due)
	if len(due) == 0 {
		return result, nil
	}
	s.log.Info(ctx, "Got due reminders.", logging.Entry("count", len(due)))

	for ix, rem := range due {
		if ctx.Err() != nil {
			result.Remaining = len(due) - ix
			s.log.Info(
				ctx,
				"Cycle interrupted, remaining reminders are left for the next run.",
				logging.Entry("remaining", result.Remaining),
			)
			return result, nil
		}

		if err := s.extendLease(ctx); err != nil {
			result.Remaining = len(due) - ix
			s.log.Warning(
				ctx,
				"Scheduler lease was lost, remaining reminders are left to the lease holder.",
				logging.Entry("remaining", result.Remaining),
				logging.Entry("err", err),
			)
			return result, err
		}

		notified, err := s.fire(ctx, rem)
		if notified {
			result.Notified++
		}
		if err != nil {
			result.Remaining = len(due) - ix
			return result, err
		}
		result.Fired++
	}

	s.log.Info(
		ctx,
		"Due reminders fired.",
		logging.Entry("fired", result.Fired),
		logging.Entry("notified", result.Notified),
	)
	return result, nil
}

func (s *service) extendLease(ctx context.Context) error {
	held, err := s.lease.Extend(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", reminder.ErrLeaseLost, err)
	}
	if !held {
		return reminder.ErrLeaseLost
	}
	return nil
}

// fire runs the notify and mark pair on a context detached from ctx, so a
// shutdown never splits it.
func (s *service) fire(ctx context.Context, rem reminder.Reminder) (notified bool, err error) {
	fireCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.fireTimeout)
	defer cancel()

	notified = s.notifier.Notify(fireCtx, reminder.FireNotice(rem.Message, s.mention), reminder.RouteDefault)
	if !notified {
		s.log.Warning(
			fireCtx,
			"Fire notice was not delivered, marking the reminder fired anyway.",
			logging.Entry("reminderID", rem.ID),
		)
	}

	if err := s.repository.MarkFired(fireCtx, rem.ID); err != nil {
		logging.Error(
			fireCtx,
			s.log,
			err,
			logging.Entry("phase", "mark_fired"),
			logging.Entry("reminderID", rem.ID),
		)
		return notified, err
	}
	s.metrics.ReminderFired()
	s.log.Info(
		fireCtx,
		"Reminder fired.",
		logging.Entry("reminderID", rem.ID),
		logging.Entry("notified", notified),
	)
	return notified, nil
}
