package createreminder

import (
	"context"
	"strings"
	c "thursday/internal/core/domain/common"
	e "thursday/internal/core/domain/errors"
	"thursday/internal/core/domain/logging"
	"thursday/internal/core/domain/reminder"
	"thursday/internal/core/services"
	"time"
)

type Input struct {
	Message        string
	TriggerAt      time.Time
	ConversationID c.Optional[string]
}

func (i Input) Validate() error {
	if strings.TrimSpace(i.Message) == "" {
		return reminder.ErrReminderMessageEmpty
	}
	if i.TriggerAt.IsZero() {
		return reminder.ErrReminderTriggerNotSet
	}
	return nil
}

type Result struct {
	Reminder reminder.Reminder
	// Notified reports whether the "set" notice reached any channel.
	Notified bool
}

type service struct {
	log        logging.Logger
	repository reminder.Repository
	notifier   reminder.Notifier
	metrics    reminder.Metrics
	now        func() time.Time
}

func New(
	log logging.Logger,
	repository reminder.Repository,
	notifier reminder.Notifier,
	metrics reminder.Metrics,
	now func() time.Time,
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
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &service{
		log:        log,
		repository: repository,
		notifier:   notifier,
		metrics:    metrics,
		now:        now,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	if err := input.Validate(); err != nil {
		return result, err
	}

	now := s.now()
	created, err := s.repository.Create(ctx, reminder.CreateInput{
		Message:        strings.TrimSpace(input.Message),
		TriggerAt:      input.TriggerAt,
		CreatedAt:      now,
		ConversationID: input.ConversationID,
	})
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("input", input))
		return result, err
	}
	s.metrics.ReminderCreated()
	s.log.Info(
		ctx,
		"Reminder successfully created.",
		logging.Entry("reminderID", created.ID),
		logging.Entry("triggerAt", created.TriggerAt),
	)

	result.Reminder = created
	result.Notified = s.notifier.Notify(
		ctx,
		reminder.SetNotice(created.Message, created.TriggerAt, now),
		reminder.RouteDefault,
	)
	if !result.Notified {
		s.log.Warning(
			ctx,
			"Reminder created but the set notice was not delivered.",
			logging.Entry("reminderID", created.ID),
		)
	}
	return result, nil
}
