package listreminders

import (
	"context"
	c "thursday/internal/core/domain/common"
	e "thursday/internal/core/domain/errors"
	"thursday/internal/core/domain/logging"
	"thursday/internal/core/domain/reminder"
	"thursday/internal/core/services"
)

const DEFAULT_LIMIT = 50

type Input struct {
	// All includes fired reminders, newest first. Otherwise only pending
	// reminders are listed, soonest first.
	All   bool
	Limit c.Optional[uint]
}

type Result struct {
	Reminders []reminder.Reminder
}

type service struct {
	log          logging.Logger
	repository   reminder.Repository
	defaultLimit uint
}

func New(
	log logging.Logger,
	repository reminder.Repository,
	defaultLimit uint,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if repository == nil {
		panic(e.NewNilArgumentError("repository"))
	}
	if defaultLimit == 0 {
		defaultLimit = DEFAULT_LIMIT
	}
	return &service{
		log:          log,
		repository:   repository,
		defaultLimit: defaultLimit,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	var reminders []reminder.Reminder
	if input.All {
		reminders, err = s.repository.ListAll(ctx, input.Limit.ValueOr(s.defaultLimit))
	} else {
		reminders, err = s.repository.ListActive(ctx)
	}
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("input", input))
		return result, err
	}

	s.log.Info(
		ctx,
		"Reminders successfully read.",
		logging.Entry("all", input.All),
		logging.Entry("count", len(reminders)),
	)
	result.Reminders = reminders
	return result, nil
}
