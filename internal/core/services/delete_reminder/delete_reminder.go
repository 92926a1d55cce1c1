package deletereminder

import (
	"context"
	e "thursday/internal/core/domain/errors"
	"thursday/internal/core/domain/logging"
	"thursday/internal/core/domain/reminder"
	"thursday/internal/core/services"
)

type Input struct {
	ReminderID reminder.ID
}

type Result struct{}

type service struct {
	log        logging.Logger
	repository reminder.Repository
}

func New(
	log logging.Logger,
	repository reminder.Repository,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if repository == nil {
		panic(e.NewNilArgumentError("repository"))
	}
	return &service{
		log:        log,
		repository: repository,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	deleted, err := s.repository.Delete(ctx, input.ReminderID)
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("input", input))
		return result, err
	}
	if !deleted {
		s.log.Info(ctx, "Reminder not found.", logging.Entry("reminderID", input.ReminderID))
		return result, reminder.ErrReminderDoesNotExist
	}

	s.log.Info(
		ctx,
		"Reminder has been successfully deleted.",
		logging.Entry("reminderID", input.ReminderID),
	)
	return result, nil
}
