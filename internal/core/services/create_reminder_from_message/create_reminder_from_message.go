package createreminderfrommessage

import (
	"context"
	"errors"
	c "thursday/internal/core/domain/common"
	e "thursday/internal/core/domain/errors"
	"thursday/internal/core/domain/logging"
	"thursday/internal/core/domain/reminder"
	"thursday/internal/core/services"
	createreminder "thursday/internal/core/services/create_reminder"
	"time"
)

type Input struct {
	Text           string
	ConversationID c.Optional[string]
}

// Result is empty when the text carries no reminder intent. Intent without
// Reminder means the intent was found but the reminder could not be stored.
type Result struct {
	Intent   c.Optional[reminder.Intent]
	Reminder c.Optional[reminder.Reminder]
}

type service struct {
	log           logging.Logger
	detector      reminder.IntentDetector
	now           func() time.Time
	createService services.Service[createreminder.Input, createreminder.Result]
}

func New(
	log logging.Logger,
	detector reminder.IntentDetector,
	now func() time.Time,
	createService services.Service[createreminder.Input, createreminder.Result],
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if detector == nil {
		panic(e.NewNilArgumentError("detector"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	if createService == nil {
		panic(e.NewNilArgumentError("createService"))
	}
	return &service{
		log:           log,
		detector:      detector,
		now:           now,
		createService: createService,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	intent, ok := s.detector.Detect(input.Text, s.now())
	if !ok {
		s.log.Debug(ctx, "No reminder intent in message.")
		return result, nil
	}
	s.log.Info(
		ctx,
		"Reminder intent detected.",
		logging.Entry("timeExpression", intent.TimeExpression),
		logging.Entry("message", intent.Message),
		logging.Entry("triggerAt", intent.TriggerAt),
	)
	result.Intent = c.NewOptional(intent, true)

	created, err := s.createService.Run(ctx, createreminder.Input{
		Message:        intent.Message,
		TriggerAt:      intent.TriggerAt,
		ConversationID: input.ConversationID,
	})
	if err != nil {
		if errors.Is(err, reminder.ErrStoreUnavailable) {
			// The chat reply still goes out; the user just gets no reminder.
			s.log.Warning(
				ctx,
				"Reminder intent dropped, store is unavailable.",
				logging.Entry("conversationID", input.ConversationID),
				logging.Entry("err", err),
			)
			return result, nil
		}
		return result, err
	}
	result.Reminder = c.NewOptional(created.Reminder, true)
	return result, nil
}
