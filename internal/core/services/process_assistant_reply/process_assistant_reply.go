package processassistantreply

import (
	"context"
	c "thursday/internal/core/domain/common"
	e "thursday/internal/core/domain/errors"
	"thursday/internal/core/domain/logging"
	"thursday/internal/core/domain/reminder"
	"thursday/internal/core/services"
	createreminder "thursday/internal/core/services/create_reminder"
	"time"
)

type Input struct {
	Reply          string
	ConversationID c.Optional[string]
}

type Result struct {
	// Text is the reply with every reminder tag removed.
	Text      string
	Reminders []reminder.Reminder
	// Skipped holds tags whose time could not be parsed or stored.
	Skipped []reminder.Tag
}

type service struct {
	log           logging.Logger
	extractor     reminder.TagExtractor
	parser        reminder.TimeExpressionParser
	now           func() time.Time
	createService services.Service[createreminder.Input, createreminder.Result]
}

func New(
	log logging.Logger,
	extractor reminder.TagExtractor,
	parser reminder.TimeExpressionParser,
	now func() time.Time,
	createService services.Service[createreminder.Input, createreminder.Result],
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if extractor == nil {
		panic(e.NewNilArgumentError("extractor"))
	}
	if parser == nil {
		panic(e.NewNilArgumentError("parser"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	if createService == nil {
		panic(e.NewNilArgumentError("createService"))
	}
	return &service{
		log:           log,
		extractor:     extractor,
		parser:        parser,
		now:           now,
		createService: createService,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	tags := s.extractor.Extract(input.Reply)
	result.Text = input.Reply
	if len(tags) == 0 {
		return result, nil
	}
	result.Text = s.extractor.Strip(input.Reply)
	result.Reminders = make([]reminder.Reminder, 0, len(tags))

	now := s.now()
	for _, tag := range tags {
		triggerAt, err := s.parser.Parse(tag.TimeExpression, now)
		if err != nil {
			s.log.Info(
				ctx,
				"Reminder tag skipped, time expression is not parseable.",
				logging.Entry("tag", tag.Raw),
			)
			result.Skipped = append(result.Skipped, tag)
			continue
		}

		created, err := s.createService.Run(ctx, createreminder.Input{
			Message:        tag.Message,
			TriggerAt:      triggerAt,
			ConversationID: input.ConversationID,
		})
		if err != nil {
			s.log.Warning(
				ctx,
				"Reminder tag skipped, reminder was not created.",
				logging.Entry("tag", tag.Raw),
				logging.Entry("err", err),
			)
			result.Skipped = append(result.Skipped, tag)
			continue
		}
		result.Reminders = append(result.Reminders, created.Reminder)
	}

	s.log.Info(
		ctx,
		"Assistant reply processed.",
		logging.Entry("tags", len(tags)),
		logging.Entry("created", len(result.Reminders)),
	)
	return result, nil
}
