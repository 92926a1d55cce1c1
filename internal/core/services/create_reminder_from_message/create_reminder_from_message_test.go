package createreminderfrommessage

import (
	"context"
	"fmt"
	"testing"
	c "thursday/internal/core/domain/common"
	"thursday/internal/core/domain/logging"
	"thursday/internal/core/domain/reminder"
	"thursday/internal/core/services"
	createreminder "thursday/internal/core/services/create_reminder"
	intentdetector "thursday/internal/implementations/intent_detector"
	timeexpressionparser "thursday/internal/implementations/time_expression_parser"
	"time"

	"github.com/stretchr/testify/suite"
)

var (
	Now = time.Date(2024, 3, 10, 10, 0, 0, 0, time.UTC)
)

type testSuite struct {
	suite.Suite
	logger     *logging.FakeLogger
	repository *reminder.TestReminderRepository
	notifier   *reminder.TestNotifier
	service    services.Service[Input, Result]
}

func (suite *testSuite) SetupTest() {
	now := func() time.Time { return Now }
	suite.logger = logging.NewFakeLogger()
	suite.repository = reminder.NewTestReminderRepository()
	suite.notifier = reminder.NewTestNotifier()
	suite.service = New(
		suite.logger,
		intentdetector.New(timeexpressionparser.New()),
		now,
		createreminder.New(
			suite.logger,
			suite.repository,
			suite.notifier,
			reminder.NewTestMetrics(),
			now,
		),
	)
}

func TestCreateReminderFromMessageService(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func (s *testSuite) TestReminderCreated() {
	cases := []struct {
		id        string
		text      string
		message   string
		triggerAt time.Time
	}{
		{id: "time-first", text: "remind me in 30s to take a break", message: "take a break", triggerAt: Now.Add(30 * time.Second)},
		{id: "task-first", text: "Remind me to take a break in 30s", message: "take a break", triggerAt: Now.Add(30 * time.Second)},
		{
			id:        "tomorrow",
			text:      "remind me tomorrow at 9am to submit the report",
			message:   "submit the report",
			triggerAt: time.Date(2024, 3, 11, 9, 0, 0, 0, time.UTC),
		},
	}

	for _, testcase := range cases {
		tc := testcase
		s.Run(tc.id, func() {
			s.SetupTest()

			// Exercise ---
			result, err := s.service.Run(context.Background(), Input{
				Text:           tc.text,
				ConversationID: c.NewOptional("conv-7", true),
			})

			// Verify ---
			assert := s.Require()
			assert.Nil(err)
			assert.True(result.Intent.IsPresent)
			assert.Equal(tc.message, result.Intent.Value.Message)
			assert.True(result.Reminder.IsPresent)
			assert.Equal(tc.message, result.Reminder.Value.Message)
			assert.True(tc.triggerAt.Equal(result.Reminder.Value.TriggerAt))
			assert.Equal(c.NewOptional("conv-7", true), result.Reminder.Value.ConversationID)
			assert.Equal(1, s.notifier.Count())
		})
	}
}

func (s *testSuite) TestNoIntent() {
	assert := s.Require()

	result, err := s.service.Run(context.Background(), Input{Text: "hello, how are you?"})

	assert.Nil(err)
	assert.False(result.Intent.IsPresent)
	assert.False(result.Reminder.IsPresent)
	assert.Empty(s.repository.CreateWith)
	assert.Empty(s.notifier.Sent)
}

func (s *testSuite) TestStoreUnavailableIsSwallowed() {
	assert := s.Require()

	// Setup ---
	s.repository.CreateError = fmt.Errorf("sqlite: %w", reminder.ErrStoreUnavailable)

	// Exercise ---
	result, err := s.service.Run(context.Background(), Input{Text: "remind me in 5 minutes to stretch"})

	// Verify ---
	assert.Nil(err)
	assert.True(result.Intent.IsPresent)
	assert.False(result.Reminder.IsPresent)
	assert.Len(s.logger.Records(logging.WARNING), 1)
	assert.Empty(s.notifier.Sent)
}

func (s *testSuite) TestNilArguments() {
	log := logging.NewFakeLogger()
	detector := intentdetector.New(timeexpressionparser.New())
	now := func() time.Time { return Now }
	create := createreminder.New(
		log,
		reminder.NewTestReminderRepository(),
		reminder.NewTestNotifier(),
		reminder.NewNopMetrics(),
		now,
	)

	s.Panics(func() { New(nil, detector, now, create) })
	s.Panics(func() { New(log, nil, now, create) })
	s.Panics(func() { New(log, detector, nil, create) })
	s.Panics(func() { New(log, detector, now, nil) })
}
