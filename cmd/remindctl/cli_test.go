package main

import (
	"bytes"
	"context"
	"errors"
	"testing"
	c "thursday/internal/core/domain/common"
	"thursday/internal/core/domain/reminder"
	createreminderfrommessage "thursday/internal/core/services/create_reminder_from_message"
	deletereminder "thursday/internal/core/services/delete_reminder"
	listreminders "thursday/internal/core/services/list_reminders"
	intentdetector "thursday/internal/implementations/intent_detector"
	timeexpressionparser "thursday/internal/implementations/time_expression_parser"
	notificationrelay "thursday/internal/rabbitmq/consumers/notification_relay"
	"thursday/internal/rabbitmq/schema"
	"time"

	"github.com/stretchr/testify/suite"
)

type stubListService struct {
	inputs []listreminders.Input
	result listreminders.Result
	err    error
}

func (s *stubListService) Run(ctx context.Context, input listreminders.Input) (listreminders.Result, error) {
	s.inputs = append(s.inputs, input)
	return s.result, s.err
}

type stubDeleteService struct {
	inputs []deletereminder.Input
	err    error
}

func (s *stubDeleteService) Run(ctx context.Context, input deletereminder.Input) (deletereminder.Result, error) {
	s.inputs = append(s.inputs, input)
	return deletereminder.Result{}, s.err
}

type stubCreateService struct {
	inputs []createreminderfrommessage.Input
	result createreminderfrommessage.Result
	err    error
}

func (s *stubCreateService) Run(
	ctx context.Context,
	input createreminderfrommessage.Input,
) (createreminderfrommessage.Result, error) {
	s.inputs = append(s.inputs, input)
	return s.result, s.err
}

type testSuite struct {
	suite.Suite
	now       time.Time
	out       *bytes.Buffer
	list      *stubListService
	delete    *stubDeleteService
	create    *stubCreateService
	tailed    []schema.Notification
	connected int
	shutdowns int
	cli       *CLI
}

func (s *testSuite) SetupTest() {
	s.now = time.Date(2024, 3, 10, 10, 0, 0, 0, time.UTC)
	s.out = &bytes.Buffer{}
	s.list = &stubListService{}
	s.delete = &stubDeleteService{}
	s.create = &stubCreateService{}
	s.tailed = nil
	s.connected = 0
	s.shutdowns = 0

	parser := timeexpressionparser.New()
	s.cli = &CLI{
		out:      s.out,
		now:      func() time.Time { return s.now },
		parser:   parser,
		detector: intentdetector.New(parser),
		connect: func() (*backend, func(), error) {
			s.connected++
			return &backend{
				ListReminders:             s.list,
				DeleteReminder:            s.delete,
				CreateReminderFromMessage: s.create,
				Tail: func(ctx context.Context, handle notificationrelay.Handle) error {
					for _, n := range s.tailed {
						if err := handle(ctx, n); err != nil {
							return err
						}
					}
					return nil
				},
			}, func() { s.shutdowns++ }, nil
		},
	}
}

func TestCLI(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func (s *testSuite) execute(args ...string) error {
	cmd := newRootCommand(s.cli)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(context.Background())
}

func (s *testSuite) TestActiveListsPendingReminders() {
	// Setup ---
	s.list.result = listreminders.Result{Reminders: []reminder.Reminder{
		{ID: 7, Message: "stretch", TriggerAt: s.now.Add(90 * time.Second), CreatedAt: s.now},
	}}

	// Exercise ---
	err := s.execute("active")

	// Verify ---
	s.Nil(err)
	s.Equal([]listreminders.Input{{}}, s.list.inputs)
	s.Contains(s.out.String(), "ID")
	s.Contains(s.out.String(), "stretch")
	s.Contains(s.out.String(), "in 1m 30s")
	s.Contains(s.out.String(), "pending")
	s.Equal(1, s.connected)
	s.Equal(1, s.shutdowns)
}

func (s *testSuite) TestActiveWithoutReminders() {
	err := s.execute("active")

	s.Nil(err)
	s.Equal("No reminders.\n", s.out.String())
}

func (s *testSuite) TestAllPassesLimitOnlyWhenSet() {
	cases := []struct {
		id       string
		args     []string
		expected listreminders.Input
	}{
		{
			id:       "default",
			args:     []string{"all"},
			expected: listreminders.Input{All: true, Limit: c.NewOptional(uint(listreminders.DEFAULT_LIMIT), false)},
		},
		{
			id:       "explicit",
			args:     []string{"all", "--limit", "5"},
			expected: listreminders.Input{All: true, Limit: c.NewOptional(uint(5), true)},
		},
	}

	for _, testcase := range cases {
		s.Run(testcase.id, func() {
			s.SetupTest()

			err := s.execute(testcase.args...)

			s.Nil(err)
			s.Equal([]listreminders.Input{testcase.expected}, s.list.inputs)
		})
	}
}

func (s *testSuite) TestAllRejectsZeroLimit() {
	err := s.execute("all", "--limit", "0")

	s.NotNil(err)
	s.Empty(s.list.inputs)
	s.Equal(0, s.connected)
}

func (s *testSuite) TestAllShowsFiredReminders() {
	s.list.result = listreminders.Result{Reminders: []reminder.Reminder{
		{ID: 2, Message: "water", TriggerAt: s.now.Add(-time.Hour), CreatedAt: s.now.Add(-2 * time.Hour), Fired: true},
	}}

	err := s.execute("all")

	s.Nil(err)
	s.Contains(s.out.String(), "fired")
	s.Contains(s.out.String(), "water")
}

func (s *testSuite) TestDelete() {
	err := s.execute("delete", "12")

	s.Nil(err)
	s.Equal([]deletereminder.Input{{ReminderID: 12}}, s.delete.inputs)
	s.Equal("Deleted reminder #12.\n", s.out.String())
}

func (s *testSuite) TestDeleteErrors() {
	cases := []struct {
		id        string
		arg       string
		err       error
		connected int
	}{
		{id: "not-a-number", arg: "twelve"},
		{id: "negative", arg: "-3"},
		{id: "missing", arg: "12", err: reminder.ErrReminderDoesNotExist, connected: 1},
		{id: "store-down", arg: "12", err: reminder.ErrStoreUnavailable, connected: 1},
	}

	for _, testcase := range cases {
		s.Run(testcase.id, func() {
			s.SetupTest()
			s.delete.err = testcase.err

			err := s.execute("delete", "--", testcase.arg)

			s.NotNil(err)
			s.Equal(testcase.connected, s.connected)
			s.Empty(s.out.String())
		})
	}
}

func (s *testSuite) TestParseDoesNotConnect() {
	err := s.execute("parse", "in", "1h", "30m")

	s.Nil(err)
	s.Contains(s.out.String(), "in 1h 30m")
	s.Equal(0, s.connected)
}

func (s *testSuite) TestParseFailure() {
	err := s.execute("parse", "someday")

	s.ErrorIs(err, reminder.ErrTimeExpressionParsing)
	s.Empty(s.out.String())
}

func (s *testSuite) TestDetect() {
	err := s.execute("detect", "remind me in 30s to take a break")

	s.Nil(err)
	s.Contains(s.out.String(), "Time:    in 30s")
	s.Contains(s.out.String(), "Message: take a break")
	s.Equal(0, s.connected)
}

func (s *testSuite) TestDetectWithoutIntent() {
	err := s.execute("detect", "hello, how are you?")

	s.Nil(err)
	s.Equal("No reminder intent found.\n", s.out.String())
}

func (s *testSuite) TestRemind() {
	// Setup ---
	triggerAt := s.now.Add(30 * time.Minute)
	rem := reminder.Reminder{ID: 3, Message: "drink water", TriggerAt: triggerAt, CreatedAt: s.now}
	s.create.result = createreminderfrommessage.Result{
		Intent:   c.NewOptional(reminder.Intent{TimeExpression: "in 30 minutes", Message: "drink water", TriggerAt: triggerAt}, true),
		Reminder: c.NewOptional(rem, true),
	}

	// Exercise ---
	err := s.execute("remind", "remind me in 30 minutes to drink water")

	// Verify ---
	s.Nil(err)
	s.Equal(
		[]createreminderfrommessage.Input{{Text: "remind me in 30 minutes to drink water"}},
		s.create.inputs,
	)
	s.Contains(s.out.String(), `Created reminder #3 "drink water"`)
	s.Contains(s.out.String(), "(in 30m)")
}

func (s *testSuite) TestRemindOutcomes() {
	cases := []struct {
		id          string
		result      createreminderfrommessage.Result
		err         error
		expectedErr bool
		expectedOut string
	}{
		{id: "no-intent", expectedOut: "No reminder intent found.\n"},
		{
			id: "not-stored",
			result: createreminderfrommessage.Result{
				Intent: c.NewOptional(reminder.Intent{Message: "x", TriggerAt: s.now}, true),
			},
			expectedErr: true,
		},
		{id: "service-error", err: errors.New("boom"), expectedErr: true},
	}

	for _, testcase := range cases {
		s.Run(testcase.id, func() {
			s.SetupTest()
			s.create.result = testcase.result
			s.create.err = testcase.err

			err := s.execute("remind", "whatever")

			if testcase.expectedErr {
				s.NotNil(err)
			} else {
				s.Nil(err)
			}
			s.Equal(testcase.expectedOut, s.out.String())
		})
	}
}

func (s *testSuite) TestTailPrintsNotifications() {
	s.tailed = []schema.Notification{
		{Text: "first", SentAt: s.now},
		{Text: "second", SentAt: s.now.Add(time.Second)},
	}

	err := s.execute("tail")

	s.Nil(err)
	s.Contains(s.out.String(), "] first\n")
	s.Contains(s.out.String(), "] second\n")
	s.Equal(1, s.shutdowns)
}

func (s *testSuite) TestConnectErrorIsReturned() {
	connectErr := errors.New("no store")
	s.cli.connect = func() (*backend, func(), error) { return nil, nil, connectErr }

	err := s.execute("active")

	s.ErrorIs(err, connectErr)
}
