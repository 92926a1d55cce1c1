package notifier

import (
	"context"
	"errors"
	"testing"
	"thursday/internal/core/domain/logging"
	"thursday/internal/core/domain/reminder"

	"github.com/stretchr/testify/suite"
)

type testSuite struct {
	suite.Suite
	logger    *logging.FakeLogger
	primary   *reminder.TestChannel
	secondary *reminder.TestChannel
	metrics   *reminder.TestMetrics
}

func (s *testSuite) SetupTest() {
	s.logger = logging.NewFakeLogger()
	s.primary = reminder.NewTestChannel("primary")
	s.secondary = reminder.NewTestChannel("secondary")
	s.metrics = reminder.NewTestMetrics()
}

func (s *testSuite) dispatcher() *Dispatcher {
	return New(s.logger, s.primary, s.secondary, s.metrics)
}

func TestDispatcher(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func (s *testSuite) TestDefaultRouteUsesPrimaryOnly() {
	ok := s.dispatcher().Notify(context.Background(), "hi", reminder.RouteDefault)

	s.True(ok)
	s.Equal([]string{"hi"}, s.primary.Sent)
	s.Equal(0, s.secondary.SentCount())
}

func (s *testSuite) TestDefaultRouteFallsBackOnce() {
	s.primary.Err = reminder.NewDeliveryError("primary", 500, errors.New("down"))

	ok := s.dispatcher().Notify(context.Background(), "hi", reminder.RouteDefault)

	s.True(ok)
	s.Equal(1, s.primary.SentCount())
	s.Equal(1, s.secondary.SentCount())
	s.Len(s.logger.Records(logging.ERROR), 1)
	s.Len(s.logger.Records(logging.WARNING), 1)
}

func (s *testSuite) TestDefaultRouteFallsBackWhenPrimaryNotConfigured() {
	s.primary.Err = notConfigured("primary")

	ok := s.dispatcher().Notify(context.Background(), "hi", reminder.RouteDefault)

	s.True(ok)
	s.Equal(1, s.secondary.SentCount())
	s.Len(s.logger.Records(logging.ERROR), 0)
}

func (s *testSuite) TestDefaultRouteBothFail() {
	s.primary.Err = errors.New("primary down")
	s.secondary.Err = errors.New("secondary down")

	ok := s.dispatcher().Notify(context.Background(), "hi", reminder.RouteDefault)

	s.False(ok)
	s.Equal(1, s.primary.SentCount())
	s.Equal(1, s.secondary.SentCount())
	s.Len(s.logger.Records(logging.ERROR), 2)
}

func (s *testSuite) TestCancelledContextDoesNotFallBack() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s.primary.Err = reminder.NewDeliveryError("primary", 0, context.Canceled)

	ok := s.dispatcher().Notify(ctx, "hi", reminder.RouteDefault)

	s.False(ok)
	s.Equal(0, s.secondary.SentCount())
}

func (s *testSuite) TestPrimaryOnlyNeverFallsBack() {
	s.primary.Err = errors.New("down")

	ok := s.dispatcher().Notify(context.Background(), "hi", reminder.RoutePrimaryOnly)

	s.False(ok)
	s.Equal(0, s.secondary.SentCount())
}

func (s *testSuite) TestSecondaryOnly() {
	ok := s.dispatcher().Notify(context.Background(), "hi", reminder.RouteSecondaryOnly)

	s.True(ok)
	s.Equal(0, s.primary.SentCount())
	s.Equal(1, s.secondary.SentCount())
}

func (s *testSuite) TestAllSendsToBoth() {
	cases := []struct {
		id           string
		primaryErr   error
		secondaryErr error
		expected     bool
	}{
		{id: "both-ok", expected: true},
		{id: "primary-fails", primaryErr: errors.New("x"), expected: true},
		{id: "secondary-fails", secondaryErr: errors.New("x"), expected: true},
		{id: "both-fail", primaryErr: errors.New("x"), secondaryErr: errors.New("y"), expected: false},
	}

	for _, testcase := range cases {
		tc := testcase
		s.Run(tc.id, func() {
			s.SetupTest()
			s.primary.Err = tc.primaryErr
			s.secondary.Err = tc.secondaryErr

			ok := s.dispatcher().Notify(context.Background(), "hi", reminder.RouteAll)

			s.Equal(tc.expected, ok)
			s.Equal(1, s.primary.SentCount())
			s.Equal(1, s.secondary.SentCount())
			s.Equal(1, s.metrics.Notifications["primary"])
			s.Equal(1, s.metrics.Notifications["secondary"])
		})
	}
}

func (s *testSuite) TestUnconfiguredChannel() {
	ch := NewUnconfigured("none")

	err := ch.Send(context.Background(), "hi")

	s.Equal("none", ch.Name())
	s.ErrorIs(err, reminder.ErrChannelNotConfigured)
}
