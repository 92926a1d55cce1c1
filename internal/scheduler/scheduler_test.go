package scheduler

import (
	"context"
	"sync"
	"testing"
	"thursday/internal/core/domain/logging"
	"thursday/internal/core/domain/reminder"
	fireduereminders "thursday/internal/core/services/fire_due_reminders"
	leaseguard "thursday/internal/core/services/lease_guard"
	"time"

	"github.com/stretchr/testify/require"
)

var (
	Now = time.Date(2024, 3, 10, 10, 0, 0, 0, time.UTC)
)

type stubCycle struct {
	Err    error
	Result fireduereminders.Result
	calls  int
	lock   sync.Mutex
}

func (c *stubCycle) Run(ctx context.Context, input fireduereminders.Input) (fireduereminders.Result, error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.calls++
	return c.Result, c.Err
}

func (c *stubCycle) Calls() int {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.calls
}

func newScheduler(cycle *stubCycle, metrics reminder.Metrics, interval time.Duration) *Scheduler {
	return New(logging.NewFakeLogger(), cycle, metrics, interval, func() time.Time { return Now })
}

func TestRunFiresImmediatelyAndStops(t *testing.T) {
	assert := require.New(t)
	cycle := &stubCycle{}
	s := newScheduler(cycle, reminder.NewNopMetrics(), time.Hour)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	assert.Eventually(func() bool { return cycle.Calls() == 1 }, time.Second, 5*time.Millisecond)
	assert.True(s.Status().Running)
	cancel()

	select {
	case err := <-done:
		assert.Nil(err)
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
	assert.False(s.Status().Running)
	assert.Equal(1, cycle.Calls())
}

func TestRunTicks(t *testing.T) {
	assert := require.New(t)
	cycle := &stubCycle{}
	s := newScheduler(cycle, reminder.NewNopMetrics(), 10*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go s.Run(ctx)

	assert.Eventually(func() bool { return cycle.Calls() >= 3 }, time.Second, 5*time.Millisecond)
}

func TestRunTwice(t *testing.T) {
	assert := require.New(t)
	cycle := &stubCycle{}
	s := newScheduler(cycle, reminder.NewNopMetrics(), time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go s.Run(ctx)
	assert.Eventually(func() bool { return s.Status().Running }, time.Second, 5*time.Millisecond)

	assert.ErrorIs(s.Run(ctx), ErrAlreadyRunning)
}

func TestRunOnceOutcomes(t *testing.T) {
	cases := []struct {
		id       string
		err      error
		expected reminder.CycleOutcome
	}{
		{id: "ok", err: nil, expected: reminder.CycleOK},
		{id: "lease-held", err: reminder.ErrLeaseHeld, expected: reminder.CycleSkipped},
		{id: "store-down", err: reminder.ErrStoreUnavailable, expected: reminder.CycleFailed},
	}

	for _, testcase := range cases {
		tc := testcase
		t.Run(tc.id, func(t *testing.T) {
			assert := require.New(t)
			metrics := reminder.NewTestMetrics()
			cycle := &stubCycle{Err: tc.err, Result: fireduereminders.Result{Fired: 2}}
			s := newScheduler(cycle, metrics, time.Hour)

			outcome := s.RunOnce(context.Background())

			assert.Equal(tc.expected, outcome)
			assert.Equal(1, metrics.CycleCount(tc.expected))
			status := s.Status()
			assert.Equal(uint64(1), status.Cycles)
			assert.True(Now.Equal(status.LastCycleAt))
			if tc.expected == reminder.CycleFailed {
				assert.Equal(uint64(1), status.Failures)
				assert.Equal(tc.err.Error(), status.LastError)
			} else {
				assert.Empty(status.LastError)
			}
		})
	}
}

func TestDueReminderFiredOnceAcrossCycles(t *testing.T) {
	assert := require.New(t)
	log := logging.NewFakeLogger()
	repository := reminder.NewTestReminderRepository(
		reminder.Reminder{ID: 1, Message: "stretch", TriggerAt: Now.Add(-time.Minute), CreatedAt: Now.Add(-time.Hour)},
	)
	notifier := reminder.NewTestNotifier()
	notifier.Result = false
	metrics := reminder.NewTestMetrics()
	lease := &reminder.TestLease{}
	now := func() time.Time { return Now }
	cycle := leaseguard.WithLease(
		log,
		lease,
		fireduereminders.New(log, repository, notifier, metrics, lease, now, "", time.Second),
	)
	s := New(log, cycle, metrics, time.Hour, now)

	assert.Equal(reminder.CycleOK, s.RunOnce(context.Background()))
	assert.Equal(reminder.CycleOK, s.RunOnce(context.Background()))
	lease.Busy = true
	assert.Equal(reminder.CycleSkipped, s.RunOnce(context.Background()))

	assert.Equal(1, notifier.Count())
	assert.Equal([]reminder.ID{1}, repository.MarkFiredWith)
	assert.Equal(2, lease.Released)
	assert.Equal(uint64(1), s.Status().Fired)
	assert.Equal(uint64(1), s.Status().Skipped)
}

func TestNilArguments(t *testing.T) {
	assert := require.New(t)
	log := logging.NewFakeLogger()
	metrics := reminder.NewNopMetrics()
	now := func() time.Time { return Now }

	assert.Panics(func() { New(nil, &stubCycle{}, metrics, time.Second, now) })
	assert.Panics(func() { New(log, nil, metrics, time.Second, now) })
	assert.Panics(func() { New(log, &stubCycle{}, nil, time.Second, now) })
	assert.Panics(func() { New(log, &stubCycle{}, metrics, time.Second, nil) })
	assert.Equal(DEFAULT_INTERVAL, New(log, &stubCycle{}, metrics, 0, now).interval)
}
