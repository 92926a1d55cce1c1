package reminder

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// TestReminderRepository is an in-memory Repository with call recording and
// error injection.
type TestReminderRepository struct {
	CreateError    error
	GetDueError    error
	MarkFiredError error
	ListError      error
	DeleteError    error

	CreateWith    []CreateInput
	GetDueWith    []time.Time
	MarkFiredWith []ID
	DeleteWith    []ID

	reminders map[ID]Reminder
	nextID    ID
	lock      sync.Mutex
}

func NewTestReminderRepository(reminders ...Reminder) *TestReminderRepository {
	r := &TestReminderRepository{reminders: make(map[ID]Reminder), nextID: 1}
	for _, rem := range reminders {
		r.reminders[rem.ID] = rem
		if rem.ID >= r.nextID {
			r.nextID = rem.ID + 1
		}
	}
	return r
}

func (r *TestReminderRepository) Create(ctx context.Context, input CreateInput) (rem Reminder, err error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.CreateWith = append(r.CreateWith, input)
	if r.CreateError != nil {
		return rem, r.CreateError
	}
	rem = Reminder{
		ID:             r.nextID,
		Message:        input.Message,
		TriggerAt:      TruncateTimestamp(input.TriggerAt),
		CreatedAt:      TruncateTimestamp(input.CreatedAt),
		ConversationID: input.ConversationID,
	}
	r.reminders[rem.ID] = rem
	r.nextID++
	return rem, nil
}

func (r *TestReminderRepository) GetDue(ctx context.Context, now time.Time) ([]Reminder, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.GetDueWith = append(r.GetDueWith, now)
	if r.GetDueError != nil {
		return nil, r.GetDueError
	}
	due := make([]Reminder, 0)
	for _, rem := range r.reminders {
		if rem.IsDue(now) {
			due = append(due, rem)
		}
	}
	sortByTriggerAt(due, false)
	return due, nil
}

func (r *TestReminderRepository) MarkFired(ctx context.Context, id ID) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.MarkFiredWith = append(r.MarkFiredWith, id)
	if r.MarkFiredError != nil {
		return r.MarkFiredError
	}
	if rem, ok := r.reminders[id]; ok {
		rem.Fired = true
		r.reminders[id] = rem
	}
	return nil
}

func (r *TestReminderRepository) ListActive(ctx context.Context) ([]Reminder, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.ListError != nil {
		return nil, r.ListError
	}
	active := make([]Reminder, 0)
	for _, rem := range r.reminders {
		if !rem.Fired {
			active = append(active, rem)
		}
	}
	sortByTriggerAt(active, false)
	return active, nil
}

func (r *TestReminderRepository) ListAll(ctx context.Context, limit uint) ([]Reminder, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.ListError != nil {
		return nil, r.ListError
	}
	all := make([]Reminder, 0, len(r.reminders))
	for _, rem := range r.reminders {
		all = append(all, rem)
	}
	sortByTriggerAt(all, true)
	if uint(len(all)) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (r *TestReminderRepository) Delete(ctx context.Context, id ID) (bool, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.DeleteWith = append(r.DeleteWith, id)
	if r.DeleteError != nil {
		return false, r.DeleteError
	}
	if _, ok := r.reminders[id]; !ok {
		return false, nil
	}
	delete(r.reminders, id)
	return true, nil
}

// Get returns the stored copy of a reminder.
func (r *TestReminderRepository) Get(id ID) (Reminder, bool) {
	r.lock.Lock()
	defer r.lock.Unlock()
	rem, ok := r.reminders[id]
	return rem, ok
}

func sortByTriggerAt(reminders []Reminder, desc bool) {
	sort.SliceStable(reminders, func(i, j int) bool {
		a, b := reminders[i], reminders[j]
		if a.TriggerAt.Equal(b.TriggerAt) {
			if desc {
				return a.ID > b.ID
			}
			return a.ID < b.ID
		}
		if desc {
			return a.TriggerAt.After(b.TriggerAt)
		}
		return a.TriggerAt.Before(b.TriggerAt)
	})
}

type TestNotification struct {
	Text  string
	Route Route
}

// TestNotifier records notices and answers with Result.
type TestNotifier struct {
	Result bool
	Sent   []TestNotification
	lock   sync.Mutex
}

func NewTestNotifier() *TestNotifier {
	return &TestNotifier{Result: true}
}

func (n *TestNotifier) Notify(ctx context.Context, text string, route Route) bool {
	n.lock.Lock()
	defer n.lock.Unlock()
	n.Sent = append(n.Sent, TestNotification{Text: text, Route: route})
	return n.Result
}

func (n *TestNotifier) Count() int {
	n.lock.Lock()
	defer n.lock.Unlock()
	return len(n.Sent)
}

// TestChannel is a Channel answering with Err and recording what was sent.
type TestChannel struct {
	ChannelName string
	Err         error
	Sent        []string
	lock        sync.Mutex
}

func NewTestChannel(name string) *TestChannel {
	return &TestChannel{ChannelName: name}
}

func (ch *TestChannel) Name() string {
	return ch.ChannelName
}

func (ch *TestChannel) Send(ctx context.Context, text string) error {
	ch.lock.Lock()
	defer ch.lock.Unlock()
	ch.Sent = append(ch.Sent, text)
	if ch.Err != nil {
		return ch.Err
	}
	return nil
}

func (ch *TestChannel) SentCount() int {
	ch.lock.Lock()
	defer ch.lock.Unlock()
	return len(ch.Sent)
}

// TestLease grants the lease unless Busy is set. With LostAfter > 0 the
// hold expires once that many extensions have succeeded.
type TestLease struct {
	Busy         bool
	AcquireError error
	ExtendError  error
	LostAfter    int
	Acquired     int
	Extended     int
	Released     int
	lock         sync.Mutex
}

func (l *TestLease) Extend(ctx context.Context) (bool, error) {
	l.lock.Lock()
	defer l.lock.Unlock()
	if l.ExtendError != nil {
		return false, l.ExtendError
	}
	if l.LostAfter > 0 && l.Extended >= l.LostAfter {
		return false, nil
	}
	l.Extended++
	return true, nil
}

func (l *TestLease) TryAcquire(ctx context.Context) (bool, error) {
	l.lock.Lock()
	defer l.lock.Unlock()
	if l.AcquireError != nil {
		return false, l.AcquireError
	}
	if l.Busy {
		return false, nil
	}
	l.Acquired++
	return true, nil
}

func (l *TestLease) Release(ctx context.Context) error {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.Released++
	return nil
}

func (l *TestLease) String() string {
	return fmt.Sprintf("TestLease(acquired=%d, released=%d)", l.Acquired, l.Released)
}

// TestMetrics counts recorded events.
type TestMetrics struct {
	Created       int
	Fired         int
	Notifications map[string]int
	Cycles        map[CycleOutcome]int
	lock          sync.Mutex
}

func NewTestMetrics() *TestMetrics {
	return &TestMetrics{Notifications: make(map[string]int), Cycles: make(map[CycleOutcome]int)}
}

func (m *TestMetrics) ReminderCreated() {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.Created++
}

func (m *TestMetrics) ReminderFired() {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.Fired++
}

func (m *TestMetrics) NotificationSent(channel string, err error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.Notifications[channel]++
}

func (m *TestMetrics) SchedulerCycle(outcome CycleOutcome) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.Cycles[outcome]++
}

func (m *TestMetrics) CycleCount(outcome CycleOutcome) int {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.Cycles[outcome]
}
