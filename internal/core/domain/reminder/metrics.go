package reminder

type CycleOutcome string

const (
	CycleOK      CycleOutcome = "ok"
	CycleFailed  CycleOutcome = "error"
	CycleSkipped CycleOutcome = "skipped"
)

// Metrics records reminder lifecycle counters.
type Metrics interface {
	ReminderCreated()
	ReminderFired()
	NotificationSent(channel string, err error)
	SchedulerCycle(outcome CycleOutcome)
}

type nopMetrics struct{}

func NewNopMetrics() Metrics {
	return nopMetrics{}
}

func (nopMetrics) ReminderCreated() {}

func (nopMetrics) ReminderFired() {}

func (nopMetrics) NotificationSent(string, error) {}

func (nopMetrics) SchedulerCycle(CycleOutcome) {}
