package timeexpressionparser

type nodeVisitor interface {
	visitIn(in in) error
	visitOn(on on) error
	visitAt(at at) error
}

type node interface {
	accept(v nodeVisitor) error
}

// in is a compound relative offset ("in 1h 30m").
type in struct {
	days    uint64
	hours   uint64
	minutes uint64
	seconds uint64
}

func (in in) accept(v nodeVisitor) error {
	return v.visitIn(in)
}

func (in in) totalSeconds() uint64 {
	return in.days*secondsInDay + in.hours*3600 + in.minutes*60 + in.seconds
}

type onDay string

var (
	today    onDay = onDay("today")
	tomorrow onDay = onDay("tomorrow")
)

// on is a relative day with a mandatory clock time.
type on struct {
	day onDay
	at  at
}

func (on on) accept(v nodeVisitor) error {
	return v.visitOn(on)
}

// at is a wall-clock time of day in 24-hour form.
type at struct {
	hour   uint
	minute uint
}

func (at at) accept(v nodeVisitor) error {
	return v.visitAt(at)
}
