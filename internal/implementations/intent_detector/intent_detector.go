package intentdetector

import (
	"regexp"
	"strings"
	e "thursday/internal/core/domain/errors"
	"thursday/internal/core/domain/reminder"
	"time"
)

type captureOrder int

const (
	// TimeFirst: "remind me <time> to <task>".
	TimeFirst captureOrder = iota
	// TaskFirst: "remind me to <task> <time>".
	TaskFirst
)

// Longer alternatives go first so "in 30 seconds" is never cut to "in 30 s".
const (
	timeUnit = `(?:seconds?|secs?|s|minutes?|mins?|m|hours?|hrs?|h|days?|d)`
	relTime  = `in\s+\d+\s*` + timeUnit + `(?:\s*(?:and\s*)?\d+\s*` + timeUnit + `)*\b`
	absTime  = `\d{1,2}(?:[: ]\d{2})?\s*(?:am|pm)\b`
	clock    = `\d{1,2}(?:[: ]\d{2})?\s*(?:am|pm)?\b`
	prefix   = `(?i)remind\s+me\s+`
	lead     = `(?:to|that|about)\s+`
)

type pattern struct {
	re    *regexp.Regexp
	order captureOrder
}

func timeFirst(timeSpan string) pattern {
	return pattern{
		re:    regexp.MustCompile(prefix + `(` + timeSpan + `)\s+` + lead + `(.+)`),
		order: TimeFirst,
	}
}

func taskFirst(timeSpan string) pattern {
	return pattern{
		re:    regexp.MustCompile(prefix + lead + `(.+?)\s+(` + timeSpan + `)`),
		order: TaskFirst,
	}
}

// patterns are tried in this order, the first one whose time span parses
// wins.
var patterns = []pattern{
	timeFirst(relTime),
	taskFirst(relTime),
	timeFirst(`(?:at\s+)?` + absTime),
	taskFirst(`(?:at\s+)?` + absTime),
	timeFirst(`tomorrow\s+(?:at\s+)?` + clock),
	taskFirst(`tomorrow\s+(?:at\s+)?` + clock),
	timeFirst(`today\s+(?:at\s+)?` + clock),
	taskFirst(`today\s+(?:at\s+)?` + clock),
	// Low confidence catch-all: "remind me in 5m call mom".
	{
		re:    regexp.MustCompile(prefix + `(` + relTime + `)\s+(.+)`),
		order: TimeFirst,
	},
}

var reLeadingAt = regexp.MustCompile(`(?i)^at\s+`)

const taskCutset = ".,!?;: "

type Detector struct {
	parser reminder.TimeExpressionParser
}

func New(parser reminder.TimeExpressionParser) *Detector {
	if parser == nil {
		panic(e.NewNilArgumentError("parser"))
	}
	return &Detector{parser: parser}
}

func (d *Detector) Detect(text string, now time.Time) (reminder.Intent, bool) {
	text = strings.TrimSpace(text)

	for _, p := range patterns {
		match := p.re.FindStringSubmatch(text)
		if match == nil {
			continue
		}

		first, second := strings.TrimSpace(match[1]), strings.TrimSpace(match[2])
		timeSpan, task := first, second
		if p.order == TaskFirst {
			timeSpan, task = second, first
		}

		timeSpan = reLeadingAt.ReplaceAllString(timeSpan, "")
		task = strings.TrimRight(task, taskCutset)
		if task == "" {
			continue
		}

		triggerAt, err := d.parser.Parse(timeSpan, now)
		if err != nil {
			continue
		}
		return reminder.Intent{
			TimeExpression: timeSpan,
			Message:        task,
			TriggerAt:      triggerAt,
		}, true
	}
	return reminder.Intent{}, false
}
