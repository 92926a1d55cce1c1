package reminder

import (
	"time"
)

type TimeExpressionParser interface {
	Parse(expression string, now time.Time) (time.Time, error)
}

// Intent is a scheduling request found in free-form text.
type Intent struct {
	TimeExpression string
	Message        string
	TriggerAt      time.Time
}

type IntentDetector interface {
	Detect(text string, now time.Time) (Intent, bool)
}

// Tag is an explicit [REMIND: <time> | <message>] marker in assistant text.
type Tag struct {
	Raw            string
	TimeExpression string
	Message        string
}

type TagExtractor interface {
	Extract(text string) []Tag
	Strip(text string) string
}
