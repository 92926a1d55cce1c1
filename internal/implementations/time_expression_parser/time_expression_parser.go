package timeexpressionparser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	e "thursday/internal/core/domain/errors"
	"thursday/internal/core/domain/reminder"
	"time"
)

const clock = `(\d{1,2})(?:[: ](\d{2}))?\s*(am|pm)?`

var (
	reRelative = regexp.MustCompile(
		`^(?:in\s+)?` +
			`(?:(\d+)\s*(?:days?|d)\s*(?:and\s*)?)?` +
			`(?:(\d+)\s*(?:hours?|hrs?|h)\s*(?:and\s*)?)?` +
			`(?:(\d+)\s*(?:minutes?|mins?|m)\s*(?:and\s*)?)?` +
			`(?:(\d+)\s*(?:seconds?|secs?|s))?` +
			`\s*$`,
	)
	reTomorrow = regexp.MustCompile(`^(?:tomorrow|tmrw|tmr)\s+(?:at\s*)?` + clock + `$`)
	reToday    = regexp.MustCompile(`^today\s+(?:at\s*)?` + clock + `$`)
	reClock    = regexp.MustCompile(`^(?:at\s*)?` + clock + `$`)
)

// Parser resolves time phrases against a reference "now". Grammar families
// are tried in a fixed order and the first syntactic match decides the
// outcome; there is no backtracking into later families.
type Parser struct {
	location *time.Location
}

// New resolves clock times in the location of the "now" passed to Parse.
func New() *Parser {
	return &Parser{}
}

// NewInLocation resolves clock times as wall-clock times in location
// whatever location "now" carries.
func NewInLocation(location *time.Location) *Parser {
	if location == nil {
		panic(e.NewNilArgumentError("location"))
	}
	return &Parser{location: location}
}

func (p *Parser) Parse(expression string, now time.Time) (time.Time, error) {
	expression = normalize(expression)
	if expression == "" {
		return time.Time{}, fmt.Errorf("empty expression, %w", reminder.ErrTimeExpressionParsing)
	}

	n, err := p.parseNode(expression)
	if err != nil {
		return time.Time{}, err
	}
	if p.location != nil {
		now = now.In(p.location)
	}
	return createTriggerAt(n, now)
}

func (p *Parser) parseNode(expression string) (node, error) {
	if match := reRelative.FindStringSubmatch(expression); match != nil && hasAnyGroup(match[1:]) {
		return p.parseIn(match)
	}
	if match := reTomorrow.FindStringSubmatch(expression); match != nil {
		at, err := p.parseAt(match)
		if err != nil {
			return nil, err
		}
		return on{day: tomorrow, at: at}, nil
	}
	if match := reToday.FindStringSubmatch(expression); match != nil {
		at, err := p.parseAt(match)
		if err != nil {
			return nil, err
		}
		return on{day: today, at: at}, nil
	}
	if match := reClock.FindStringSubmatch(expression); match != nil {
		return p.parseAt(match)
	}
	return nil, reminder.ErrTimeExpressionParsing
}

func (p *Parser) parseIn(match []string) (in, error) {
	if len(match) != 5 {
		return in{}, fmt.Errorf("invalid match for parseIn, %w", reminder.ErrTimeExpressionParsing)
	}

	values := make([]uint64, 4)
	for ix, raw := range match[1:] {
		if raw == "" {
			continue
		}
		value, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return in{}, fmt.Errorf("invalid relative amount %q, %w", raw, reminder.ErrTimeExpressionParsing)
		}
		values[ix] = value
	}
	return in{days: values[0], hours: values[1], minutes: values[2], seconds: values[3]}, nil
}

func (p *Parser) parseAt(match []string) (at, error) {
	if len(match) != 4 {
		return at{}, fmt.Errorf("invalid match for parseAt, %w", reminder.ErrTimeExpressionParsing)
	}
	return p.parseRawTimeAmOrPm(match[1], match[2], match[3])
}

func (p *Parser) parseRawTimeAmOrPm(
	rawHour string,
	rawMinute string,
	pmOrAm string,
) (at, error) {
	atHour, err := strconv.ParseUint(rawHour, 10, 8)
	if err != nil {
		return at{}, reminder.ErrTimeExpressionParsing
	}

	var atMinute uint64
	if rawMinute != "" {
		atMinute, err = strconv.ParseUint(rawMinute, 10, 8)
		if err != nil {
			return at{}, reminder.ErrTimeExpressionParsing
		}
	}

	if pmOrAm != "" && (atHour < 1 || atHour > 12) {
		return at{}, fmt.Errorf("hour out of 12-hour range, %w", reminder.ErrTimeExpressionParsing)
	}
	if pmOrAm == "am" && atHour == 12 {
		atHour = 0
	}
	if pmOrAm == "pm" && atHour != 12 {
		atHour += 12
	}

	return at{hour: uint(atHour), minute: uint(atMinute)}, nil
}

func normalize(expression string) string {
	expression = strings.ToLower(strings.TrimSpace(expression))
	expression = strings.TrimRight(expression, ".,!?;: ")
	return strings.Join(strings.Fields(expression), " ")
}

func hasAnyGroup(groups []string) bool {
	for _, group := range groups {
		if group != "" {
			return true
		}
	}
	return false
}
