package reminder

import (
	"fmt"
	"strings"
	"time"
)

const absoluteTimeLayout = "Monday, January 02, 2006 at 03:04 PM"

// SetNotice is sent right after a reminder has been stored.
func SetNotice(message string, triggerAt time.Time, now time.Time) string {
	return fmt.Sprintf(
		"⏰ Reminder set!\n📝 %s\n🕐 %s (%s)",
		message,
		triggerAt.Format(absoluteTimeLayout),
		Countdown(triggerAt.Sub(now)),
	)
}

// FireNotice is sent by the scheduler when a reminder is due. mention is a
// Discord user id and may be empty.
func FireNotice(message string, mention string) string {
	var b strings.Builder
	b.WriteString("🔔 ")
	if mention != "" {
		fmt.Fprintf(&b, "<@%s> ", mention)
	}
	fmt.Fprintf(&b, "Time's up!\n📝 %s", message)
	return b.String()
}

// Countdown renders a duration as "in 1d 2h 3m 4s", omitting zero units.
func Countdown(d time.Duration) string {
	seconds := int64(d.Round(time.Second) / time.Second)
	if seconds <= 0 {
		return "now"
	}

	units := []struct {
		suffix  string
		seconds int64
	}{
		{"d", 24 * 3600},
		{"h", 3600},
		{"m", 60},
		{"s", 1},
	}
	parts := make([]string, 0, len(units))
	for _, unit := range units {
		if n := seconds / unit.seconds; n > 0 {
			parts = append(parts, fmt.Sprintf("%d%s", n, unit.suffix))
			seconds -= n * unit.seconds
		}
	}
	return "in " + strings.Join(parts, " ")
}
