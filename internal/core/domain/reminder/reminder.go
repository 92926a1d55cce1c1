package reminder

import (
	"strings"
	c "thursday/internal/core/domain/common"
	e "thursday/internal/core/domain/errors"
	"time"
)

type ID int64

// Reminder is a persisted message with a fire-once flag. Values are passed
// by copy; the only transition is fired=false -> fired=true made by the
// repository's MarkFired.
type Reminder struct {
	ID             ID
	Message        string
	TriggerAt      time.Time
	CreatedAt      time.Time
	Fired          bool
	ConversationID c.Optional[string]
}

func (r Reminder) Validate() error {
	if strings.TrimSpace(r.Message) == "" {
		return e.NewInvalidStateError("reminder message must not be empty")
	}
	if r.TriggerAt.IsZero() {
		return e.NewInvalidStateError("reminder trigger time must be set")
	}
	if r.CreatedAt.IsZero() {
		return e.NewInvalidStateError("reminder creation time must be set")
	}
	return nil
}

// IsDue reports whether the reminder has to be fired at the moment now.
func (r Reminder) IsDue(now time.Time) bool {
	return !r.Fired && !r.TriggerAt.After(now)
}

func (r Reminder) State() State {
	if r.Fired {
		return StateFired
	}
	return StatePending
}

// TruncateTimestamp brings t to the precision the repositories persist.
func TruncateTimestamp(t time.Time) time.Time {
	return time.Unix(t.Unix(), 0).In(t.Location())
}
