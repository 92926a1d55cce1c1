package reminder

import (
	"context"
	c "thursday/internal/core/domain/common"
	"time"
)

type CreateInput struct {
	Message        string
	TriggerAt      time.Time
	CreatedAt      time.Time
	ConversationID c.Optional[string]
}

// Repository is the durable reminder table. Implementations are safe for
// concurrent use and wrap every storage failure with ErrStoreUnavailable.
type Repository interface {
	Create(ctx context.Context, input CreateInput) (Reminder, error)
	// GetDue returns unfired reminders with TriggerAt <= now ordered by
	// TriggerAt ascending.
	GetDue(ctx context.Context, now time.Time) ([]Reminder, error)
	// MarkFired is idempotent: fired or unknown IDs are a no-op.
	MarkFired(ctx context.Context, id ID) error
	ListActive(ctx context.Context) ([]Reminder, error)
	ListAll(ctx context.Context, limit uint) ([]Reminder, error)
	Delete(ctx context.Context, id ID) (bool, error)
}
