package reminder

import "context"

// Lease guards a poll cycle so that only one scheduler instance fires due
// reminders at a time.
type Lease interface {
	TryAcquire(ctx context.Context) (bool, error)
	// Extend pushes the expiry of a held lease forward. It reports false
	// when the lease is no longer ours.
	Extend(ctx context.Context) (bool, error)
	Release(ctx context.Context) error
}
