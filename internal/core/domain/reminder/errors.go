package reminder

import "errors"

var (
	ErrReminderDoesNotExist  = errors.New("reminder does not exist")
	ErrReminderMessageEmpty  = errors.New("reminder message is empty")
	ErrReminderTriggerNotSet = errors.New("reminder trigger time is not set")

	// ErrStoreUnavailable wraps every failure of the backing store.
	ErrStoreUnavailable = errors.New("reminder store is unavailable")

	// ErrTimeExpressionParsing is returned for malformed or out-of-range
	// time phrases.
	ErrTimeExpressionParsing = errors.New("could not parse time expression")

	ErrChannelNotConfigured = errors.New("notification channel is not configured")

	// ErrLeaseHeld means another scheduler instance owns the current cycle.
	ErrLeaseHeld = errors.New("scheduler lease is held by another instance")
	// ErrLeaseLost means the lease expired or was taken over mid-cycle.
	ErrLeaseLost = errors.New("scheduler lease was lost during the cycle")
)
