package leaseguard

import (
	"context"
	e "thursday/internal/core/domain/errors"
	"thursday/internal/core/domain/logging"
	"thursday/internal/core/domain/reminder"
	"thursday/internal/core/services"
)

type serviceWithLease[T any, S any] struct {
	log   logging.Logger
	lease reminder.Lease
	inner services.Service[T, S]
}

// WithLease runs inner only while holding lease. When another instance
// holds it the call returns reminder.ErrLeaseHeld without running inner.
func WithLease[T any, S any](
	log logging.Logger,
	lease reminder.Lease,
	inner services.Service[T, S],
) services.Service[T, S] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if lease == nil {
		panic(e.NewNilArgumentError("lease"))
	}
	if inner == nil {
		panic(e.NewNilArgumentError("inner"))
	}
	return &serviceWithLease[T, S]{
		log:   log,
		lease: lease,
		inner: inner,
	}
}

func (s *serviceWithLease[T, S]) Run(ctx context.Context, input T) (result S, err error) {
	acquired, err := s.lease.TryAcquire(ctx)
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("phase", "acquire_lease"))
		return result, err
	}
	if !acquired {
		s.log.Debug(ctx, "Lease is held by another instance.")
		return result, reminder.ErrLeaseHeld
	}
	defer func() {
		if err := s.lease.Release(context.WithoutCancel(ctx)); err != nil {
			logging.Error(ctx, s.log, err, logging.Entry("phase", "release_lease"))
		}
	}()

	return s.inner.Run(ctx, input)
}
