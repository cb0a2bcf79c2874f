package batch

import (
	"context"
	"time"
)

type deferConfig struct {
	invalidateCache bool
}

type DeferOption func(*deferConfig)

// WithInvalidateDerivedCache raises IsInvalidatingDerivedCache while the
// transaction runs and publishes.
func WithInvalidateDerivedCache() DeferOption {
	return func(c *deferConfig) { c.invalidateCache = true }
}

// Defer runs work with notifications suppressed. Only the outermost call
// publishes; nested calls simply run work. Whatever work dispatched is
// published even when it fails or panics, and its error or panic is passed on
// afterwards.
func Defer[T any](ctx context.Context, s *Store, work func(context.Context) (T, error), opts ...DeferOption) (result T, err error) {
	if err := ctx.Err(); err != nil {
		return result, err
	}

	cfg := deferConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	s.mu.Lock()
	if s.isDeferring {
		s.mu.Unlock()
		return work(ctx)
	}
	s.isDeferring = true
	hadPending := s.hasPendingLocked()
	s.disarmLocked()
	s.mu.Unlock()

	start := time.Now()
	s.hooks.transactionStart()
	if cfg.invalidateCache {
		s.invalidating.Store(true)
	}

	var priorErr error
	defer func() {
		r := recover()

		s.mu.Lock()
		s.isDeferring = false
		flush := s.pendingFlush || s.hasPendingLocked()
		s.pendingFlush = false
		s.disarmLocked()
		s.mu.Unlock()

		var publishErr error
		if flush {
			publishErr = s.publish()
		}
		if cfg.invalidateCache {
			s.invalidating.Store(false)
		}

		err = joinErrs(err, priorErr, publishErr)
		s.hooks.transactionEnd(time.Since(start), err)

		if r != nil {
			panic(r)
		}
	}()

	// changes made before the transaction are not held back by it
	if hadPending {
		priorErr = s.publish()
	}
	return work(ctx)
}

// DeferNotifications is Defer for work without a result.
func (s *Store) DeferNotifications(ctx context.Context, work func(context.Context) error, opts ...DeferOption) error {
	_, err := Defer(ctx, s, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, work(ctx)
	}, opts...)
	return err
}
