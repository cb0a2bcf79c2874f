package batch

import (
	"fmt"
	"runtime/debug"
	"time"

	"github.com/delaneyj/batchparty/reducers"
)

type Phase uint8

const (
	PhaseIdle Phase = iota
	PhasePending
	PhaseScheduled
	PhasePublishing
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePending:
		return "pending"
	case PhaseScheduled:
		return "scheduled"
	case PhasePublishing:
		return "publishing"
	default:
		return fmt.Sprintf("Phase(%d)", uint8(p))
	}
}

type ExecutionType uint8

const (
	// ExecutionDefault publishes now unless a transaction is open, in which
	// case the flush runs when the transaction ends.
	ExecutionDefault ExecutionType = iota
	// ExecutionScheduled publishes only if a tick is armed, in place of it.
	ExecutionScheduled
	// ExecutionImmediate publishes now, even inside a transaction.
	ExecutionImmediate
)

func (e ExecutionType) String() string {
	switch e {
	case ExecutionDefault:
		return "default"
	case ExecutionScheduled:
		return "scheduled"
	case ExecutionImmediate:
		return "immediate"
	default:
		return fmt.Sprintf("ExecutionType(%d)", uint8(e))
	}
}

func (s *Store) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.publishing > 0:
		return PhasePublishing
	case s.cancelTick != nil:
		return PhaseScheduled
	case s.hasPendingLocked():
		return PhasePending
	default:
		return PhaseIdle
	}
}

func (s *Store) HasPendingSubscribers() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasPendingLocked()
}

func (s *Store) hasPendingLocked() bool {
	return s.pendingBroadcast || len(s.dirtyOrder) > 0
}

func (s *Store) Flush(exec ExecutionType) error {
	s.mu.Lock()
	switch exec {
	case ExecutionScheduled:
		if s.cancelTick == nil {
			s.mu.Unlock()
			return nil
		}
	case ExecutionDefault:
		if s.isDeferring {
			s.pendingFlush = true
			s.mu.Unlock()
			return nil
		}
	}
	s.disarmLocked()
	s.mu.Unlock()

	return s.publish()
}

func (s *Store) broadcastNotify() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pendingBroadcast = true
	s.armLocked()
}

func (s *Store) observableNotify(ref reducers.ObservableRef) {
	o, ok := ref.(observer)
	if !ok {
		panic(fmt.Errorf("%w: %s", ErrUnknownTarget, ref.Name()))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dirty.Add(o) {
		s.dirtyOrder = append(s.dirtyOrder, o)
	}
	s.armLocked()
}

func (s *Store) armLocked() {
	if s.isDeferring || s.cancelTick != nil {
		return
	}
	s.tickGen++
	gen := s.tickGen
	s.cancelTick = s.ticker.Schedule(func() error {
		return s.tick(gen)
	})
}

func (s *Store) disarmLocked() {
	if s.cancelTick != nil {
		s.cancelTick()
		s.cancelTick = nil
	}
}

func (s *Store) tick(gen uint64) error {
	s.mu.Lock()
	if s.cancelTick == nil || s.tickGen != gen {
		// canceled, or superseded by a flush
		s.mu.Unlock()
		return nil
	}
	s.cancelTick = nil
	s.mu.Unlock()

	err := s.publish()
	if err != nil {
		s.reportError(err)
	}
	return err
}

// publish runs one cycle. The pending set is detached before any subscriber
// runs, so changes made by subscribers arm a follow-up cycle.
func (s *Store) publish() error {
	s.mu.Lock()
	broadcast := s.pendingBroadcast
	observers := s.dirtyOrder
	s.pendingBroadcast = false
	s.dirtyOrder = nil
	s.dirty.Clear()
	s.publishing++
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.publishing--
		s.mu.Unlock()
	}()

	if !broadcast && len(observers) == 0 {
		return nil
	}

	start := time.Now()
	s.hooks.cycleStart(len(observers), broadcast)
	s.logger.Debug("publish cycle started", "observables", len(observers), "broadcast", broadcast)

	var errs []error
	for _, o := range observers {
		errs = append(errs, o.notify())
	}
	for _, l := range s.listeners.snapshot() {
		errs = append(errs, s.invoke(BroadcastChannel, l))
	}

	err := joinErrs(errs...)
	elapsed := time.Since(start)
	s.hooks.cycleEnd(elapsed, err)
	s.logger.Debug("publish cycle finished", "elapsed", elapsed, "failed", err != nil)
	return err
}

// invoke runs one subscriber and reports it to the hooks.
func (s *Store) invoke(channel string, fn func() error) error {
	start := time.Now()
	err := guard(channel, fn)
	s.hooks.subscriberInvoked(channel, time.Since(start), err)
	return err
}

// guard turns a panic in fn into a SubscriberPanic so the rest of the cycle
// still runs.
func guard(channel string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &SubscriberPanic{Channel: channel, Value: r, Stack: debug.Stack()}
		}
	}()

	if err := fn(); err != nil {
		return fmt.Errorf("%s subscriber: %w", channel, err)
	}
	return nil
}
