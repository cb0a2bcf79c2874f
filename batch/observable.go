package batch

import (
	"sync"

	"github.com/delaneyj/batchparty/statestore"
)

type observer interface {
	Name() string
	notify() error
	releaseOwner(owner *Module)
}

// Observable is a derived view over one module's state that is notified only
// when the slices it was contributed with change.
type Observable[T any] struct {
	name     string
	module   *Module
	selector func(statestore.State) T
	subs     registry[func(T) error]

	mu   sync.Mutex
	last T
}

func (o *Observable[T]) Name() string {
	return o.name
}

// Current computes the selector over the latest state. While any
// SubscribeImmediate listener is running and notifications are pending it
// fails with ErrUnsafeRead, since subscribers have not seen that state yet.
// The check is store-wide, not per goroutine: with TimerTicker a read from
// another goroutine during an immediate listener fails too. Such readers can
// use UnsafeCurrent.
func (o *Observable[T]) Current() (T, error) {
	s := o.module.store
	if s.insideImmediate() && s.HasPendingSubscribers() {
		var zero T
		return zero, ErrUnsafeRead
	}
	return o.UnsafeCurrent(), nil
}

// UnsafeCurrent is Current without the subscription check.
func (o *Observable[T]) UnsafeCurrent() T {
	return o.selector(o.module.State())
}

// Last returns the value handed to subscribers in the latest cycle.
func (o *Observable[T]) Last() T {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.last
}

// Subscribe registers cb under owner. Owner may be nil; otherwise
// owner.ReleaseSubscriptions removes cb along with the owner's other
// subscriptions.
func (o *Observable[T]) Subscribe(owner *Module, cb func(T) error) (unsubscribe func()) {
	return o.subs.add(owner, cb)
}

func (o *Observable[T]) SubscriberCount() int {
	return o.subs.count()
}

func (o *Observable[T]) notify() error {
	s := o.module.store

	// a failing selector skips this observable's subscribers only
	var value T
	err := guard(o.name, func() error {
		value = o.UnsafeCurrent()
		return nil
	})
	if err != nil {
		return err
	}

	o.mu.Lock()
	o.last = value
	o.mu.Unlock()

	var errs []error
	for _, cb := range o.subs.snapshot() {
		errs = append(errs, s.invoke(o.name, func() error {
			return cb(value)
		}))
	}
	return joinErrs(errs...)
}

func (o *Observable[T]) releaseOwner(owner *Module) {
	o.subs.removeOwner(owner)
}
