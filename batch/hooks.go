package batch

import "time"

// Hooks receives scheduler lifecycle events. Every field is optional.
type Hooks struct {
	OnCycleStart        func(observables int, broadcast bool)
	OnCycleEnd          func(elapsed time.Duration, err error)
	OnSubscriberInvoked func(channel string, elapsed time.Duration, err error)
	OnTransactionStart  func()
	OnTransactionEnd    func(elapsed time.Duration, err error)
}

func (h Hooks) cycleStart(observables int, broadcast bool) {
	if h.OnCycleStart != nil {
		h.OnCycleStart(observables, broadcast)
	}
}

func (h Hooks) cycleEnd(elapsed time.Duration, err error) {
	if h.OnCycleEnd != nil {
		h.OnCycleEnd(elapsed, err)
	}
}

func (h Hooks) subscriberInvoked(channel string, elapsed time.Duration, err error) {
	if h.OnSubscriberInvoked != nil {
		h.OnSubscriberInvoked(channel, elapsed, err)
	}
}

func (h Hooks) transactionStart() {
	if h.OnTransactionStart != nil {
		h.OnTransactionStart()
	}
}

func (h Hooks) transactionEnd(elapsed time.Duration, err error) {
	if h.OnTransactionEnd != nil {
		h.OnTransactionEnd(elapsed, err)
	}
}

// Merge returns hooks that call h and then other.
func (h Hooks) Merge(other Hooks) Hooks {
	return Hooks{
		OnCycleStart: func(observables int, broadcast bool) {
			h.cycleStart(observables, broadcast)
			other.cycleStart(observables, broadcast)
		},
		OnCycleEnd: func(elapsed time.Duration, err error) {
			h.cycleEnd(elapsed, err)
			other.cycleEnd(elapsed, err)
		},
		OnSubscriberInvoked: func(channel string, elapsed time.Duration, err error) {
			h.subscriberInvoked(channel, elapsed, err)
			other.subscriberInvoked(channel, elapsed, err)
		},
		OnTransactionStart: func() {
			h.transactionStart()
			other.transactionStart()
		},
		OnTransactionEnd: func(elapsed time.Duration, err error) {
			h.transactionEnd(elapsed, err)
			other.transactionEnd(elapsed, err)
		},
	}
}
