package batch

import (
	"sync"
	"time"
)

// Ticker arms the callback that starts a publish cycle. Schedule must not run
// fn synchronously, and the returned cancel must be safe to call any number of
// times, before or after fn ran.
type Ticker interface {
	Schedule(fn func() error) (cancel func())
}

// TimerTicker fires on a timer goroutine. Errors returned by the cycle have
// already been reported to the store's error handler.
type TimerTicker struct {
	Delay time.Duration
}

func (t TimerTicker) Schedule(fn func() error) func() {
	timer := time.AfterFunc(t.Delay, func() { _ = fn() })
	return func() { timer.Stop() }
}

type frameCallback struct {
	id uint64
	fn func() error
}

// FrameTicker queues callbacks until the host's render loop calls Frame.
type FrameTicker struct {
	mu     sync.Mutex
	nextID uint64
	queue  []frameCallback
}

func NewFrameTicker() *FrameTicker {
	return &FrameTicker{}
}

func (f *FrameTicker) Schedule(fn func() error) func() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	id := f.nextID
	f.queue = append(f.queue, frameCallback{id: id, fn: fn})

	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		for i, cb := range f.queue {
			if cb.id == id {
				f.queue = append(f.queue[:i:i], f.queue[i+1:]...)
				return
			}
		}
	}
}

// Frame runs every callback queued before the call and returns their errors.
// Callbacks scheduled while the frame runs wait for the next one.
func (f *FrameTicker) Frame() error {
	f.mu.Lock()
	queue := f.queue
	f.queue = nil
	f.mu.Unlock()

	errs := make([]error, 0, len(queue))
	for _, cb := range queue {
		errs = append(errs, cb.fn())
	}
	return joinErrs(errs...)
}

// Pending reports how many callbacks wait for the next frame.
func (f *FrameTicker) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue)
}
