package batch_test

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/delaneyj/batchparty/batch"
	"github.com/delaneyj/batchparty/statestore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pending flag is clear at rest, set by a broadcast change, cleared by a flush
func TestHasPendingSubscribers(t *testing.T) {
	f := newFixture(t)

	assert.False(t, f.store.HasPendingSubscribers())
	f.store.Dispatch(incPlain)
	assert.True(t, f.store.HasPendingSubscribers())
	require.NoError(t, f.store.Flush(batch.ExecutionDefault))
	assert.False(t, f.store.HasPendingSubscribers())
}

// a dispatch that changes nothing leaves nothing pending
func TestNoChangeNoNotification(t *testing.T) {
	f := newFixture(t)
	broadcasts := countBroadcasts(f.store)

	f.store.Dispatch(noop)

	assert.False(t, f.store.HasPendingSubscribers())
	assert.Zero(t, f.ticker.Pending())
	require.NoError(t, f.store.Flush(batch.ExecutionDefault))
	assert.Zero(t, *broadcasts)
}

// bursts of dispatches coalesce into one cycle per tick
func TestCoalescing(t *testing.T) {
	f := newFixture(t)
	xs := record(f.x)
	broadcasts := countBroadcasts(f.store)

	f.store.Dispatch(incX)
	f.store.Dispatch(incX)
	f.store.Dispatch(incPlain)
	f.store.Dispatch(incX)
	assert.Equal(t, 1, f.ticker.Pending())

	require.NoError(t, f.ticker.Frame())
	assert.Equal(t, []int{3}, *xs)
	assert.Equal(t, 1, *broadcasts)

	f.store.Dispatch(incPlain)
	f.store.Dispatch(noop)
	require.NoError(t, f.ticker.Frame())
	assert.Equal(t, []int{3}, *xs)
	assert.Equal(t, 2, *broadcasts)
}

// scheduled flush does nothing without an armed tick
func TestFlushScheduledWithoutTick(t *testing.T) {
	cycles := 0
	f := newFixture(t, batch.WithHooks(batch.Hooks{
		OnCycleStart: func(int, bool) { cycles++ },
	}))
	cycles = 0

	require.NoError(t, f.store.Flush(batch.ExecutionScheduled))
	assert.Zero(t, cycles)
}

// scheduled flush replaces the armed tick with one cycle
func TestFlushScheduledRunsArmedTick(t *testing.T) {
	cycles := 0
	f := newFixture(t, batch.WithHooks(batch.Hooks{
		OnCycleStart: func(int, bool) { cycles++ },
	}))
	cycles = 0
	xs := record(f.x)

	f.store.Dispatch(incX)
	require.Equal(t, 1, f.ticker.Pending())

	require.NoError(t, f.store.Flush(batch.ExecutionScheduled))
	assert.Equal(t, 1, cycles)
	assert.Equal(t, []int{1}, *xs)
	assert.Zero(t, f.ticker.Pending())

	require.NoError(t, f.ticker.Frame())
	assert.Equal(t, 1, cycles)
}

// observables are notified before broadcast subscribers
func TestObservablesBeforeBroadcast(t *testing.T) {
	f := newFixture(t)

	var order []string
	f.store.Subscribe(func() error {
		order = append(order, "broadcast")
		return nil
	})
	f.y.Subscribe(nil, func(int) error {
		order = append(order, "y")
		return nil
	})
	f.x.Subscribe(nil, func(int) error {
		order = append(order, "x")
		return nil
	})

	f.store.Dispatch(incY)
	f.store.Dispatch(incX)
	require.NoError(t, f.store.Flush(batch.ExecutionDefault))

	assert.Equal(t, []string{"y", "x", "broadcast"}, order)
}

// a failing subscriber does not stop the others and its error reaches the caller
func TestSubscriberErrorPropagates(t *testing.T) {
	f := newFixture(t)
	boom := errors.New("boom")

	f.store.Subscribe(func() error { return boom })
	broadcasts := countBroadcasts(f.store)
	xs := record(f.x)
	f.x.Subscribe(nil, func(int) error { panic("bad") })
	after := record(f.x)

	f.store.Dispatch(incX)
	err := f.store.Flush(batch.ExecutionDefault)

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	var p *batch.SubscriberPanic
	require.ErrorAs(t, err, &p)
	assert.Equal(t, "bad", p.Value)
	assert.Equal(t, f.x.Name(), p.Channel)

	assert.Equal(t, 1, *broadcasts)
	assert.Equal(t, []int{1}, *xs)
	assert.Equal(t, []int{1}, *after)
	assert.False(t, f.store.HasPendingSubscribers())
	assert.Equal(t, batch.PhaseIdle, f.store.Phase())
}

// errors from a ticked cycle go to the error handler and back to the frame
func TestTickErrorReported(t *testing.T) {
	var reported []error
	f := newFixture(t, batch.WithOnError(func(err error) { reported = append(reported, err) }))
	boom := errors.New("boom")
	f.store.Subscribe(func() error { return boom })

	f.store.Dispatch(incPlain)
	err := f.ticker.Frame()

	assert.ErrorIs(t, err, boom)
	require.Len(t, reported, 1)
	assert.ErrorIs(t, reported[0], boom)
}

func TestPhases(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, batch.PhaseIdle, f.store.Phase())

	var during batch.Phase
	f.store.Subscribe(func() error {
		during = f.store.Phase()
		return nil
	})

	f.store.Dispatch(incPlain)
	assert.Equal(t, batch.PhaseScheduled, f.store.Phase())

	require.NoError(t, f.ticker.Frame())
	assert.Equal(t, batch.PhasePublishing, during)
	assert.Equal(t, batch.PhaseIdle, f.store.Phase())
}

// changes made by subscribers are published in a follow-up cycle
func TestChangesDuringPublishFollowUp(t *testing.T) {
	f := newFixture(t)
	xs := record(f.x)

	once := false
	f.store.Subscribe(func() error {
		if !once {
			once = true
			f.store.Dispatch(incX)
		}
		return nil
	})

	f.store.Dispatch(incPlain)
	require.NoError(t, f.ticker.Frame())
	assert.Empty(t, *xs)
	assert.True(t, f.store.HasPendingSubscribers())
	assert.Equal(t, 1, f.ticker.Pending())

	require.NoError(t, f.ticker.Frame())
	assert.Equal(t, []int{1}, *xs)
}

// the timer ticker publishes on its own
func TestTimerTickerPublishes(t *testing.T) {
	f := newFixture(t, batch.WithTicker(batch.TimerTicker{Delay: 20 * time.Millisecond}))

	var broadcasts atomic.Int32
	f.store.Subscribe(func() error {
		broadcasts.Add(1)
		return nil
	})

	f.store.Dispatch(incX)
	f.store.Dispatch(incX)

	require.Eventually(t, func() bool {
		return broadcasts.Load() == 1 && !f.store.HasPendingSubscribers()
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 2, f.x.Last())
}

// a panicking selector fails its own observable and the cycle carries on
func TestSelectorPanicRecovered(t *testing.T) {
	f := newFixture(t)
	m := f.store.Module("m")
	bad, err := batch.ContributeObservableState(m, counterFactory("bad", "incBad"), func(st statestore.State) int {
		if n, _ := st["bad"].(int); n > 0 {
			panic("selector")
		}
		return 0
	})
	require.NoError(t, err)
	require.NoError(t, f.store.Flush(batch.ExecutionImmediate))

	badCalls := 0
	bad.Subscribe(nil, func(int) error {
		badCalls++
		return nil
	})
	xs := record(f.x)
	broadcasts := countBroadcasts(f.store)

	f.store.Dispatch(statestore.Action{Type: "incBad"})
	f.store.Dispatch(incX)
	err = f.store.Flush(batch.ExecutionDefault)

	var p *batch.SubscriberPanic
	require.ErrorAs(t, err, &p)
	assert.Equal(t, "selector", p.Value)
	assert.Equal(t, bad.Name(), p.Channel)
	assert.Zero(t, badCalls)
	assert.Equal(t, []int{1}, *xs)
	assert.Equal(t, 1, *broadcasts)
	assert.Equal(t, batch.PhaseIdle, f.store.Phase())
}
