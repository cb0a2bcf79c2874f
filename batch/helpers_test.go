package batch_test

import (
	"testing"

	"github.com/delaneyj/batchparty/batch"
	"github.com/delaneyj/batchparty/reducers"
	"github.com/delaneyj/batchparty/statestore"
	"github.com/stretchr/testify/require"
)

var (
	incPlain = statestore.Action{Type: "incPlain"}
	incX     = statestore.Action{Type: "incX"}
	incY     = statestore.Action{Type: "incY"}
	noop     = statestore.Action{Type: "noop"}
)

func counterFactory(key, actionType string) reducers.ReducerFactory {
	return func() map[string]statestore.Reducer {
		return map[string]statestore.Reducer{
			key: reducers.Typed(0, func(n int, a statestore.Action) int {
				if a.Type == actionType {
					return n + 1
				}
				return n
			}),
		}
	}
}

func intSlice(key string) func(statestore.State) int {
	return func(st statestore.State) int {
		n, _ := st[key].(int)
		return n
	}
}

type fixture struct {
	store  *batch.Store
	ticker *batch.FrameTicker
	x, y   *batch.Observable[int]
}

// newFixture builds a store with a broadcast slice "plain" and two observables
// x and y in module "m", and publishes the initial contributions.
func newFixture(t *testing.T, opts ...batch.Option) *fixture {
	t.Helper()

	ticker := batch.NewFrameTicker()
	store := batch.New(append([]batch.Option{batch.WithTicker(ticker)}, opts...)...)
	m := store.Module("m")

	require.NoError(t, m.ContributeState(counterFactory("plain", incPlain.Type)))
	x, err := batch.ContributeObservableState(m, counterFactory("x", incX.Type), intSlice("x"))
	require.NoError(t, err)
	y, err := batch.ContributeObservableState(m, counterFactory("y", incY.Type), intSlice("y"))
	require.NoError(t, err)

	require.NoError(t, store.Flush(batch.ExecutionImmediate))
	require.False(t, store.HasPendingSubscribers())
	require.Zero(t, ticker.Pending())

	return &fixture{store: store, ticker: ticker, x: x, y: y}
}

// record subscribes to o and returns every value it was notified with.
func record(o *batch.Observable[int]) *[]int {
	seen := &[]int{}
	o.Subscribe(nil, func(v int) error {
		*seen = append(*seen, v)
		return nil
	})
	return seen
}

func countBroadcasts(store *batch.Store) *int {
	n := new(int)
	store.Subscribe(func() error {
		*n++
		return nil
	})
	return n
}
