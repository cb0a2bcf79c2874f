package main

import (
	"fmt"
	"log/slog"

	"github.com/delaneyj/batchparty/batch"
	"github.com/delaneyj/batchparty/reducers"
	"github.com/delaneyj/batchparty/statestore"
)

const touchAction = "touch"

type workload struct {
	store       *batch.Store
	ticker      *batch.FrameTicker
	observables []*batch.Observable[int]
	notified    int64
	broadcasts  int64
}

func newWorkload(logger *slog.Logger, hooks batch.Hooks, observables int) (*workload, error) {
	w := &workload{ticker: batch.NewFrameTicker()}
	w.store = batch.New(
		batch.WithTicker(w.ticker),
		batch.WithLogger(logger),
		batch.WithHooks(hooks),
	)

	m := w.store.Module("bench")
	for i := 0; i < observables; i++ {
		key := fmt.Sprintf("slice%d", i)
		o, err := batch.ContributeObservableState(m, touchCounter(key, i), func(st statestore.State) int {
			n, _ := st[key].(int)
			return n
		})
		if err != nil {
			return nil, err
		}
		o.Subscribe(m, func(int) error {
			w.notified++
			return nil
		})
		w.observables = append(w.observables, o)
	}
	w.store.Subscribe(func() error {
		w.broadcasts++
		return nil
	})

	if err := w.store.Flush(batch.ExecutionImmediate); err != nil {
		return nil, err
	}
	w.notified, w.broadcasts = 0, 0
	return w, nil
}

func touchCounter(key string, index int) reducers.ReducerFactory {
	return func() map[string]statestore.Reducer {
		return map[string]statestore.Reducer{
			key: reducers.Typed(0, func(n int, a statestore.Action) int {
				if a.Type == touchAction && a.Payload == index {
					return n + 1
				}
				return n
			}),
		}
	}
}

func (w *workload) touch(index int) {
	w.store.Dispatch(statestore.Action{Type: touchAction, Payload: index})
}
