// Package batch coalesces state store mutations into notification cycles.
//
// A Store wraps a reducer driven statestore.Store. Modules contribute reducers
// through Module.ContributeState and ContributeObservableState; every leaf
// reducer is decorated so that a changed slice marks the scheduler dirty.
//
// # Channels
//
// Broadcast subscribers (Store.Subscribe) hear about any relevant change.
// Observables (ContributeObservableState) are notified only when their own
// slices change, and always before broadcast subscribers in the same cycle.
//
// # Scheduling
//
// Marks arm a tick on the injected Ticker. The tick, or an explicit Flush,
// runs one publish cycle:
//
//	store.Dispatch(statestore.Action{Type: "add"})
//	store.Dispatch(statestore.Action{Type: "add"})
//	_ = store.Flush(batch.ExecutionDefault) // one cycle for both
//
// # Transactions
//
// Defer suppresses notifications until the outermost unit of work returns,
// even when it fails:
//
//	n, err := batch.Defer(ctx, store, func(ctx context.Context) (int, error) {
//		store.Dispatch(a)
//		store.Dispatch(b)
//		return 2, nil
//	})
package batch
