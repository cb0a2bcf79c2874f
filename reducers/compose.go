package reducers

import (
	"errors"
	"fmt"
	"slices"

	"github.com/delaneyj/batchparty/statestore"
)

var (
	ErrMissingObservable = errors.New("reducers: observable scoped contribution has no observable")
	ErrDuplicateSlice    = errors.New("reducers: slice contributed twice")
)

// Scope selects the notification channel a contribution reports changes on.
type Scope uint8

const (
	Broadcasting Scope = iota
	Observable
)

func (s Scope) String() string {
	switch s {
	case Broadcasting:
		return "broadcasting"
	case Observable:
		return "observable"
	default:
		return fmt.Sprintf("Scope(%d)", uint8(s))
	}
}

// ObservableRef is the observable an observable scoped contribution feeds.
type ObservableRef interface {
	Name() string
}

type ReducerFactory func() map[string]statestore.Reducer

type Contribution struct {
	Factory    ReducerFactory
	Scope      Scope
	Observable ObservableRef
}

type Options struct {
	BroadcastNotify  func()
	ObservableNotify func(ObservableRef)

	// ScopeActions makes every leaf ignore actions tagged with another module.
	ScopeActions bool
}

type Decoration struct {
	OnChange     func()
	Tag          statestore.ModuleTag
	ScopeActions bool
}

// Decorate wraps a leaf reducer. OnChange fires once for every invocation whose
// result is not the Same as the previous slice.
func Decorate(reducer statestore.Reducer, d Decoration) statestore.Reducer {
	return func(state any, action statestore.Action) any {
		if d.ScopeActions && action.Scope != 0 && action.Scope != d.Tag {
			return state
		}
		next := reducer(state, action)
		if d.OnChange != nil && !Same(state, next) {
			d.OnChange()
		}
		return next
	}
}

// Combine builds a reducer over a State from one reducer per key. The previous
// State is returned untouched when no key changed.
func Combine(reducers map[string]statestore.Reducer) statestore.Reducer {
	keys := make([]string, 0, len(reducers))
	for k := range reducers {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	return func(state any, action statestore.Action) any {
		prev, _ := state.(statestore.State)
		next := make(statestore.State, len(keys))
		changed := prev == nil || len(prev) != len(keys)

		for _, k := range keys {
			before := prev[k]
			after := reducers[k](before, action)
			next[k] = after
			if !Same(before, after) {
				changed = true
			}
		}

		if !changed {
			return prev
		}
		return next
	}
}

// Compose builds the root reducer from per module contributions.
func Compose(modules map[string][]Contribution, opts Options) (statestore.Reducer, error) {
	root := make(map[string]statestore.Reducer, len(modules))

	for module, contributions := range modules {
		tag := Tag(module)
		leaves := map[string]statestore.Reducer{}

		for _, c := range contributions {
			onChange, err := changeHook(c, opts)
			if err != nil {
				return nil, fmt.Errorf("module %q: %w", module, err)
			}
			for key, leaf := range c.Factory() {
				if _, exists := leaves[key]; exists {
					return nil, fmt.Errorf("module %q slice %q: %w", module, key, ErrDuplicateSlice)
				}
				leaves[key] = Decorate(leaf, Decoration{
					OnChange:     onChange,
					Tag:          tag,
					ScopeActions: opts.ScopeActions,
				})
			}
		}

		root[module] = Combine(leaves)
	}

	return Combine(root), nil
}

func changeHook(c Contribution, opts Options) (func(), error) {
	switch c.Scope {
	case Broadcasting:
		return opts.BroadcastNotify, nil
	case Observable:
		if c.Observable == nil {
			return nil, ErrMissingObservable
		}
		if opts.ObservableNotify == nil {
			return nil, nil
		}
		o := c.Observable
		return func() { opts.ObservableNotify(o) }, nil
	default:
		return nil, fmt.Errorf("unknown scope %s", c.Scope)
	}
}
