package batch

import (
	"fmt"
	"slices"

	"github.com/delaneyj/batchparty/reducers"
	"github.com/delaneyj/batchparty/statestore"
)

// Module is the handle one module uses to contribute state and own
// subscriptions. Modules live as long as their Store.
type Module struct {
	store *Store
	name  string
	tag   statestore.ModuleTag
}

// Module returns the handle for name, creating it on first use.
func (s *Store) Module(name string) *Module {
	s.modulesMu.Lock()
	defer s.modulesMu.Unlock()

	if m, ok := s.modules[name]; ok {
		return m
	}
	m := &Module{store: s, name: name, tag: reducers.Tag(name)}
	s.modules[name] = m
	return m
}

func (m *Module) Name() string {
	return m.name
}

func (m *Module) Tag() statestore.ModuleTag {
	return m.tag
}

// State returns this module's slice of the latest state.
func (m *Module) State() statestore.State {
	st, _ := m.store.GetState()[m.name].(statestore.State)
	return st
}

// Dispatch tags action with this module before dispatching it.
func (m *Module) Dispatch(action statestore.Action) {
	action.Scope = m.tag
	m.store.Dispatch(action)
}

// ContributeState adds reducers whose changes go to broadcast subscribers.
func (m *Module) ContributeState(factory reducers.ReducerFactory) error {
	return m.store.contribute(m, reducers.Contribution{
		Factory: factory,
		Scope:   reducers.Broadcasting,
	}, nil)
}

// ContributeObservableState adds reducers whose changes notify the returned
// Observable, which projects this module's state through selector.
func ContributeObservableState[T any](m *Module, factory reducers.ReducerFactory, selector func(statestore.State) T) (*Observable[T], error) {
	s := m.store

	s.modulesMu.Lock()
	n := len(s.contributions[m.name])
	s.modulesMu.Unlock()

	o := &Observable[T]{
		name:     fmt.Sprintf("%s#%d", m.name, n),
		module:   m,
		selector: selector,
	}
	err := s.contribute(m, reducers.Contribution{
		Factory:    factory,
		Scope:      reducers.Observable,
		Observable: o,
	}, o)
	if err != nil {
		return nil, err
	}
	return o, nil
}

// ReleaseSubscriptions removes every observable subscription owned by m.
func (m *Module) ReleaseSubscriptions() {
	s := m.store

	s.modulesMu.Lock()
	observers := slices.Clone(s.observers)
	s.modulesMu.Unlock()

	for _, o := range observers {
		o.releaseOwner(m)
	}
}

func (s *Store) contribute(m *Module, c reducers.Contribution, o observer) error {
	s.modulesMu.Lock()
	s.contributions[m.name] = append(s.contributions[m.name], c)

	root, err := reducers.Compose(s.contributions, reducers.Options{
		BroadcastNotify:  s.broadcastNotify,
		ObservableNotify: s.observableNotify,
		ScopeActions:     s.scopeActions,
	})
	if err != nil {
		// roll back so the store keeps its previous reducer
		contributions := s.contributions[m.name]
		if len(contributions) == 1 {
			delete(s.contributions, m.name)
		} else {
			s.contributions[m.name] = contributions[:len(contributions)-1]
		}
		s.modulesMu.Unlock()
		return fmt.Errorf("contribute state: %w", err)
	}
	if o != nil {
		s.observers = append(s.observers, o)
	}
	s.modulesMu.Unlock()

	s.logger.Debug("state contributed", "module", m.name, "scope", c.Scope.String())
	s.raw.ReplaceReducer(root)
	return nil
}
