package statestore

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

var (
	ErrNotState        = errors.New("statestore: root reducer must return a State")
	ErrReducerDispatch = errors.New("statestore: dispatch while a reducer is running")
)

// Store is the reducer driven state container the notification core wraps.
type Store interface {
	GetState() State
	Dispatch(action Action)
	Subscribe(listener func()) (unsubscribe func())
	ReplaceReducer(reducer Reducer)
}

type listenerEntry struct {
	id uint64
	fn func()
}

type memoryStore struct {
	mu          sync.Mutex
	dispatching bool
	reducer     Reducer
	state     State
	nextID    uint64
	listeners []listenerEntry
}

// New creates an in-memory Store and initialises it with reducer.
func New(reducer Reducer) Store {
	s := &memoryStore{reducer: reducer}
	s.Dispatch(InitAction)
	return s
}

func (s *memoryStore) GetState() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispatch runs the reducer and then every listener. A Dispatch that arrives
// while a reducer is running panics with ErrReducerDispatch, whether it comes
// from the reducer itself or from another goroutine; callers dispatching from
// several goroutines must serialise. Listeners may dispatch.
func (s *memoryStore) Dispatch(action Action) {
	for _, l := range s.apply(action) {
		l.fn()
	}
}

func (s *memoryStore) apply(action Action) []listenerEntry {
	s.mu.Lock()
	if s.dispatching {
		s.mu.Unlock()
		panic(ErrReducerDispatch)
	}
	s.dispatching = true
	reducer, state := s.reducer, s.state
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.dispatching = false
		s.mu.Unlock()
	}()

	next := state
	if reducer != nil {
		var err error
		if next, err = reduce(reducer, state, action); err != nil {
			panic(err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = next
	return slices.Clone(s.listeners)
}

func (s *memoryStore) Subscribe(listener func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, listenerEntry{id: id, fn: listener})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, l := range s.listeners {
			if l.id == id {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

func (s *memoryStore) ReplaceReducer(reducer Reducer) {
	s.mu.Lock()
	s.reducer = reducer
	s.mu.Unlock()
	s.Dispatch(InitAction)
}

func reduce(reducer Reducer, state State, action Action) (State, error) {
	switch next := reducer(state, action).(type) {
	case nil:
		return nil, nil
	case State:
		return next, nil
	case map[string]any:
		return State(next), nil
	default:
		return nil, fmt.Errorf("%w, got %T", ErrNotState, next)
	}
}
