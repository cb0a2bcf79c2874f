package gate

import (
	"errors"
	"reflect"
	"sync"

	"github.com/delaneyj/batchparty/batch"
	"github.com/delaneyj/batchparty/statestore"
)

var (
	ErrInvalidConfig = errors.New("gate: MapState and Render are required")
	ErrUnmounted     = errors.New("gate: component is unmounted")
)

// Subscriber is the part of batch.Store a component needs.
type Subscriber interface {
	Subscribe(listener batch.Listener) (unsubscribe func())
	GetState() statestore.State
}

type Config[O, P any] struct {
	MapState func(state statestore.State, own O) P
	// Equal defaults to reflect.DeepEqual.
	Equal        func(prev, next P) bool
	ShouldUpdate func(own O) bool
	Render       func(props P) error
}

// Component is a headless connected component: it maps state and own props to
// props and renders whenever its gate reports a change.
type Component[O, P any] struct {
	store Subscriber
	cfg   Config[O, P]

	mu          sync.Mutex
	own         O
	props       P
	gate        *Gate[P]
	renders     int
	unsubscribe func()
}

// Mount renders once with the current state and subscribes to the broadcast
// channel.
func Mount[O, P any](store Subscriber, own O, cfg Config[O, P]) (*Component[O, P], error) {
	if cfg.MapState == nil || cfg.Render == nil {
		return nil, ErrInvalidConfig
	}
	if cfg.Equal == nil {
		cfg.Equal = func(prev, next P) bool { return reflect.DeepEqual(prev, next) }
	}

	c := &Component[O, P]{store: store, cfg: cfg, own: own}

	var shouldUpdate func(P) bool
	if cfg.ShouldUpdate != nil {
		// called with c.mu held
		shouldUpdate = func(P) bool { return cfg.ShouldUpdate(c.own) }
	}
	c.gate = New(cfg.Equal, shouldUpdate)

	c.props = cfg.MapState(store.GetState(), own)
	c.renders++
	if err := cfg.Render(c.props); err != nil {
		return nil, err
	}

	c.unsubscribe = store.Subscribe(c.refresh)
	return c, nil
}

// Update replaces the own props and re-renders if the gate allows it.
func (c *Component[O, P]) Update(own O) error {
	c.mu.Lock()
	if c.unsubscribe == nil {
		c.mu.Unlock()
		return ErrUnmounted
	}
	c.own = own
	c.mu.Unlock()
	return c.refresh()
}

// Unmount drops the subscription and the gate memo. It is safe to call twice.
func (c *Component[O, P]) Unmount() {
	c.mu.Lock()
	unsubscribe := c.unsubscribe
	c.unsubscribe = nil
	c.gate = nil
	c.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

func (c *Component[O, P]) Props() P {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.props
}

func (c *Component[O, P]) Renders() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.renders
}

func (c *Component[O, P]) refresh() error {
	c.mu.Lock()
	if c.gate == nil {
		c.mu.Unlock()
		return nil
	}
	next := c.cfg.MapState(c.store.GetState(), c.own)
	if c.gate.Equal(c.props, next) {
		c.mu.Unlock()
		return nil
	}
	c.props = next
	c.renders++
	c.mu.Unlock()

	return c.cfg.Render(next)
}
