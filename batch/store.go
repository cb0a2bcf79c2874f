package batch

import (
	"log/slog"
	"sync"
	"sync/atomic"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/delaneyj/batchparty/reducers"
	"github.com/delaneyj/batchparty/statestore"
)

// BroadcastChannel names the broadcast channel in hooks and errors.
const BroadcastChannel = "broadcast"

// Listener is a broadcast subscriber.
type Listener func() error

type Option func(*Store)

func WithStateStore(raw statestore.Store) Option {
	return func(s *Store) { s.raw = raw }
}

func WithTicker(t Ticker) Option {
	return func(s *Store) { s.ticker = t }
}

func WithHooks(h Hooks) Option {
	return func(s *Store) { s.hooks = h }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithOnError receives errors from cycles started by the ticker, which have no
// caller to return them to.
func WithOnError(fn func(error)) Option {
	return func(s *Store) { s.onError = fn }
}

// WithActionScoping makes reducers ignore actions tagged with another module.
func WithActionScoping(enabled bool) Option {
	return func(s *Store) { s.scopeActions = enabled }
}

type Store struct {
	raw          statestore.Store
	ticker       Ticker
	hooks        Hooks
	logger       *slog.Logger
	onError      func(error)
	scopeActions bool

	// scheduler state, guarded by mu
	mu               sync.Mutex
	pendingBroadcast bool
	dirty            mapset.Set[observer]
	dirtyOrder       []observer
	cancelTick       func()
	tickGen          uint64
	publishing       int
	isDeferring      bool
	pendingFlush     bool

	invalidating   atomic.Bool
	immediateDepth atomic.Int32

	listeners registry[Listener]

	// module wiring, guarded by modulesMu
	modulesMu     sync.Mutex
	modules       map[string]*Module
	contributions map[string][]reducers.Contribution
	observers     []observer
}

func New(opts ...Option) *Store {
	s := &Store{
		dirty:         mapset.NewThreadUnsafeSet[observer](),
		modules:       map[string]*Module{},
		contributions: map[string][]reducers.Contribution{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.raw == nil {
		s.raw = statestore.New(nil)
	}
	if s.ticker == nil {
		s.ticker = TimerTicker{}
	}
	if s.logger == nil {
		s.logger = discardLogger()
	}
	return s
}

func (s *Store) Dispatch(action statestore.Action) {
	s.raw.Dispatch(action)
}

func (s *Store) GetState() statestore.State {
	return s.raw.GetState()
}

// Subscribe registers a broadcast subscriber. Subscribers run in registration
// order once per publish cycle.
func (s *Store) Subscribe(listener Listener) (unsubscribe func()) {
	return s.listeners.add(nil, listener)
}

// SubscribeImmediate registers directly on the wrapped store, so listener runs
// synchronously after every dispatch, before any publish cycle. While it runs,
// Observable.Current fails with ErrUnsafeRead on every goroutine if
// notifications are pending.
func (s *Store) SubscribeImmediate(listener func()) (unsubscribe func()) {
	return s.raw.Subscribe(func() {
		s.immediateDepth.Add(1)
		defer s.immediateDepth.Add(-1)
		listener()
	})
}

// IsInvalidatingDerivedCache reports whether a transaction started with
// WithInvalidateDerivedCache is running or publishing.
func (s *Store) IsInvalidatingDerivedCache() bool {
	return s.invalidating.Load()
}

func (s *Store) insideImmediate() bool {
	return s.immediateDepth.Load() > 0
}

func (s *Store) reportError(err error) {
	s.logger.Error("publish cycle failed", "err", err)
	if s.onError != nil {
		s.onError(err)
	}
}
