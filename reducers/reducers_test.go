package reducers_test

import (
	"testing"

	"github.com/delaneyj/batchparty/reducers"
	"github.com/delaneyj/batchparty/statestore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type namedRef string

func (n namedRef) Name() string { return string(n) }

func counter(actionType string) statestore.Reducer {
	return reducers.Typed(0, func(n int, a statestore.Action) int {
		if a.Type == actionType {
			return n + 1
		}
		return n
	})
}

func TestSame(t *testing.T) {
	m := map[string]int{"a": 1}
	s := []int{1, 2, 3}
	p := &struct{}{}

	assert.True(t, reducers.Same(nil, nil))
	assert.False(t, reducers.Same(nil, 0))
	assert.True(t, reducers.Same(1, 1))
	assert.False(t, reducers.Same(1, int64(1)))
	assert.True(t, reducers.Same("x", "x"))
	assert.True(t, reducers.Same(m, m))
	assert.False(t, reducers.Same(m, map[string]int{"a": 1}))
	assert.True(t, reducers.Same(s, s))
	assert.False(t, reducers.Same(s, s[:2]))
	assert.True(t, reducers.Same(p, p))
	assert.False(t, reducers.Same(p, &struct{}{}))
	assert.True(t, reducers.Same(struct{ A int }{1}, struct{ A int }{1}))
	// interface fields holding uncomparable values never panic
	assert.False(t, reducers.Same(struct{ A any }{s}, struct{ A any }{s}))
}

// the change hook fires once per invocation that changed the slice
func TestDecorateFiresOnChange(t *testing.T) {
	changes := 0
	r := reducers.Decorate(counter("inc"), reducers.Decoration{OnChange: func() { changes++ }})

	state := r(nil, statestore.InitAction)
	assert.Equal(t, 1, changes)

	state = r(state, statestore.Action{Type: "other"})
	assert.Equal(t, 1, changes)

	state = r(state, statestore.Action{Type: "inc"})
	assert.Equal(t, 2, changes)
	assert.Equal(t, 1, state)
}

// a scoped leaf ignores actions tagged for another module without running
func TestDecorateScopesActions(t *testing.T) {
	runs := 0
	leaf := func(state any, a statestore.Action) any {
		runs++
		return counter("inc")(state, a)
	}
	r := reducers.Decorate(leaf, reducers.Decoration{Tag: reducers.Tag("a"), ScopeActions: true})

	assert.Equal(t, 5, r(5, reducers.Scoped("b", statestore.Action{Type: "inc"})))
	assert.Equal(t, 0, runs)
	assert.Equal(t, 6, r(5, reducers.Scoped("a", statestore.Action{Type: "inc"})))
	assert.Equal(t, 7, r(6, statestore.Action{Type: "inc"}))
	assert.Equal(t, 2, runs)
}

func TestTagStable(t *testing.T) {
	assert.Equal(t, reducers.Tag("todos"), reducers.Tag("todos"))
	assert.NotEqual(t, reducers.Tag("todos"), reducers.Tag("users"))
	assert.NotZero(t, reducers.Tag(""))
}

// combine keeps the previous map when no key changed
func TestCombinePreservesIdentity(t *testing.T) {
	r := reducers.Combine(map[string]statestore.Reducer{
		"a": counter("incA"),
		"b": counter("incB"),
	})

	first := r(nil, statestore.InitAction)
	second := r(first, statestore.Action{Type: "noop"})
	assert.True(t, reducers.Same(first, second))

	third := r(second, statestore.Action{Type: "incB"})
	assert.False(t, reducers.Same(second, third))
	assert.Equal(t, statestore.State{"a": 0, "b": 1}, third)
}

// each contribution reports on its own channel
func TestComposeRoutesNotifications(t *testing.T) {
	broadcasts := 0
	var observed []string

	root, err := reducers.Compose(map[string][]reducers.Contribution{
		"m": {
			{
				Factory: func() map[string]statestore.Reducer {
					return map[string]statestore.Reducer{"plain": counter("incPlain")}
				},
				Scope: reducers.Broadcasting,
			},
			{
				Factory: func() map[string]statestore.Reducer {
					return map[string]statestore.Reducer{"x": counter("incX"), "x2": counter("incX")}
				},
				Scope:      reducers.Observable,
				Observable: namedRef("x"),
			},
		},
	}, reducers.Options{
		BroadcastNotify:  func() { broadcasts++ },
		ObservableNotify: func(o reducers.ObservableRef) { observed = append(observed, o.Name()) },
	})
	require.NoError(t, err)

	state := root(nil, statestore.InitAction)
	broadcasts, observed = 0, nil

	state = root(state, statestore.Action{Type: "incX"})
	assert.Equal(t, 0, broadcasts)
	// two leaves changed, two notifications
	assert.Equal(t, []string{"x", "x"}, observed)

	root(state, statestore.Action{Type: "incPlain"})
	assert.Equal(t, 1, broadcasts)
	assert.Len(t, observed, 2)
}

func TestComposeMissingObservable(t *testing.T) {
	_, err := reducers.Compose(map[string][]reducers.Contribution{
		"m": {{
			Factory: func() map[string]statestore.Reducer { return nil },
			Scope:   reducers.Observable,
		}},
	}, reducers.Options{})
	assert.ErrorIs(t, err, reducers.ErrMissingObservable)
}

func TestComposeDuplicateSlice(t *testing.T) {
	factory := func() map[string]statestore.Reducer {
		return map[string]statestore.Reducer{"n": counter("inc")}
	}
	_, err := reducers.Compose(map[string][]reducers.Contribution{
		"m": {{Factory: factory}, {Factory: factory}},
	}, reducers.Options{})
	assert.ErrorIs(t, err, reducers.ErrDuplicateSlice)
}

// scoped composition leaves other modules' slices untouched
func TestComposeScoping(t *testing.T) {
	factory := func() map[string]statestore.Reducer {
		return map[string]statestore.Reducer{"n": counter("inc")}
	}
	root, err := reducers.Compose(map[string][]reducers.Contribution{
		"a": {{Factory: factory}},
		"b": {{Factory: factory}},
	}, reducers.Options{ScopeActions: true})
	require.NoError(t, err)

	state := root(nil, statestore.InitAction).(statestore.State)
	state = root(state, reducers.Scoped("a", statestore.Action{Type: "inc"})).(statestore.State)

	assert.Equal(t, 1, state["a"].(statestore.State)["n"])
	assert.Equal(t, 0, state["b"].(statestore.State)["n"])
}
