// Package gate decides whether a dependent component acts on a notification.
package gate

// Gate wraps a props comparison with an optional shouldUpdate predicate. While
// the predicate is false the gate reports equal, but remembers any real change
// so that the first comparison after it turns true reports not equal.
type Gate[P any] struct {
	equal        func(prev, next P) bool
	shouldUpdate func(next P) bool

	hasPendingPropChanges bool
	lastEqual             bool
}

// New returns a gate over equal. A nil shouldUpdate makes the gate a plain
// pass-through to equal.
func New[P any](equal func(prev, next P) bool, shouldUpdate func(next P) bool) *Gate[P] {
	return &Gate[P]{equal: equal, shouldUpdate: shouldUpdate}
}

func (g *Gate[P]) Equal(prev, next P) bool {
	eq := g.equal(prev, next)

	switch {
	case g.shouldUpdate == nil:
	case !g.shouldUpdate(next):
		if !eq {
			g.hasPendingPropChanges = true
		}
		eq = true
	case g.hasPendingPropChanges:
		g.hasPendingPropChanges = false
		eq = false
	}

	g.lastEqual = eq
	return eq
}

func (g *Gate[P]) HasPendingPropChanges() bool {
	return g.hasPendingPropChanges
}

func (g *Gate[P]) LastEqual() bool {
	return g.lastEqual
}
