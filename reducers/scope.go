package reducers

import (
	"github.com/cespare/xxhash/v2"
	"github.com/delaneyj/batchparty/statestore"
)

// Tag returns the stable identity used to scope actions to a module.
func Tag(module string) statestore.ModuleTag {
	tag := statestore.ModuleTag(xxhash.Sum64String(module))
	if tag == 0 {
		// zero means "unscoped"
		tag = 1
	}
	return tag
}

// Scoped tags action with the module identity.
func Scoped(module string, action statestore.Action) statestore.Action {
	action.Scope = Tag(module)
	return action
}

// Typed adapts a reducer over a concrete slice type. A missing or mistyped
// previous state is replaced with initial.
func Typed[S any](initial S, fn func(S, statestore.Action) S) statestore.Reducer {
	return func(state any, action statestore.Action) any {
		s, ok := state.(S)
		if !ok {
			s = initial
		}
		return fn(s, action)
	}
}
