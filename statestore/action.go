package statestore

// ModuleTag identifies the module an action belongs to. The zero tag marks an
// action that any module may handle.
type ModuleTag uint64

// Action is an immutable description of a state transition.
type Action struct {
	Type    string
	Payload any
	Scope   ModuleTag
}

// InitAction is dispatched whenever the reducer is replaced so freshly
// contributed slices can produce their initial value.
var InitAction = Action{Type: "@@batchparty/INIT"}

// State is the shape of the root state and of every module slice.
type State map[string]any

// Reducer maps the previous state and an action to the next state. A nil state
// asks the reducer for its initial value.
type Reducer func(state any, action Action) any
