package schema

import "github.com/goliatone/go-formhost/pkg/validation"

// Owner is the stateful host a schema tree belongs to. Trees read the
// current and previous state of their fields through it.
type Owner interface {
	ID() string
	State(path string) any
	OldState(path string) any
}

// Tree is the capability a host needs from a schema tree: keying, component
// lookup by dotted key, state-update notification and validation hooks.
type Tree interface {
	Key() string
	SetKey(key string)
	// Component returns the component addressed by key. Absolute keys start
	// with the tree's own key. Nil when nothing matches.
	Component(key string, absolute bool) Component
	// CallAfterStateUpdated runs the hooks of the component bound to path and
	// reports whether any component handled it.
	CallAfterStateUpdated(path string) bool
	// MutateStateForValidation returns the state the validator should see.
	// Implementations must not mutate the input map.
	MutateStateForValidation(state map[string]any) map[string]any
	ValidationRules() validation.Rules
	ValidationAttributes() map[string]string
}

// Maker is implemented by tree types that can construct a fresh instance of
// themselves. Implementations use nil-safe pointer receivers so the zero
// value of a declared type can act as its factory.
type Maker interface {
	Make(owner Owner) Tree
}

// Component is a node addressable inside a tree.
type Component interface {
	Key() string
	// Method returns a named member of the component.
	Method(name string) (Method, bool)
}

// Method is a callable member of a component. Only exposed methods may be
// invoked from client input; renderless ones do not trigger a re-render.
type Method struct {
	Func       func(args ...any) (any, error)
	Exposed    bool
	Renderless bool
}
