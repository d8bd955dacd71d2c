package schema

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formhost/internal/datapath"
	"github.com/goliatone/go-formhost/internal/naming"
	"github.com/goliatone/go-formhost/pkg/validation"
)

var (
	strictPolicy = bluemonday.StrictPolicy()
	ugcPolicy    = bluemonday.UGCPolicy()
)

// Field is a component of a schema tree. Stateful fields bind to a state
// path; groups only contribute to component keys.
type Field struct {
	name      string
	label     string
	stateful  bool
	rules     []validation.Rule
	sanitizer *bluemonday.Policy
	mutators  []func(value any) any
	hooks     []func(field *Field, state, old any)
	methods   map[string]Method
	children  []*Field
	parent    *Field
	container *Container
}

var _ Component = (*Field)(nil)

// NewField constructs a stateful field bound to name under its parent.
func NewField(name string) *Field {
	return &Field{name: strings.TrimSpace(name), stateful: true}
}

// NewGroup constructs a layout group. Children keep the group key in their
// component key but not in their state path.
func NewGroup(key string, children ...*Field) *Field {
	group := &Field{name: strings.TrimSpace(key)}
	return group.Schema(children...)
}

// Name returns the field name.
func (f *Field) Name() string { return f.name }

// IsGroup reports whether the field is a stateless layout group.
func (f *Field) IsGroup() bool { return !f.stateful }

// Label returns the explicit label or one derived from the name.
func (f *Field) Label() string {
	if f.label != "" {
		return f.label
	}
	return naming.Label(f.name)
}

// SetLabel overrides the derived label.
func (f *Field) SetLabel(label string) *Field {
	f.label = strings.TrimSpace(label)
	return f
}

// AddRules appends validation rules.
func (f *Field) AddRules(rules ...validation.Rule) *Field {
	f.rules = append(f.rules, rules...)
	return f
}

// Required appends the required rule.
func (f *Field) Required() *Field {
	return f.AddRules(validation.Required())
}

// Rules returns a copy of the field rules.
func (f *Field) Rules() []validation.Rule {
	return append([]validation.Rule(nil), f.rules...)
}

// Sanitize strips all markup from string state before validation.
func (f *Field) Sanitize() *Field {
	f.sanitizer = strictPolicy
	return f
}

// SanitizeHTML keeps user-generated-content safe markup and strips the rest
// before validation.
func (f *Field) SanitizeHTML() *Field {
	f.sanitizer = ugcPolicy
	return f
}

// MutateForValidation registers a transform applied to the field state
// before validation. Transforms run after sanitising, in registration order.
func (f *Field) MutateForValidation(fn func(value any) any) *Field {
	if fn != nil {
		f.mutators = append(f.mutators, fn)
	}
	return f
}

// AfterStateUpdated registers a hook called when the host reports an update
// to the field state path.
func (f *Field) AfterStateUpdated(fn func(field *Field, state, old any)) *Field {
	if fn != nil {
		f.hooks = append(f.hooks, fn)
	}
	return f
}

// Schema nests child fields.
func (f *Field) Schema(children ...*Field) *Field {
	for _, child := range children {
		if child == nil {
			continue
		}
		child.attach(f.container, f)
		f.children = append(f.children, child)
	}
	return f
}

// Children returns nested fields in declaration order.
func (f *Field) Children() []*Field {
	return append([]*Field(nil), f.children...)
}

// Define registers a method that cannot be called from client input.
func (f *Field) Define(name string, fn func(args ...any) (any, error)) *Field {
	return f.method(name, Method{Func: fn})
}

// Expose registers a method callable from client input.
func (f *Field) Expose(name string, fn func(args ...any) (any, error)) *Field {
	return f.method(name, Method{Func: fn, Exposed: true})
}

// ExposeRenderless registers a client-callable method that does not require
// the host to re-render.
func (f *Field) ExposeRenderless(name string, fn func(args ...any) (any, error)) *Field {
	return f.method(name, Method{Func: fn, Exposed: true, Renderless: true})
}

func (f *Field) method(name string, m Method) *Field {
	name = strings.TrimSpace(name)
	if name == "" || m.Func == nil {
		return f
	}
	if f.methods == nil {
		f.methods = make(map[string]Method)
	}
	f.methods[name] = m
	return f
}

// Method implements Component.
func (f *Field) Method(name string) (Method, bool) {
	m, ok := f.methods[name]
	return m, ok
}

// Key implements Component and returns the absolute key: the container key
// followed by every ancestor name.
func (f *Field) Key() string {
	prefix := ""
	if f.container != nil {
		prefix = f.container.key
	}
	return datapath.Join(prefix, f.relativeKey())
}

// StatePath returns the dotted state path the field is bound to. Groups
// return the path their children are scoped under.
func (f *Field) StatePath() string {
	if !f.stateful {
		return f.statePrefix()
	}
	return datapath.Join(f.statePrefix(), f.name)
}

// State returns the current owner state for the field.
func (f *Field) State() any {
	owner := f.owner()
	if owner == nil {
		return nil
	}
	return owner.State(f.StatePath())
}

func (f *Field) relativeKey() string {
	if f.parent == nil {
		return f.name
	}
	return datapath.Join(f.parent.relativeKey(), f.name)
}

func (f *Field) statePrefix() string {
	if f.parent != nil {
		return f.parent.StatePath()
	}
	if f.container != nil {
		return f.container.statePath
	}
	return ""
}

func (f *Field) owner() Owner {
	if f.container == nil {
		return nil
	}
	return f.container.owner
}

func (f *Field) attach(container *Container, parent *Field) {
	f.container = container
	f.parent = parent
	for _, child := range f.children {
		child.attach(container, f)
	}
}

func (f *Field) mutate(value any) any {
	if text, ok := value.(string); ok && f.sanitizer != nil {
		value = f.sanitizer.Sanitize(text)
	}
	for _, fn := range f.mutators {
		value = fn(value)
	}
	return value
}

func (f *Field) callAfterStateUpdated() {
	if len(f.hooks) == 0 {
		return
	}
	var state, old any
	if owner := f.owner(); owner != nil {
		path := f.StatePath()
		state = owner.State(path)
		old = owner.OldState(path)
	}
	for _, hook := range f.hooks {
		hook(f, state, old)
	}
}
