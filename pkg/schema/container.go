package schema

import (
	"strings"

	"github.com/goliatone/go-formhost/internal/datapath"
	"github.com/goliatone/go-formhost/pkg/validation"
)

// Container is the generic schema tree: an ordered list of fields bound to an
// owner, optionally scoped under a state path.
type Container struct {
	owner     Owner
	key       string
	statePath string
	fields    []*Field
	readOnly  bool
}

var (
	_ Tree  = (*Container)(nil)
	_ Maker = (*Container)(nil)
)

// New constructs an empty container bound to owner.
func New(owner Owner) *Container {
	return &Container{owner: owner}
}

// Make implements Maker. It is safe to call on a nil *Container.
func (*Container) Make(owner Owner) Tree {
	return New(owner)
}

// Owner returns the host the container belongs to.
func (c *Container) Owner() Owner { return c.owner }

// Key returns the container key, which prefixes every absolute component key.
func (c *Container) Key() string { return c.key }

// SetKey implements Tree.
func (c *Container) SetKey(key string) { c.key = strings.TrimSpace(key) }

// ReadOnly reports whether the container only displays state.
func (c *Container) ReadOnly() bool { return c.readOnly }

// StatePath returns the prefix applied to every field state path.
func (c *Container) StatePath() string { return c.statePath }

// SetStatePath scopes field state under path (e.g. "data").
func (c *Container) SetStatePath(path string) *Container {
	c.statePath = strings.TrimSpace(path)
	return c
}

// Schema appends fields to the container.
func (c *Container) Schema(fields ...*Field) *Container {
	for _, field := range fields {
		if field == nil {
			continue
		}
		field.attach(c, nil)
		c.fields = append(c.fields, field)
	}
	return c
}

// Fields returns the top-level fields in declaration order.
func (c *Container) Fields() []*Field {
	return append([]*Field(nil), c.fields...)
}

// Walk visits every field depth-first in declaration order.
func (c *Container) Walk(fn func(field *Field)) {
	var walk func(fields []*Field)
	walk = func(fields []*Field) {
		for _, field := range fields {
			fn(field)
			walk(field.children)
		}
	}
	walk(c.fields)
}

// Component implements Tree.
func (c *Container) Component(key string, absolute bool) Component {
	key = strings.TrimSpace(key)
	if absolute && c.key != "" {
		prefix := c.key + datapath.Separator
		if !strings.HasPrefix(key, prefix) {
			return nil
		}
		key = strings.TrimPrefix(key, prefix)
	}
	var found *Field
	c.Walk(func(field *Field) {
		if found == nil && field.relativeKey() == key {
			found = field
		}
	})
	if found == nil {
		return nil
	}
	return found
}

// CallAfterStateUpdated implements Tree. The first field bound to path has
// its hooks called.
func (c *Container) CallAfterStateUpdated(path string) bool {
	var target *Field
	c.Walk(func(field *Field) {
		if target == nil && field.stateful && field.StatePath() == path {
			target = field
		}
	})
	if target == nil {
		return false
	}
	target.callAfterStateUpdated()
	return true
}

// MutateStateForValidation implements Tree by applying field sanitisers and
// mutators to the values they are bound to. Read-only containers return the
// state untouched.
func (c *Container) MutateStateForValidation(state map[string]any) map[string]any {
	if c.readOnly {
		return state
	}
	c.Walk(func(field *Field) {
		if !field.stateful || (field.sanitizer == nil && len(field.mutators) == 0) {
			return
		}
		path := field.StatePath()
		value, ok := datapath.Lookup(state, path)
		if !ok {
			return
		}
		state = datapath.Set(state, path, field.mutate(value))
	})
	return state
}

// ValidationRules implements Tree.
func (c *Container) ValidationRules() validation.Rules {
	rules := make(validation.Rules)
	if c.readOnly {
		return rules
	}
	c.Walk(func(field *Field) {
		if !field.stateful || len(field.rules) == 0 {
			return
		}
		rules[field.StatePath()] = field.Rules()
	})
	return rules
}

// ValidationAttributes implements Tree, mapping state paths to labels.
func (c *Container) ValidationAttributes() map[string]string {
	attributes := make(map[string]string)
	if c.readOnly {
		return attributes
	}
	c.Walk(func(field *Field) {
		if !field.stateful {
			return
		}
		attributes[field.StatePath()] = field.Label()
	})
	return attributes
}

// Form is a container whose fields accept input.
type Form struct {
	Container
}

var (
	_ Tree  = (*Form)(nil)
	_ Maker = (*Form)(nil)
)

// NewForm constructs an empty form bound to owner.
func NewForm(owner Owner) *Form {
	return &Form{Container: Container{owner: owner}}
}

// Make implements Maker. It is safe to call on a nil *Form.
func (*Form) Make(owner Owner) Tree {
	return NewForm(owner)
}

// Infolist is a read-only container: it contributes no validation rules,
// attributes or state mutation.
type Infolist struct {
	Container
}

var (
	_ Tree  = (*Infolist)(nil)
	_ Maker = (*Infolist)(nil)
)

// NewInfolist constructs an empty infolist bound to owner.
func NewInfolist(owner Owner) *Infolist {
	return &Infolist{Container: Container{owner: owner, readOnly: true}}
}

// Make implements Maker. It is safe to call on a nil *Infolist.
func (*Infolist) Make(owner Owner) Tree {
	return NewInfolist(owner)
}
