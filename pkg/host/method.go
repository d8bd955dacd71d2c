package host

import (
	"reflect"

	"github.com/goliatone/go-formhost/pkg/schema"
)

// Method is a host member registered at setup time. The variant it was built
// with (Plain, Returns or Builds) decides how the resolver turns it into a
// schema tree.
type Method interface {
	// build returns the tree the method produces and whether the method
	// qualifies as a schema method at all. A qualifying method may still
	// produce a nil tree.
	build(h *Host) (schema.Tree, bool)
}

type plainMethod struct {
	fn func()
}

// Plain wraps a host member that takes no tree and declares no tree result.
// It never resolves to a schema.
func Plain(fn func()) Method {
	return plainMethod{fn: fn}
}

func (plainMethod) build(*Host) (schema.Tree, bool) {
	return nil, false
}

type returnsMethod[T schema.Tree] struct {
	fn func() T
}

// Returns wraps a zero-argument host method declaring a tree result.
func Returns[T schema.Tree](fn func() T) Method {
	return returnsMethod[T]{fn: fn}
}

func (m returnsMethod[T]) build(*Host) (schema.Tree, bool) {
	if m.fn == nil {
		return nil, false
	}
	out := m.fn()
	if isNilTree(out) {
		return nil, true
	}
	return out, true
}

type buildsMethod[T schema.Tree] struct {
	fn func(T) T
}

// Builds wraps a host method that receives a freshly made tree of the
// declared type T and returns the configured tree. T must be a concrete type
// implementing schema.Maker, otherwise the method never resolves.
func Builds[T schema.Tree](fn func(T) T) Method {
	return buildsMethod[T]{fn: fn}
}

func (m buildsMethod[T]) build(h *Host) (schema.Tree, bool) {
	if m.fn == nil {
		return nil, false
	}
	var zero T
	made, ok := h.makeSchema(reflect.TypeOf((*T)(nil)).Elem(), zero)
	if !ok {
		return nil, false
	}
	arg, ok := made.(T)
	if !ok {
		return nil, false
	}
	out := m.fn(arg)
	if isNilTree(out) {
		return nil, true
	}
	return out, true
}

var (
	formType     = reflect.TypeOf((**schema.Form)(nil)).Elem()
	infolistType = reflect.TypeOf((**schema.Infolist)(nil)).Elem()
)

// makeSchema builds the argument for a Builds method: the specialised
// factory for forms and infolists when one is registered, otherwise the
// declared type's own Make.
func (h *Host) makeSchema(declared reflect.Type, zero any) (schema.Tree, bool) {
	switch {
	case declared == formType && h.formFactory != nil:
		if form := h.formFactory(h); form != nil {
			return form, true
		}
		return nil, false
	case declared == infolistType && h.infolistFactory != nil:
		if list := h.infolistFactory(h); list != nil {
			return list, true
		}
		return nil, false
	}
	if declared.Kind() == reflect.Interface {
		return nil, false
	}
	maker, ok := zero.(schema.Maker)
	if !ok {
		return nil, false
	}
	made := maker.Make(h)
	if isNilTree(made) {
		return nil, false
	}
	return made, true
}

func isNilTree(tree schema.Tree) bool {
	if tree == nil {
		return true
	}
	rv := reflect.ValueOf(tree)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func:
		return rv.IsNil()
	}
	return false
}
