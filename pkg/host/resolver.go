package host

import (
	"strings"

	"github.com/goliatone/go-formhost/pkg/schema"
)

// schemaMethodSuffix is appended to a schema name for the second lookup.
const schemaMethodSuffix = "Schema"

// IsResolving reports whether a schema is being cached or resolved.
func (h *Host) IsResolving() bool { return h.resolving }

// CacheSchema stores tree under name and keys it with name. Passing a nil
// tree is an explicit invalidation: the entry is cleared and name will not
// be resolved by convention again until it is re-cached, resolved with
// ResolveSchema or forgotten.
func (h *Host) CacheSchema(name string, tree schema.Tree) schema.Tree {
	defer h.beginResolving()()

	if isNilTree(tree) {
		h.cache.invalidate(name)
		h.logger.Debug("schema invalidated", "host", h.id, "schema", name)
		return nil
	}
	tree.SetKey(name)
	h.cache.store(name, tree)
	return tree
}

// ResolveSchema resolves name by convention and caches the result: a host
// method named name, then one named name+"Schema", then the first strategy
// handling name. Anything else yields nil and clears the entry.
func (h *Host) ResolveSchema(name string) schema.Tree {
	if h.cache.isPending(name) {
		return nil
	}
	defer h.beginResolving()()

	h.cache.pending[name] = struct{}{}
	defer delete(h.cache.pending, name)

	method, ok := h.methods[name]
	if !ok {
		method, ok = h.methods[name+schemaMethodSuffix]
	}
	if !ok {
		for _, strategy := range h.strategies {
			if strategy.Handles(name) {
				return h.delegate(strategy, name)
			}
		}
		h.unresolved(name, "no method")
		return nil
	}

	tree, ok := method.build(h)
	if !ok {
		h.unresolved(name, "method does not produce a schema")
		return nil
	}
	if tree != nil {
		tree.SetKey(name)
	}
	h.cache.store(name, tree)
	return tree
}

// delegate lets strategy populate the cache and returns what it stored under
// name. A strategy that leaves name uncached resolves to nil.
func (h *Host) delegate(strategy Strategy, name string) schema.Tree {
	h.logger.Debug("schema delegated to strategy", "host", h.id, "schema", name)
	strategy.Cache(h)

	if entry, ok := h.cache.get(name); ok {
		return entry.tree
	}
	h.unresolved(name, "strategy did not cache schema")
	return nil
}

func (h *Host) unresolved(name, reason string) {
	h.cache.remove(name)
	h.logger.Debug("schema unresolved", "host", h.id, "schema", name, "reason", reason)
}

// beginResolving raises the resolving flag and returns the func restoring
// it. Nested calls keep the flag raised until the outermost call returns.
func (h *Host) beginResolving() func() {
	previous := h.resolving
	h.resolving = true
	return func() {
		h.resolving = previous
	}
}

// Strategy resolves schema names no host method claims, such as schemas
// belonging to mounted actions.
type Strategy interface {
	Handles(name string) bool
	// Cache populates the host cache, typically through CacheSchema.
	Cache(h *Host)
}

// MountedActionPrefix prefixes schema names owned by mounted actions.
const MountedActionPrefix = "mountedAction"

// PrefixStrategy handles every schema name starting with Prefix.
type PrefixStrategy struct {
	Prefix string
	Mount  func(h *Host)
}

var _ Strategy = PrefixStrategy{}

// Handles implements Strategy.
func (s PrefixStrategy) Handles(name string) bool {
	return s.Prefix != "" && s.Mount != nil && strings.HasPrefix(name, s.Prefix)
}

// Cache implements Strategy.
func (s PrefixStrategy) Cache(h *Host) {
	s.Mount(h)
}

// MountedActions returns the strategy caching mounted action schemas through
// mount whenever a "mountedAction*" name is requested.
func MountedActions(mount func(h *Host)) Strategy {
	return PrefixStrategy{Prefix: MountedActionPrefix, Mount: mount}
}
