package host

import (
	"slices"
	"strings"

	"github.com/goliatone/go-formhost/pkg/schema"
)

type entryState int

const (
	entryResolved entryState = iota + 1
	// entryInvalidated marks a name explicitly cleared with a nil tree. It
	// reads as absent but blocks convention resolution until re-cached.
	entryInvalidated
)

type cacheEntry struct {
	state entryState
	tree  schema.Tree
}

// schemaCache keeps resolved trees in insertion order. Names currently being
// resolved are tracked in pending; Schema and ResolveSchema do not re-enter
// them.
type schemaCache struct {
	order   []string
	entries map[string]cacheEntry
	pending map[string]struct{}
}

func newSchemaCache() *schemaCache {
	return &schemaCache{
		entries: make(map[string]cacheEntry),
		pending: make(map[string]struct{}),
	}
}

func (c *schemaCache) get(name string) (cacheEntry, bool) {
	entry, ok := c.entries[name]
	return entry, ok
}

func (c *schemaCache) resolved(name string) bool {
	entry, ok := c.entries[name]
	return ok && entry.state == entryResolved
}

func (c *schemaCache) isPending(name string) bool {
	_, ok := c.pending[name]
	return ok
}

// store records tree under name. A name already resolved keeps its position.
func (c *schemaCache) store(name string, tree schema.Tree) {
	if !c.resolved(name) {
		c.order = append(c.order, name)
	}
	c.entries[name] = cacheEntry{state: entryResolved, tree: tree}
}

func (c *schemaCache) invalidate(name string) {
	c.unorder(name)
	c.entries[name] = cacheEntry{state: entryInvalidated}
}

func (c *schemaCache) remove(name string) {
	c.unorder(name)
	delete(c.entries, name)
}

func (c *schemaCache) unorder(name string) {
	if idx := slices.Index(c.order, name); idx >= 0 {
		c.order = slices.Delete(c.order, idx, idx+1)
	}
}

func (c *schemaCache) list() []CachedSchema {
	out := make([]CachedSchema, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, CachedSchema{Name: name, Tree: c.entries[name].tree})
	}
	return out
}

// CachedSchema is one resolved cache entry. Tree is nil when the name
// resolved to "no schema".
type CachedSchema struct {
	Name string
	Tree schema.Tree
}

// Discover queues schema names to be resolved on the next full cache read.
func (h *Host) Discover(names ...string) {
	for _, name := range names {
		if name = strings.TrimSpace(name); name != "" {
			h.discovered = append(h.discovered, name)
		}
	}
}

// DiscoveredSchemaNames returns the names still waiting to be resolved.
func (h *Host) DiscoveredSchemaNames() []string {
	return append([]string(nil), h.discovered...)
}

// Schema returns the tree cached under name, resolving it by convention when
// the name has never been resolved. Invalidated names return nil without
// resolving.
func (h *Host) Schema(name string) schema.Tree {
	h.drainDiscovered()

	if entry, ok := h.cache.get(name); ok {
		return entry.tree
	}
	if h.cache.isPending(name) {
		return nil
	}
	return h.ResolveSchema(name)
}

// CachedSchemas resolves every discovered name, clears the queue and returns
// the resolved entries in cache order.
func (h *Host) CachedSchemas() []CachedSchema {
	h.drainDiscovered()
	return h.cache.list()
}

// HasSchema reports whether name is resolved in the cache, after draining
// discovered names.
func (h *Host) HasSchema(name string) bool {
	h.drainDiscovered()
	return h.cache.resolved(name)
}

// ForgetSchema drops every trace of name, including an invalidation, so the
// next Schema call resolves it by convention again.
func (h *Host) ForgetSchema(name string) {
	h.cache.remove(name)
}

func (h *Host) drainDiscovered() {
	for len(h.discovered) > 0 {
		name := h.discovered[0]
		h.discovered = h.discovered[1:]
		if _, ok := h.cache.get(name); ok || h.cache.isPending(name) {
			continue
		}
		h.ResolveSchema(name)
	}
}
