package host

import "github.com/goliatone/go-formhost/internal/datapath"

// State implements schema.Owner and returns the value at a dotted path.
func (h *Host) State(path string) any {
	return datapath.Get(h.state, path)
}

// StateSnapshot returns a deep copy of the whole host state.
func (h *Host) StateSnapshot() map[string]any {
	return datapath.CloneMap(h.state)
}

// OldState implements schema.Owner and returns the value a path held before
// the update in progress, read from the root snapshot.
func (h *Host) OldState(path string) any {
	return datapath.Get(h.oldState, path)
}

// SetState updates a path, relaying the change to every cached schema.
func (h *Host) SetState(path string, value any) {
	h.UpdatingState(path)
	h.state = datapath.Set(h.state, path, value)
	h.UpdatedState(path)
}

// UpdatingState snapshots the value of the path's root segment so schemas
// can compare against it once the update lands.
func (h *Host) UpdatingState(path string) {
	root := datapath.Root(path)
	if root == "" {
		return
	}
	h.oldState[root] = datapath.Clone(datapath.Get(h.state, root))
}

// UpdatedState notifies every cached schema, in cache order, that path
// changed. All schemas are notified whether or not one handles the path.
func (h *Host) UpdatedState(path string) {
	for _, cached := range h.CachedSchemas() {
		if cached.Tree == nil {
			continue
		}
		cached.Tree.CallAfterStateUpdated(path)
	}
}
