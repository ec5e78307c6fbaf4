package internal

// Registry tracks the watches currently open for each group, keyed by the
// watch id assigned by the engine. Like [Store], it has no concurrency
// protection of its own and every method must be invoked while holding the
// owning engine's lock. This is what guarantees that a watch is present in at
// most one place at a time: the registry, or nowhere.
type Registry[W any] struct {
	watches map[string]map[uint64]W
}

// Add registers an open watch for the group under the given id.
func (r *Registry[W]) Add(group string, id uint64, watch W) {
	if r.watches == nil {
		r.watches = make(map[string]map[uint64]W)
	}
	open := r.watches[group]
	if open == nil {
		open = make(map[uint64]W)
		r.watches[group] = open
	}
	open[id] = watch
}

// Remove deletes the watch registered under the given id, if any. The group's
// entry is dropped once its last watch is removed so that an idle group does
// not pin an empty map forever.
func (r *Registry[W]) Remove(group string, id uint64) {
	open := r.watches[group]
	if open == nil {
		return
	}
	delete(open, id)
	if len(open) == 0 {
		delete(r.watches, group)
	}
}

// Drain removes and returns every watch open for the group, leaving the
// registry empty for that group. Returns nil if no watches are open.
func (r *Registry[W]) Drain(group string) map[uint64]W {
	open := r.watches[group]
	delete(r.watches, group)
	return open
}

// Len returns the number of watches currently open for the group.
func (r *Registry[W]) Len(group string) int {
	return len(r.watches[group])
}
