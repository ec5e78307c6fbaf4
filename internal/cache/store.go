package internal

// Store holds the current snapshot for each group. It has no concurrency
// protection of its own: every method must be invoked while holding the
// owning engine's lock, which is what makes a Put atomic with respect to the
// watch resolution that follows it.
type Store[S any] struct {
	snapshots map[string]S
}

// Put replaces the stored snapshot for the group unconditionally; the first
// write for a group is an insert. No version ordering is enforced, a producer
// may install an older version and the store will happily keep it.
func (s *Store[S]) Put(group string, snapshot S) {
	if s.snapshots == nil {
		s.snapshots = make(map[string]S)
	}
	s.snapshots[group] = snapshot
}

// Get returns the current snapshot for the group, with ok false if the group
// has never been populated (or has been deleted).
func (s *Store[S]) Get(group string) (snapshot S, ok bool) {
	snapshot, ok = s.snapshots[group]
	return snapshot, ok
}

// Delete removes the group's snapshot, making the group absent again. Noop if
// the group was never populated.
func (s *Store[S]) Delete(group string) {
	delete(s.snapshots, group)
}
