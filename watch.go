package kestrel

import (
	"slices"
	"sync/atomic"

	"github.com/kestrelcp/kestrel/ads"
	"github.com/kestrelcp/kestrel/internal/utils"
)

// WatchState describes where a [Watch] is in its lifecycle. A watch starts
// [WatchOpen] and moves to exactly one of the terminal states, never more than
// one: the state tag is what enforces the at-most-once delivery guarantee.
type WatchState int32

const (
	// WatchOpen means the watch may still receive a response. A watch returned in
	// this state is registered in the cache (unless it is inert, which has its
	// own tag) and will be resolved by the next snapshot for its group.
	WatchOpen WatchState = iota
	// WatchResolved means the response has been delivered. Terminal.
	WatchResolved
	// WatchSilent means a snapshot was evaluated for this watch but named a
	// resource the watch did not request, so the response was withheld and the
	// watch is no longer registered anywhere. The consumer is expected to detect
	// the lack of a response on its own and re-issue a watch naming every
	// resource it tracks. Terminal.
	WatchSilent
	// WatchCancelled means the consumer cancelled the watch before it resolved.
	// Terminal.
	WatchCancelled
	// WatchInert means the group resolver failed for the watch's node: the watch
	// was never registered and will never resolve. Terminal.
	WatchInert
)

var watchStateStrings = [...]string{"OPEN", "RESOLVED", "SILENT", "CANCELLED", "INERT"}

func (s WatchState) String() string {
	return watchStateStrings[s]
}

// A Watch is a single-shot subscription to the next snapshot that satisfies it,
// created by [Cache.Watch]. It either resolves synchronously (the response is
// already buffered in Responses when Watch returns) or stays open until a
// producer installs a satisfying snapshot for its group.
//
// A watch receives at most one response over its entire lifetime, no matter how
// many snapshots are installed afterwards; consumers re-issue a new watch after
// each response. There is no timeout mechanism here: a watch that never
// resolves (see [WatchSilent] and [WatchInert]) is indistinguishable from one
// whose snapshot simply hasn't arrived, and callers must apply their own
// liveness deadline.
type Watch struct {
	// id is non-zero only for watches that were registered in the cache; it is
	// assigned under the engine lock and never changes afterwards.
	id    uint64
	typ   ads.ResourceType
	names utils.Set[string]

	state     atomic.Int32
	responses chan *ads.Response

	// remove unregisters the watch from the cache. It is assigned at
	// registration time, before the watch is returned to the caller, and only
	// invoked after winning the open→cancelled transition. Nil for watches that
	// were never registered.
	remove func()
}

func newWatch(typ ads.ResourceType, names []string) *Watch {
	return &Watch{
		typ:       typ,
		names:     utils.NewSet(names...),
		responses: make(chan *ads.Response, 1),
	}
}

// ID returns the watch's registration id, or 0 if the watch was resolved
// synchronously and never entered the registry.
func (w *Watch) ID() uint64 {
	return w.id
}

// Type returns the resource type the watch was created for.
func (w *Watch) Type() ads.ResourceType {
	return w.typ
}

// Names returns the resource names the watch declared interest in, sorted.
// Empty means the watch wants all resources of its type.
func (w *Watch) Names() []string {
	names := make([]string, 0, len(w.names))
	for name := range w.names {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Responses returns the watch's response sink. At most one response is ever
// sent on it, and the channel is buffered so delivery never blocks on the
// consumer.
func (w *Watch) Responses() <-chan *ads.Response {
	return w.responses
}

// State returns the watch's current lifecycle state.
func (w *Watch) State() WatchState {
	return WatchState(w.state.Load())
}

// Cancel withdraws an open watch, removing it from the cache. It is safe to
// call any number of times and at any point in the watch's lifetime:
// cancelling a watch that has already resolved, gone silent, or was inert is a
// noop.
func (w *Watch) Cancel() {
	if !w.transition(WatchOpen, WatchCancelled) {
		return
	}
	if w.remove != nil {
		w.remove()
	}
}

// resolve delivers the response if the watch is still open. Returns false if
// the watch already reached a terminal state, in which case the response is
// dropped.
func (w *Watch) resolve(r *ads.Response) bool {
	if !w.transition(WatchOpen, WatchResolved) {
		return false
	}
	w.responses <- r
	return true
}

// silence marks the watch as permanently unresolvable. Returns false if the
// watch already reached a terminal state.
func (w *Watch) silence() bool {
	return w.transition(WatchOpen, WatchSilent)
}

// markInert tags a watch whose node could not be resolved to a group. Only
// invoked before the watch is published to the caller, hence a plain store.
func (w *Watch) markInert() {
	w.state.Store(int32(WatchInert))
}

func (w *Watch) transition(from, to WatchState) bool {
	return w.state.CompareAndSwap(int32(from), int32(to))
}
