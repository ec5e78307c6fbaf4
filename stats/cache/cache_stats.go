// Package cachestats defines the hooks through which a snapshot cache reports
// what it is doing. The cache itself carries no metrics backend; implement
// [Handler] and register it with kestrel.WithCacheStatsHandler to export
// whichever of these events matter to your deployment.
package cachestats

import (
	"github.com/kestrelcp/kestrel/ads"
)

// Handler will be invoked with an event of the corresponding type when said
// event occurs. Handlers are invoked synchronously from inside the cache and
// must be fast; expensive exports should be queued and processed elsewhere.
type Handler interface {
	HandleCacheEvent(Event)
}

// Event contains information about a specific event that happened in the
// cache.
type Event interface {
	isCacheEvent()
}

// SnapshotUpdated is emitted once per SetSnapshot call, after every watch open
// for the group has been drained.
type SnapshotUpdated struct {
	// The group whose snapshot was replaced.
	Group string
	// The version of the newly installed snapshot.
	Version string
	// The number of drained watches that were delivered a response.
	WatchesResolved int
	// The number of drained watches that were discarded because the snapshot did
	// not satisfy their requested names. A consistently non-zero value usually
	// means the producer's snapshots do not name everything consumers track.
	WatchesSuppressed int
}

func (e *SnapshotUpdated) isCacheEvent() {}

// WatchOpened is emitted when a watch cannot be answered from the current
// state and is left open in the registry.
type WatchOpened struct {
	Group string
	Type  ads.ResourceType
	// The names the consumer declared interest in, empty meaning all.
	Names []string
	// The version the consumer already holds.
	KnownVersion string
}

func (e *WatchOpened) isCacheEvent() {}

// WatchResolved is emitted each time a response is delivered to a watch,
// whether synchronously from Watch or from a later SetSnapshot.
type WatchResolved struct {
	Group string
	Type  ads.ResourceType
	// The version of the snapshot that resolved the watch.
	Version string
	// The number of resources delivered.
	Resources int
}

func (e *WatchResolved) isCacheEvent() {}

// WatchSuppressed is emitted when a snapshot was considered for a watch but
// named a resource the watch did not request, so no response was sent.
type WatchSuppressed struct {
	Group string
	Type  ads.ResourceType
	// The version of the snapshot that was withheld.
	Version string
	// The first resource name found in the snapshot but not in the request.
	MissingName string
}

func (e *WatchSuppressed) isCacheEvent() {}

// WatchCancelled is emitted when a consumer cancels a watch that was still
// open in the registry.
type WatchCancelled struct {
	Group string
	Type  ads.ResourceType
}

func (e *WatchCancelled) isCacheEvent() {}

// GroupHashFailed is emitted when the group resolver could not map a node to a
// group and the consumer received an inert watch. This usually indicates a
// misconfigured client and deserves attention.
type GroupHashFailed struct {
	// The node that could not be hashed.
	Node *ads.Node
	Err  error
}

func (e *GroupHashFailed) isCacheEvent() {}

// SnapshotMissing is emitted at most once per group's transition from absent
// to requested, right before the missing-snapshot callback is scheduled.
type SnapshotMissing struct {
	Group string
}

func (e *SnapshotMissing) isCacheEvent() {}
