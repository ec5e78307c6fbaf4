package ads

import (
	"google.golang.org/protobuf/proto"
)

// A Snapshot is an immutable, versioned bundle of resources for one consumer
// group, organized by resource type. Exactly one Snapshot is current per group
// at any time; installing a new one via the cache completely supersedes the
// previous one, it is never merged into it.
//
// The cache enforces no consistency between the types in a Snapshot. For the
// protocol to converge, producers are expected to build snapshots in which the
// cluster resources name every endpoint resource and the listener resources
// name every route resource, so that consumers eventually request everything
// the snapshot holds.
//
// WARNING: It is imperative that the resources placed in a Snapshot not be
// modified after construction. They will be read concurrently by every watch
// the snapshot resolves, and the cache takes no responsibility in cloning them
// since deep-copying every resource would incur unexpected and avoidable
// costs. When in doubt, pass in deep copies.
type Snapshot struct {
	version   string
	resources map[ResourceType][]proto.Message
}

// NewSnapshot creates a Snapshot with the given version and resources. The
// map itself is copied so the caller may reuse it, but the resource slices and
// messages are retained as-is (see the warning on [Snapshot]).
func NewSnapshot(version string, resources map[ResourceType][]proto.Message) *Snapshot {
	copied := make(map[ResourceType][]proto.Message, len(resources))
	for typ, rs := range resources {
		copied[typ] = rs
	}
	return &Snapshot{
		version:   version,
		resources: copied,
	}
}

// Version returns the snapshot's version string. Versions are opaque: the
// cache compares them only for equality, never for ordering.
func (s *Snapshot) Version() string {
	return s.version
}

// Resources returns the snapshot's resources of the given type, or nil if the
// type is absent. The returned slice must not be modified.
func (s *Snapshot) Resources(typ ResourceType) []proto.Message {
	return s.resources[typ]
}

// Types invokes f for each resource type present in the snapshot, in random
// order. If f returns false, the iteration stops.
func (s *Snapshot) Types(f func(typ ResourceType) bool) {
	for typ := range s.resources {
		if !f(typ) {
			return
		}
	}
}
