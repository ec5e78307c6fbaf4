package kestrel

import (
	"github.com/kestrelcp/kestrel/ads"
	"github.com/kestrelcp/kestrel/internal/utils"
	cachestats "github.com/kestrelcp/kestrel/stats/cache"
	"google.golang.org/protobuf/proto"
)

// respond evaluates the snapshot against the watch's declared interest and
// delivers the resulting response, if any. Returns whether a response was
// delivered.
//
// If the watch requested explicit names, the snapshot must not name any
// resource of the watch's type outside that set: a consumer must never be
// surprised by a resource it did not request. When the snapshot does satisfy
// the watch, it receives the snapshot's entire resource collection for the
// type, not a subset trimmed to the requested names. The contract is "respond
// with everything of this type, or not at all"; a suppressed watch receives
// nothing, ever, and the consumer is expected to come back with a request
// naming every resource it tracks.
func (c *snapshotCache) respond(w *Watch, snapshot *ads.Snapshot, group string) bool {
	resources := snapshot.Resources(w.typ)

	if w.names.Len() > 0 {
		if missing, ok := firstUnrequested(resources, w.names); ok {
			w.silence()
			c.log.Info("not responding, resource not requested",
				"type", w.typ,
				"group", group,
				"version", snapshot.Version(),
				"missing", missing,
				"requested", w.names,
			)
			if c.stats != nil {
				c.stats.HandleCacheEvent(&cachestats.WatchSuppressed{
					Group:       group,
					Type:        w.typ,
					Version:     snapshot.Version(),
					MissingName: missing,
				})
			}
			return false
		}
	}

	if !w.resolve(&ads.Response{
		Resources: resources,
		Version:   snapshot.Version(),
	}) {
		// Lost the open→resolved transition to a concurrent Cancel; the consumer
		// no longer wants the response.
		return false
	}

	if c.stats != nil {
		c.stats.HandleCacheEvent(&cachestats.WatchResolved{
			Group:     group,
			Type:      w.typ,
			Version:   snapshot.Version(),
			Resources: len(resources),
		})
	}
	return true
}

// firstUnrequested returns the name of the first resource in the collection
// that is absent from the requested set.
func firstUnrequested(resources []proto.Message, requested utils.Set[string]) (string, bool) {
	for _, r := range resources {
		if name := ads.ResourceName(r); !requested.Has(name) {
			return name, true
		}
	}
	return "", false
}
