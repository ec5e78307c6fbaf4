package kestrel

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/kestrelcp/kestrel/ads"
	internal "github.com/kestrelcp/kestrel/internal/cache"
	"github.com/kestrelcp/kestrel/internal/utils"
	cachestats "github.com/kestrelcp/kestrel/stats/cache"
	"golang.org/x/time/rate"
)

// Cache is a snapshot-based configuration cache that maintains a single
// versioned snapshot per consumer group, with no canary updates. It does not
// track the status of remote nodes and consistently replies with the latest
// snapshot. For the protocol to converge, a watch with explicit resource names
// is only answered when the snapshot names no resource outside that set: it is
// expected that a snapshot's cluster resources name all its endpoint resources
// and its listener resources name all its route resources, so that consumers
// eventually request everything the snapshot holds.
//
// A Cache can also serve distinct request types independently, in which case
// each snapshot only needs to contain the resources of the type it serves.
// Synchronizing multiple caches for different types is left to the producer.
type Cache interface {
	// SetSnapshot installs the snapshot as the group's current one, completely
	// superseding the previous snapshot, and resolves every watch open for the
	// group against it. Watches the snapshot does not satisfy are silently
	// discarded; either way no watch for the group remains open when SetSnapshot
	// returns. The call never fails: constructing a coherent snapshot is the
	// producer's responsibility and delivery outcome is not reported back.
	SetSnapshot(group string, snapshot *ads.Snapshot)
	// ClearSnapshot deletes the group's current snapshot, if any. Watches open
	// for the group are left open; they will resolve against the next snapshot.
	// Once cleared, the group's next watch request re-triggers the
	// missing-snapshot callback.
	ClearSnapshot(group string)
	// GetSnapshot returns the group's current snapshot, or nil if the group has
	// none.
	GetSnapshot(group string) *ads.Snapshot
	// Watch subscribes to the next satisfying snapshot for the node's group. The
	// returned watch resolves synchronously iff a snapshot exists for the group
	// and its version differs from knownVersion; otherwise the watch is left
	// open until a producer installs one. An empty names slice requests all
	// resources of the type.
	//
	// The returned watch is never nil. If the node cannot be resolved to a
	// group, the watch is inert ([WatchInert]): never registered, never
	// resolved, and cancelling it is a noop. Callers must treat an inert watch
	// as a subscription that did not take effect.
	Watch(typ ads.ResourceType, node *ads.Node, knownVersion string, names []string) *Watch
}

// NodeGroup maps a node to the group key of the consumers that should receive
// identical configuration. The cache never interprets the key's structure.
type NodeGroup interface {
	// Hash returns the group key for the node. On error the cache logs and hands
	// the consumer an inert watch; it never retries.
	Hash(node *ads.Node) (string, error)
}

// NodeGroupFunc adapts a plain function into a [NodeGroup].
type NodeGroupFunc func(node *ads.Node) (string, error)

func (f NodeGroupFunc) Hash(node *ads.Node) (string, error) {
	return f(node)
}

// IDGroup is the simplest [NodeGroup]: each node is its own group, keyed by
// its id.
type IDGroup struct{}

func (IDGroup) Hash(node *ads.Node) (string, error) {
	if node.GetId() == "" {
		return "", errors.New("node has no id")
	}
	return node.GetId(), nil
}

// NewSnapshotCache creates a new [Cache] using the given [NodeGroup] to
// resolve nodes into groups. Instances are fully independent of each other.
func NewSnapshotCache(groups NodeGroup, options ...CacheOption) Cache {
	c := &snapshotCache{
		groups: groups,
		log:    slog.Default(),
		hinted: utils.NewSet[string](),
		// A misbehaving client that cannot be hashed tends to reconnect in a
		// tight loop; keep the error visible without flooding the log.
		hashFailureLog: rate.Sometimes{First: 5, Interval: 10 * time.Second},
	}
	for _, opt := range options {
		opt.apply(c)
	}

	return c
}

// CacheOption configures how the cache is initialized.
type CacheOption interface {
	apply(c *snapshotCache)
}

type cacheOption func(c *snapshotCache)

func (f cacheOption) apply(c *snapshotCache) {
	f(c)
}

// WithLogger sets the logger used by the cache. Defaults to [slog.Default].
func WithLogger(log *slog.Logger) CacheOption {
	return cacheOption(func(c *snapshotCache) {
		c.log = log
	})
}

// WithMissingSnapshotCallback registers a callback invoked with the group key
// the first time a watch arrives for a group that has no snapshot, as a hint
// that a producer should populate one. It fires at most once per group per
// absent→requested transition (ClearSnapshot re-arms it), asynchronously and
// with no retry: a slow or failing callback cannot stall the cache, and its
// outcome is not reported anywhere.
func WithMissingSnapshotCallback(callback func(group string)) CacheOption {
	return cacheOption(func(c *snapshotCache) {
		c.callback = callback
	})
}

// WithCacheStatsHandler registers a stats handler for the cache. The given
// handler will be invoked whenever a corresponding event happens. See the
// [cachestats] package for more details.
func WithCacheStatsHandler(statsHandler cachestats.Handler) CacheOption {
	return cacheOption(func(c *snapshotCache) {
		c.stats = statsHandler
	})
}

type snapshotCache struct {
	groups   NodeGroup
	callback func(group string)
	log      *slog.Logger
	stats    cachestats.Handler

	hashFailureLog rate.Sometimes

	// mu is the engine's single serialization point: it guards the three fields
	// below plus watchCount, and every watch-resolution decision tied to a read
	// of the current snapshot happens while holding it. This is what makes a
	// SetSnapshot atomic as observed by concurrent Watch calls: no caller can
	// see the new snapshot while stale watches are still registered, or the
	// other way around.
	mu        sync.Mutex
	snapshots internal.Store[*ads.Snapshot]
	watches   internal.Registry[*Watch]
	// hinted holds the groups for which the missing-snapshot callback has fired
	// and no snapshot has been installed since.
	hinted     utils.Set[string]
	watchCount uint64
}

var _ Cache = (*snapshotCache)(nil)

func (c *snapshotCache) SetSnapshot(group string, snapshot *ads.Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.snapshots.Put(group, snapshot)
	c.hinted.Remove(group)

	// Drain every watch open for the group; the consumer must issue a new watch
	// to receive further updates. Watches the snapshot does not satisfy are
	// dropped, not re-queued.
	var resolved, suppressed int
	for _, w := range c.watches.Drain(group) {
		if c.respond(w, snapshot, group) {
			resolved++
		} else {
			suppressed++
		}
	}

	c.log.Debug("snapshot installed",
		"group", group,
		"version", snapshot.Version(),
		"resolved", resolved,
		"suppressed", suppressed,
	)
	if c.stats != nil {
		c.stats.HandleCacheEvent(&cachestats.SnapshotUpdated{
			Group:             group,
			Version:           snapshot.Version(),
			WatchesResolved:   resolved,
			WatchesSuppressed: suppressed,
		})
	}
}

func (c *snapshotCache) ClearSnapshot(group string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.snapshots.Delete(group)
	// The group is absent again: the next watch for it is a new
	// absent→requested transition and should re-fire the callback.
	c.hinted.Remove(group)
}

func (c *snapshotCache) GetSnapshot(group string) *ads.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snapshot, _ := c.snapshots.Get(group)
	return snapshot
}

func (c *snapshotCache) Watch(
	typ ads.ResourceType,
	node *ads.Node,
	knownVersion string,
	names []string,
) *Watch {
	w := newWatch(typ, names)

	group, err := c.groups.Hash(node)
	if err != nil {
		w.markInert()
		c.hashFailureLog.Do(func() {
			c.log.Error("failed to hash node into group", "node", node.GetId(), "err", err)
		})
		if c.stats != nil {
			c.stats.HandleCacheEvent(&cachestats.GroupHashFailed{Node: node, Err: err})
		}
		return w
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// If the consumer is up to date, or there is nothing to answer with, leave
	// an open watch.
	snapshot, ok := c.snapshots.Get(group)
	if !ok || snapshot.Version() == knownVersion {
		if !ok {
			c.hintMissingSnapshot(group)
		}

		c.watchCount++
		id := c.watchCount
		w.id = id
		c.watches.Add(group, id, w)
		w.remove = func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			c.watches.Remove(group, id)
			if c.stats != nil {
				c.stats.HandleCacheEvent(&cachestats.WatchCancelled{Group: group, Type: typ})
			}
		}

		c.log.Debug("opened watch",
			"id", id,
			"type", typ,
			"group", group,
			"names", w.names,
			"version", knownVersion,
		)
		if c.stats != nil {
			c.stats.HandleCacheEvent(&cachestats.WatchOpened{
				Group:        group,
				Type:         typ,
				Names:        w.Names(),
				KnownVersion: knownVersion,
			})
		}
		return w
	}

	// Otherwise the watch may be answered immediately. It is never registered:
	// if the snapshot does not satisfy it, the watch goes silent rather than
	// open, and the consumer is expected to issue a better-formed request.
	c.respond(w, snapshot, group)
	return w
}

// hintMissingSnapshot fires the missing-snapshot hint if this is the group's
// first watch request since it became absent. Must be invoked while holding
// mu: the hinted set is what bounds the hint to one firing per transition. The
// callback itself runs on a fresh goroutine so a slow callback never stalls
// the critical section.
func (c *snapshotCache) hintMissingSnapshot(group string) {
	if !c.hinted.Add(group) {
		return
	}

	c.log.Info("no snapshot for group, requesting one", "group", group)
	if c.stats != nil {
		c.stats.HandleCacheEvent(&cachestats.SnapshotMissing{Group: group})
	}
	if c.callback != nil {
		go c.callback(group)
	}
}
