/*
Package kestrel provides a versioned, in-memory configuration cache for
xDS-style control planes: one current snapshot of typed resources per consumer
group, watch-based delivery to consumers, and the evaluation rules that decide
whether a watch can be answered at all.

# Snapshot cache

The [Cache] is the core type provided by this package. A producer installs
complete, versioned bundles of resources with [Cache.SetSnapshot]; each
installation fully supersedes the group's previous snapshot, there is no
merging and no history. Consumers call [Cache.Watch] with the resource type
they want, their node identification, the version they already hold and the
resource names they track. The cache resolves the node into a group via the
[NodeGroup] it was constructed with, then either answers immediately (a
snapshot exists and its version differs from the consumer's) or leaves the
watch open until the next [Cache.SetSnapshot] for the group.

Every watch is single-shot: it receives at most one [ads.Response] and is then
done, regardless of how many snapshots follow. Consumers issue a new watch
after each response, which is what gives the protocol its long-poll shape.

# Interest satisfaction

When a watch names the resources it wants, the cache only answers if the
snapshot names nothing else of that type: a response must never surprise the
consumer with a resource it did not request. When it does answer, the response
carries the snapshot's entire collection for the type, never a subset trimmed
to the requested names. A snapshot that fails this check produces no response
at all and the watch is quietly dropped; consumers detect the staleness via
their own deadline and re-issue a watch naming everything they track. See
[WatchSilent] for how this surfaces on the watch handle.

# Concurrency

A cache instance serializes all snapshot installations and watch decisions
behind a single lock, so a SetSnapshot's two effects, replacing the snapshot
and draining the group's open watches, are atomic as observed by every other
call. No operation blocks waiting for a future event, and the
missing-snapshot callback (see [WithMissingSnapshotCallback]) runs outside the
critical section so a slow callback cannot stall the cache. Instances are
independent; create as many as needed.
*/
package kestrel
