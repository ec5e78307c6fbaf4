/*
Package ads provides the protocol-level definitions shared by the kestrel cache
and its consumers: convenient type aliases into the envoy configuration protos,
the resource type tags the cache partitions snapshots by, and the Response type
delivered to watches.
*/
package ads

import (
	cluster "github.com/envoyproxy/go-control-plane/envoy/config/cluster/v3"
	core "github.com/envoyproxy/go-control-plane/envoy/config/core/v3"
	endpoint "github.com/envoyproxy/go-control-plane/envoy/config/endpoint/v3"
	listener "github.com/envoyproxy/go-control-plane/envoy/config/listener/v3"
	route "github.com/envoyproxy/go-control-plane/envoy/config/route/v3"
	tls "github.com/envoyproxy/go-control-plane/envoy/extensions/transport_sockets/tls/v3"
	runtime "github.com/envoyproxy/go-control-plane/envoy/service/runtime/v3"
	types "github.com/envoyproxy/go-control-plane/pkg/resource/v3"
	"google.golang.org/protobuf/proto"
)

// Node is an alias for the client identification included in discovery requests
// [core.Node]. The cache never inspects it beyond handing it to the group
// resolver.
type Node = core.Node

// ResourceType distinguishes the independently versioned resource categories
// held in a [Snapshot]. It is the resource's type URL, but the cache only ever
// compares it for equality.
type ResourceType = string

// The standard xDS resource type tags, mirroring the constants declared in
// [github.com/envoyproxy/go-control-plane/pkg/resource/v3].
const (
	ListenerType        ResourceType = types.ListenerType
	RouteType           ResourceType = types.RouteType
	ClusterType         ResourceType = types.ClusterType
	EndpointType        ResourceType = types.EndpointType
	SecretType          ResourceType = types.SecretType
	RuntimeType         ResourceType = types.RuntimeType
	ExtensionConfigType ResourceType = types.ExtensionConfigType
)

// Aliases to the envoy configuration types most commonly stored in a cache, for
// convenience and brevity.
type (
	Listener        = listener.Listener
	Route           = route.RouteConfiguration
	ScopedRoute     = route.ScopedRouteConfiguration
	VirtualHost     = route.VirtualHost
	Cluster         = cluster.Cluster
	Endpoint        = endpoint.ClusterLoadAssignment
	Secret          = tls.Secret
	Runtime         = runtime.Runtime
	ExtensionConfig = core.TypedExtensionConfig
)

// ResourceName returns the name a resource is matched against a watch's
// requested names with. Most envoy config types expose it as "name", but some
// (notably [Endpoint]) use a different field. Returns the empty string for
// types the protocol does not assign a name to.
func ResourceName(r proto.Message) string {
	switch t := r.(type) {
	case *listener.Listener:
		return t.GetName()
	case *route.RouteConfiguration:
		return t.GetName()
	case *route.ScopedRouteConfiguration:
		return t.GetName()
	case *cluster.Cluster:
		return t.GetName()
	case *endpoint.ClusterLoadAssignment:
		return t.GetClusterName()
	case *tls.Secret:
		return t.GetName()
	case *runtime.Runtime:
		return t.GetName()
	case *core.TypedExtensionConfig:
		return t.GetName()
	default:
		return ""
	}
}

// Response is delivered to a watch when a snapshot satisfies it. It always
// carries the snapshot's entire resource collection for the watch's type, never
// a subset trimmed to the requested names.
type Response struct {
	// The full set of resources of the watch's type in the snapshot.
	Resources []proto.Message
	// The version of the snapshot the resources were taken from.
	Version string
	// Canary is part of the historical response shape and is always false: this
	// cache serves no canary updates.
	Canary bool
}
