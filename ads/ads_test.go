package ads_test

import (
	"testing"

	"github.com/kestrelcp/kestrel/ads"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

func TestResourceName(t *testing.T) {
	tests := []struct {
		resource proto.Message
		expected string
	}{
		{&ads.Listener{Name: "l"}, "l"},
		{&ads.Route{Name: "r"}, "r"},
		{&ads.ScopedRoute{Name: "sr"}, "sr"},
		{&ads.Cluster{Name: "c"}, "c"},
		{&ads.Endpoint{ClusterName: "c"}, "c"},
		{&ads.Secret{Name: "s"}, "s"},
		{&ads.Runtime{Name: "rt"}, "rt"},
		{&ads.ExtensionConfig{Name: "e"}, "e"},
		// Not a config resource at all.
		{wrapperspb.String("nope"), ""},
	}
	for _, test := range tests {
		require.Equal(t, test.expected, ads.ResourceName(test.resource))
	}
}

func TestSnapshotCopiesTheMap(t *testing.T) {
	resources := map[ads.ResourceType][]proto.Message{
		ads.ClusterType: {&ads.Cluster{Name: "c"}},
	}
	s := ads.NewSnapshot("v1", resources)

	// The caller may reuse (or wreck) its map without affecting the snapshot.
	delete(resources, ads.ClusterType)
	resources[ads.ListenerType] = []proto.Message{&ads.Listener{Name: "l"}}

	require.Len(t, s.Resources(ads.ClusterType), 1)
	require.Nil(t, s.Resources(ads.ListenerType))
}

func TestSnapshotTypesStopsEarly(t *testing.T) {
	s := ads.NewSnapshot("v1", map[ads.ResourceType][]proto.Message{
		ads.ClusterType:  {&ads.Cluster{Name: "c"}},
		ads.ListenerType: {&ads.Listener{Name: "l"}},
	})

	calls := 0
	s.Types(func(typ ads.ResourceType) bool {
		calls++
		return false
	})
	require.Equal(t, 1, calls)
}
