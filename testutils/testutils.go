package testutils

import (
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/kestrelcp/kestrel"
	"github.com/kestrelcp/kestrel/ads"
	cachestats "github.com/kestrelcp/kestrel/stats/cache"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/prototext"
	"google.golang.org/protobuf/proto"
)

// This is the bare minimum required by the testify framework. *testing.T
// implements it, but this interface is used for testing the test framework.
type testingT interface {
	Logf(format string, args ...any)
	Errorf(format string, args ...any)
	FailNow()
	Helper()
	Fatalf(string, ...any)
}

var _ testingT = (*testing.T)(nil)
var _ testingT = (*testing.B)(nil)

// WaitForResponse blocks until the watch resolves, failing the test if it does
// not do so within 5 seconds.
func WaitForResponse(t testingT, w *kestrel.Watch) *ads.Response {
	t.Helper()
	select {
	case r := <-w.Responses():
		return r
	case <-time.After(5 * time.Second):
		t.Fatalf("Watch %d for %q did not resolve", w.ID(), w.Type())
		return nil
	}
}

// ExpectResponse waits for the watch to resolve and asserts the response
// carries exactly the given version and resources, in order.
func ExpectResponse(t testingT, w *kestrel.Watch, version string, resources ...proto.Message) *ads.Response {
	t.Helper()
	r := WaitForResponse(t, w)
	require.Equal(t, version, r.Version)
	require.False(t, r.Canary)
	require.Len(t, r.Resources, len(resources))
	for i := range resources {
		ProtoEquals(t, resources[i], r.Resources[i])
	}
	return r
}

// ExpectNoResponse asserts that the watch does not resolve. Since the absence
// of a response is indistinguishable from a response that hasn't arrived yet,
// it simply waits out a grace period.
func ExpectNoResponse(t testingT, w *kestrel.Watch) {
	t.Helper()
	select {
	case r := <-w.Responses():
		t.Fatalf("Received unexpected response at version %q", r.Version)
	case <-time.After(50 * time.Millisecond):
	}
}

// ProtoEquals asserts the two messages are equal, failing with a readable diff
// otherwise.
func ProtoEquals(t testingT, expected, actual proto.Message) {
	t.Helper()
	if !proto.Equal(expected, actual) {
		t.Fatalf(
			"Messages not equal:\nexpected:%s\nactual  :%s\n%s",
			expected, actual,
			cmp.Diff(prototext.Format(expected), prototext.Format(actual)),
		)
	}
}

// Minimal resource constructors. The cache never looks past a resource's name,
// so these don't need to be realistic beyond that.

func NewCluster(name string) *ads.Cluster {
	return &ads.Cluster{Name: name}
}

func NewListener(name string) *ads.Listener {
	return &ads.Listener{Name: name}
}

func NewRoute(name string) *ads.Route {
	return &ads.Route{Name: name}
}

func NewEndpoint(clusterName string) *ads.Endpoint {
	return &ads.Endpoint{ClusterName: clusterName}
}

// SingleTypeSnapshot builds a snapshot holding resources of just one type,
// which is all most tests need.
func SingleTypeSnapshot(version string, typ ads.ResourceType, resources ...proto.Message) *ads.Snapshot {
	return ads.NewSnapshot(version, map[ads.ResourceType][]proto.Message{typ: resources})
}

// RecordingStatsHandler is a [cachestats.Handler] that records every event it
// receives, in order.
type RecordingStatsHandler struct {
	mu     sync.Mutex
	events []cachestats.Event
}

func (h *RecordingStatsHandler) HandleCacheEvent(e cachestats.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, e)
}

// Events returns a copy of the events recorded so far.
func (h *RecordingStatsHandler) Events() []cachestats.Event {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]cachestats.Event(nil), h.events...)
}
