package realtime_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/feltops/clubportal/cache"
	"github.com/feltops/clubportal/realtime"
	"github.com/feltops/clubportal/realtime/realtimefakes"
)

type recordingInvalidator struct {
	lock      sync.Mutex
	keys      []cache.Key
	resources []string
}

func (ri *recordingInvalidator) Invalidate(keys ...cache.Key) {
	ri.lock.Lock()
	defer ri.lock.Unlock()
	ri.keys = append(ri.keys, keys...)
}

func (ri *recordingInvalidator) InvalidateResource(resource string) {
	ri.lock.Lock()
	defer ri.lock.Unlock()
	ri.resources = append(ri.resources, resource)
}

func (ri *recordingInvalidator) invalidatedKeys() []cache.Key {
	ri.lock.Lock()
	defer ri.lock.Unlock()
	return append([]cache.Key(nil), ri.keys...)
}

func (ri *recordingInvalidator) invalidatedResources() []string {
	ri.lock.Lock()
	defer ri.lock.Unlock()
	return append([]string(nil), ri.resources...)
}

func TestRegistry_NoClubNoChannels(t *testing.T) {
	transport := realtimefakes.NewFakeTransport()
	inval := &recordingInvalidator{}
	registry := realtime.NewRegistry(transport, inval)

	require.NoError(t, registry.Start(context.Background(), ""))
	require.Empty(t, transport.OpenChannels())
	require.Empty(t, inval.invalidatedKeys())
}

func TestRegistry_OpensChannelPerBinding(t *testing.T) {
	transport := realtimefakes.NewFakeTransport()
	registry := realtime.NewRegistry(transport, &recordingInvalidator{})
	t.Cleanup(registry.Stop)

	require.NoError(t, registry.Start(context.Background(), "club-1"))
	require.Len(t, transport.OpenChannels(), len(realtime.DefaultBindings()))
	require.Contains(t, transport.OpenChannels(), "realtime:players:club-1")
	// Notifications is a shared table: subscribed without a club filter.
	require.Contains(t, transport.OpenChannels(), "realtime:notifications")
}

func TestRegistry_EventInvalidatesBoundKeys(t *testing.T) {
	transport := realtimefakes.NewFakeTransport()
	inval := &recordingInvalidator{}
	registry := realtime.NewRegistry(transport, inval)
	t.Cleanup(registry.Stop)

	require.NoError(t, registry.Start(context.Background(), "club-1"))

	require.True(t, transport.Push("realtime:players:club-1", realtime.Event{
		Resource: cache.ResourcePlayers,
		Type:     realtime.EventUpdate,
		ClubID:   "club-1",
	}))

	require.Eventually(t, func() bool {
		for _, k := range inval.invalidatedKeys() {
			if k == cache.PlayersKey("club-1") {
				return true
			}
		}
		return false
	}, time.Second, time.Millisecond)
}

func TestRegistry_StaleClubEventsIgnored(t *testing.T) {
	transport := realtimefakes.NewFakeTransport()
	inval := &recordingInvalidator{}
	registry := realtime.NewRegistry(transport, inval)
	t.Cleanup(registry.Stop)

	require.NoError(t, registry.Start(context.Background(), "club-1"))

	require.True(t, transport.Push("realtime:players:club-1", realtime.Event{
		Resource: cache.ResourcePlayers,
		Type:     realtime.EventInsert,
		ClubID:   "club-OTHER",
	}))

	time.Sleep(20 * time.Millisecond)
	require.Empty(t, inval.invalidatedKeys())
}

func TestRegistry_NilKeysBindingInvalidatesResource(t *testing.T) {
	transport := realtimefakes.NewFakeTransport()
	inval := &recordingInvalidator{}
	registry := realtime.NewRegistry(transport, inval)
	t.Cleanup(registry.Stop)

	require.NoError(t, registry.Start(context.Background(), "club-1"))

	require.True(t, transport.Push("realtime:waitlist:club-1", realtime.Event{
		Resource: cache.ResourceWaitlist,
		Type:     realtime.EventInsert,
		ClubID:   "club-1",
	}))

	require.Eventually(t, func() bool {
		for _, r := range inval.invalidatedResources() {
			if r == cache.ResourceWaitlist {
				return true
			}
		}
		return false
	}, time.Second, time.Millisecond)
}

func TestRegistry_StopClosesEveryChannel(t *testing.T) {
	transport := realtimefakes.NewFakeTransport()
	inval := &recordingInvalidator{}
	registry := realtime.NewRegistry(transport, inval)

	require.NoError(t, registry.Start(context.Background(), "club-1"))
	require.NotEmpty(t, transport.OpenChannels())

	registry.Stop()
	require.Empty(t, transport.OpenChannels())

	// An event from the torn-down club cannot invalidate anything.
	require.False(t, transport.Push("realtime:players:club-1", realtime.Event{
		Resource: cache.ResourcePlayers,
		ClubID:   "club-1",
	}))
	time.Sleep(20 * time.Millisecond)
	require.Empty(t, inval.invalidatedKeys())
}

func TestRegistry_ClubSwitchReopensChannels(t *testing.T) {
	transport := realtimefakes.NewFakeTransport()
	inval := &recordingInvalidator{}
	registry := realtime.NewRegistry(transport, inval)
	t.Cleanup(registry.Stop)

	require.NoError(t, registry.Start(context.Background(), "club-1"))
	require.NoError(t, registry.Start(context.Background(), "club-2"))
	require.Equal(t, "club-2", registry.ClubID())

	require.Contains(t, transport.OpenChannels(), "realtime:players:club-2")
	require.NotContains(t, transport.OpenChannels(), "realtime:players:club-1")

	// Events for the old club have nowhere to land.
	require.False(t, transport.Push("realtime:players:club-1", realtime.Event{
		Resource: cache.ResourcePlayers,
		ClubID:   "club-1",
	}))
}

func TestRegistry_SubscribeFailureDegradesQuietly(t *testing.T) {
	transport := realtimefakes.NewFakeTransport()
	transport.SubscribeErr = context.DeadlineExceeded
	inval := &recordingInvalidator{}
	registry := realtime.NewRegistry(transport, inval)
	t.Cleanup(registry.Stop)

	// Every channel fails to open; the portal stays usable on fetch.
	require.NoError(t, registry.Start(context.Background(), "club-1"))
	require.Empty(t, transport.OpenChannels())
}
