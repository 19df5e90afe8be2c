package realtime_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/feltops/clubportal/cache"
	"github.com/feltops/clubportal/realtime"
)

func TestSubscription_DeliverAfterCloseIsSafe(t *testing.T) {
	closes := 0
	sub := realtime.NewSubscription(realtime.Channel{Resource: cache.ResourceBuyInRequests, ClubID: "club-1"}, 1, func() { closes++ })

	ev := realtime.Event{Resource: cache.ResourceBuyInRequests, ClubID: "club-1"}
	require.True(t, sub.Deliver(ev))

	sub.Close()
	require.NotPanics(t, func() {
		require.False(t, sub.Deliver(ev))
	})

	// Close is idempotent and the channel drains the buffered event then ends.
	sub.Close()
	require.Equal(t, 1, closes)
	<-sub.Events()
	_, open := <-sub.Events()
	require.False(t, open)
}

func TestSubscription_ConcurrentDeliverAndClose(t *testing.T) {
	sub := realtime.NewSubscription(realtime.Channel{Resource: cache.ResourceCashOutRequests, ClubID: "club-1"}, 4, nil)
	ev := realtime.Event{Resource: cache.ResourceCashOutRequests, ClubID: "club-1"}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sub.Deliver(ev)
		}()
	}
	sub.Close()
	wg.Wait()
}
