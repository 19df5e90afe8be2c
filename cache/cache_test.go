package cache_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/feltops/clubportal/cache"
	"github.com/feltops/clubportal/internal/errors"
)

func key() cache.Key {
	return cache.PendingBuyInsKey("club-1")
}

func TestCache_GetUnregistered(t *testing.T) {
	c := cache.New()
	defer c.Close()
	_, err := c.Get(context.Background(), key())
	require.ErrorIs(t, err, errors.ErrQueryNotRegistered)
}

func TestCache_ConcurrentGetsCollapse(t *testing.T) {
	c := cache.New()
	defer c.Close()

	var fetches atomic.Int32
	release := make(chan struct{})
	require.NoError(t, c.Register(cache.Query{
		Key: key(),
		Fetch: func(ctx context.Context) (any, error) {
			fetches.Add(1)
			<-release
			return "pending-list", nil
		},
	}))

	var wg sync.WaitGroup
	results := make([]any, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := c.Get(context.Background(), key())
			require.NoError(t, err)
			results[i] = v
		}(i)
	}

	// Let every goroutine reach the singleflight barrier before releasing.
	require.Eventually(t, func() bool { return fetches.Load() == 1 }, time.Second, time.Millisecond)
	close(release)
	wg.Wait()

	require.EqualValues(t, 1, fetches.Load())
	for _, v := range results {
		require.Equal(t, "pending-list", v)
	}
}

func TestCache_InvalidateBurstCoalesces(t *testing.T) {
	c := cache.New()
	defer c.Close()

	var fetches atomic.Int32
	gate := make(chan struct{})
	require.NoError(t, c.Register(cache.Query{
		Key: key(),
		Fetch: func(ctx context.Context) (any, error) {
			n := int(fetches.Add(1))
			if n > 1 {
				<-gate
			}
			return n, nil
		},
	}))

	_, err := c.Get(context.Background(), key())
	require.NoError(t, err)
	require.EqualValues(t, 1, fetches.Load())

	watch, cancel := c.Watch(key())
	defer cancel()

	// A burst of realtime events for the same resource; the refetch is held
	// at the gate until the whole burst has been delivered.
	for i := 0; i < 10; i++ {
		c.Invalidate(key())
	}
	close(gate)

	select {
	case <-watch:
	case <-time.After(time.Second):
		t.Fatal("watcher never notified after invalidation")
	}

	// Exactly one refetch for the whole burst.
	require.EqualValues(t, 2, fetches.Load())

	v, err := c.Get(context.Background(), key())
	require.NoError(t, err)
	require.Equal(t, 2, v)
}

func TestCache_InvalidateBeforeFirstFetch(t *testing.T) {
	c := cache.New()
	defer c.Close()

	var fetches atomic.Int32
	require.NoError(t, c.Register(cache.Query{
		Key: key(),
		Fetch: func(ctx context.Context) (any, error) {
			return int(fetches.Add(1)), nil
		},
	}))

	// Nothing cached yet, so there is nothing to refetch.
	c.Invalidate(key())
	c.Invalidate(key())
	time.Sleep(10 * time.Millisecond)
	require.Zero(t, fetches.Load())

	v, err := c.Get(context.Background(), key())
	require.NoError(t, err)
	require.Equal(t, 1, v)
	require.EqualValues(t, 1, fetches.Load())
}

func TestCache_InvalidateDuringFirstFetch(t *testing.T) {
	c := cache.New()
	defer c.Close()

	var fetches atomic.Int32
	release := make(chan struct{})
	require.NoError(t, c.Register(cache.Query{
		Key: key(),
		Fetch: func(ctx context.Context) (any, error) {
			n := int(fetches.Add(1))
			if n == 1 {
				<-release
			}
			return n, nil
		},
	}))

	done := make(chan any, 1)
	go func() {
		v, err := c.Get(context.Background(), key())
		require.NoError(t, err)
		done <- v
	}()

	// An event lands while the first fetch is still on the wire; the
	// value that fetch brings back is already out of date.
	require.Eventually(t, func() bool { return fetches.Load() == 1 }, time.Second, time.Millisecond)
	c.Invalidate(key())
	close(release)

	select {
	case v := <-done:
		require.Equal(t, 2, v)
	case <-time.After(time.Second):
		t.Fatal("read never completed")
	}
	require.EqualValues(t, 2, fetches.Load())

	v, err := c.Get(context.Background(), key())
	require.NoError(t, err)
	require.Equal(t, 2, v)
}

func TestCache_StaleValueServedWhileRefetchPending(t *testing.T) {
	c := cache.New()
	defer c.Close()

	var fetches atomic.Int32
	release := make(chan struct{})
	require.NoError(t, c.Register(cache.Query{
		Key: key(),
		Fetch: func(ctx context.Context) (any, error) {
			n := int(fetches.Add(1))
			if n > 1 {
				<-release
			}
			return n, nil
		},
	}))

	v, err := c.Get(context.Background(), key())
	require.NoError(t, err)
	require.Equal(t, 1, v)

	c.Invalidate(key())

	// The refetch is blocked; reads keep serving the stale value.
	v, err = c.Get(context.Background(), key())
	require.NoError(t, err)
	require.Equal(t, 1, v)

	close(release)
	require.Eventually(t, func() bool {
		v, err := c.Get(context.Background(), key())
		require.NoError(t, err)
		return v == 2
	}, time.Second, time.Millisecond)
}

func TestCache_FailedRefetchLeavesStale(t *testing.T) {
	c := cache.New()
	defer c.Close()

	var fetches atomic.Int32
	fail := atomic.Bool{}
	require.NoError(t, c.Register(cache.Query{
		Key: key(),
		Fetch: func(ctx context.Context) (any, error) {
			n := int(fetches.Add(1))
			if fail.Load() {
				return nil, errors.ErrInternal
			}
			return n, nil
		},
	}))

	_, err := c.Get(context.Background(), key())
	require.NoError(t, err)

	fail.Store(true)
	c.Invalidate(key())
	require.Eventually(t, func() bool { return fetches.Load() == 2 }, time.Second, time.Millisecond)

	// The failed refetch left the entry stale; the next read retries.
	fail.Store(false)
	require.Eventually(t, func() bool {
		v, err := c.Get(context.Background(), key())
		return err == nil && v == 3
	}, time.Second, time.Millisecond)
}

func TestCache_IntervalRefresh(t *testing.T) {
	c := cache.New()
	defer c.Close()

	var fetches atomic.Int32
	require.NoError(t, c.Register(cache.Query{
		Key:     cache.UnreadCountKey("club-1"),
		Refresh: 20 * time.Millisecond,
		Fetch: func(ctx context.Context) (any, error) {
			return int(fetches.Add(1)), nil
		},
	}))

	_, err := c.Get(context.Background(), cache.UnreadCountKey("club-1"))
	require.NoError(t, err)

	require.Eventually(t, func() bool { return fetches.Load() >= 3 }, time.Second, 5*time.Millisecond)
}

func TestCache_InvalidateResource(t *testing.T) {
	c := cache.New()
	defer c.Close()

	var listFetches, countFetches atomic.Int32
	require.NoError(t, c.Register(cache.Query{
		Key:   cache.NotificationsKey("club-1"),
		Fetch: func(ctx context.Context) (any, error) { return int(listFetches.Add(1)), nil },
	}))
	require.NoError(t, c.Register(cache.Query{
		Key:   cache.UnreadCountKey("club-1"),
		Fetch: func(ctx context.Context) (any, error) { return int(countFetches.Add(1)), nil },
	}))

	_, err := c.Get(context.Background(), cache.NotificationsKey("club-1"))
	require.NoError(t, err)
	_, err = c.Get(context.Background(), cache.UnreadCountKey("club-1"))
	require.NoError(t, err)

	c.InvalidateResource(cache.ResourceNotifications)

	require.Eventually(t, func() bool {
		return listFetches.Load() == 2 && countFetches.Load() == 2
	}, time.Second, time.Millisecond)
}

func TestCache_ResetDropsEntriesAndRefreshers(t *testing.T) {
	c := cache.New()
	defer c.Close()

	var fetches atomic.Int32
	require.NoError(t, c.Register(cache.Query{
		Key:     cache.UnreadCountKey("club-1"),
		Refresh: 10 * time.Millisecond,
		Fetch:   func(ctx context.Context) (any, error) { return int(fetches.Add(1)), nil },
	}))
	_, err := c.Get(context.Background(), cache.UnreadCountKey("club-1"))
	require.NoError(t, err)

	c.Reset()

	_, err = c.Get(context.Background(), cache.UnreadCountKey("club-1"))
	require.ErrorIs(t, err, errors.ErrQueryNotRegistered)

	// The dropped registration's interval refresher no longer fetches.
	time.Sleep(20 * time.Millisecond)
	n := fetches.Load()
	time.Sleep(50 * time.Millisecond)
	require.Equal(t, n, fetches.Load())

	// The reset cache accepts a fresh registration.
	require.NoError(t, c.Register(cache.Query{
		Key:   cache.UnreadCountKey("club-2"),
		Fetch: func(ctx context.Context) (any, error) { return "fresh", nil },
	}))
	v, err := c.Get(context.Background(), cache.UnreadCountKey("club-2"))
	require.NoError(t, err)
	require.Equal(t, "fresh", v)
}

func TestCache_CloseRejectsUse(t *testing.T) {
	c := cache.New()
	require.NoError(t, c.Register(cache.Query{
		Key:   key(),
		Fetch: func(ctx context.Context) (any, error) { return nil, nil },
	}))
	c.Close()

	_, err := c.Get(context.Background(), key())
	require.ErrorIs(t, err, errors.ErrCacheClosed)
	require.ErrorIs(t, c.Register(cache.Query{Key: key()}), errors.ErrCacheClosed)
}
