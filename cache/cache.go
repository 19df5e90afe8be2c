// Package cache is the portal's client-side query cache: server responses
// keyed by semantic query identity, invalidated rather than written by
// realtime events, with concurrent identical reads collapsed into a single
// upstream fetch.
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/feltops/clubportal/internal/errors"
)

// Key identifies one cached query: the logical resource, the club scope,
// and any extra parameters (table id, limits).
type Key struct {
	Resource string
	ClubID   string
	Params   string
}

func (k Key) String() string {
	return fmt.Sprintf("%s|%s|%s", k.Resource, k.ClubID, k.Params)
}

// FetchFunc loads the query's value from the backend.
type FetchFunc func(ctx context.Context) (any, error)

// Query couples a key with its fetcher. Refresh > 0 layers an interval
// invalidation on top of realtime/manual triggers; all staleness sources
// collapse into the same refetch path.
type Query struct {
	Key     Key
	Fetch   FetchFunc
	Refresh time.Duration
}

type entry struct {
	query          Query
	value          any
	fetched        bool
	fetchedAt      time.Time
	stale          bool
	refetchPending bool
	gen            uint64
}

// Cache is process-wide and shared by every dashboard; any component may
// invalidate any key. Last successful fetch wins.
type Cache struct {
	lock     sync.Mutex
	log      zerolog.Logger
	nowTime  func() time.Time
	entries  map[Key]*entry
	watchers map[Key]map[chan struct{}]struct{}
	group    singleflight.Group
	stop     chan struct{}
	wg       sync.WaitGroup
	closed   bool
}

// Option modifies the Cache instance.
type Option func(*Cache)

func WithLogger(log zerolog.Logger) Option {
	return func(c *Cache) { c.log = log }
}

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) Option {
	return func(c *Cache) { c.nowTime = nowFunc }
}

func New(options ...Option) *Cache {
	c := &Cache{
		log:      zerolog.Nop(),
		nowTime:  time.Now,
		entries:  make(map[Key]*entry),
		watchers: make(map[Key]map[chan struct{}]struct{}),
		stop:     make(chan struct{}),
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// Register adds a query. Registering an existing key replaces its fetcher
// and drops the cached value.
func (c *Cache) Register(q Query) error {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.closed {
		return errors.ErrCacheClosed
	}
	c.entries[q.Key] = &entry{query: q}
	if q.Refresh > 0 {
		c.wg.Add(1)
		go c.refreshLoop(q.Key, q.Refresh, c.stop)
	}
	return nil
}

// refreshLoop is the polling fallback: it feeds the same invalidation path
// the realtime registry uses. The stop channel is captured at Register time
// so a Reset only ends the loops of the generation it replaces.
func (c *Cache) refreshLoop(key Key, every time.Duration, stop <-chan struct{}) {
	defer c.wg.Done()
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			c.Invalidate(key)
		}
	}
}

// Get returns the cached value, fetching if the entry is empty or stale
// with no refetch in flight. A stale value with a pending refetch is served
// as-is; the watcher fires when the fresh value lands.
func (c *Cache) Get(ctx context.Context, key Key) (any, error) {
	c.lock.Lock()
	if c.closed {
		c.lock.Unlock()
		return nil, errors.ErrCacheClosed
	}
	e, ok := c.entries[key]
	if !ok {
		c.lock.Unlock()
		return nil, errors.Wrapf(errors.ErrQueryNotRegistered, "[Cache Get] %s", key)
	}
	if e.fetched && (!e.stale || e.refetchPending) {
		value := e.value
		c.lock.Unlock()
		return value, nil
	}
	c.lock.Unlock()
	return c.fetch(ctx, key)
}

// fetch funnels through singleflight so concurrent identical reads produce
// one upstream call.
func (c *Cache) fetch(ctx context.Context, key Key) (any, error) {
	value, err, _ := c.group.Do(key.String(), func() (any, error) {
		for {
			c.lock.Lock()
			e, ok := c.entries[key]
			if !ok {
				c.lock.Unlock()
				return nil, errors.Wrapf(errors.ErrQueryNotRegistered, "[Cache fetch] %s", key)
			}
			if e.fetched && !e.stale {
				value := e.value
				c.lock.Unlock()
				return value, nil
			}
			fetchFn := e.query.Fetch
			startGen := e.gen
			c.lock.Unlock()

			value, err := fetchFn(ctx)
			if err != nil {
				c.lock.Lock()
				if e, ok := c.entries[key]; ok {
					e.refetchPending = false
				}
				c.lock.Unlock()
				return nil, err
			}

			c.lock.Lock()
			e, ok = c.entries[key]
			if !ok {
				c.lock.Unlock()
				return value, nil
			}
			e.value = value
			e.fetched = true
			e.fetchedAt = c.nowTime()
			if e.gen != startGen {
				// Invalidated while the fetch was in flight; go around
				// once more so the result reflects the newest event.
				e.stale = true
				e.refetchPending = true
				c.lock.Unlock()
				continue
			}
			e.stale = false
			e.refetchPending = false
			watchers := c.watcherSnapshot(key)
			c.lock.Unlock()

			notify(watchers)
			return value, nil
		}
	})
	return value, err
}

// Invalidate marks keys stale. The first fresh-to-stale transition
// schedules exactly one asynchronous refetch; invalidations arriving while
// that refetch is pending are no-ops, so event bursts coalesce.
func (c *Cache) Invalidate(keys ...Key) {
	for _, key := range keys {
		c.lock.Lock()
		if c.closed {
			c.lock.Unlock()
			return
		}
		e, ok := c.entries[key]
		if !ok || e.refetchPending || (e.stale && !e.fetched) {
			c.lock.Unlock()
			continue
		}
		wasFetched := e.fetched
		e.gen++
		e.stale = true
		e.refetchPending = wasFetched
		c.lock.Unlock()

		if !wasFetched {
			// Nothing cached yet; the first Get will fetch.
			continue
		}

		k := key
		go func() {
			if _, err := c.fetch(context.Background(), k); err != nil {
				c.log.Warn().Str("key", k.String()).Err(err).Msg("refetch failed")
			}
		}()
	}
}

// InvalidateResource marks every key of a resource stale.
func (c *Cache) InvalidateResource(resource string) {
	c.lock.Lock()
	var keys []Key
	for key := range c.entries {
		if key.Resource == resource {
			keys = append(keys, key)
		}
	}
	c.lock.Unlock()
	c.Invalidate(keys...)
}

// Watch returns a channel that receives a tick after each successful fetch
// of key, and a cancel function. Notification never blocks; a watcher that
// has not drained the previous tick misses the new one, which is harmless
// because a tick only means "re-read the cache".
func (c *Cache) Watch(key Key) (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	c.lock.Lock()
	if c.watchers[key] == nil {
		c.watchers[key] = make(map[chan struct{}]struct{})
	}
	c.watchers[key][ch] = struct{}{}
	c.lock.Unlock()

	cancel := func() {
		c.lock.Lock()
		delete(c.watchers[key], ch)
		c.lock.Unlock()
	}
	return ch, cancel
}

func (c *Cache) watcherSnapshot(key Key) []chan struct{} {
	watchers := make([]chan struct{}, 0, len(c.watchers[key]))
	for ch := range c.watchers[key] {
		watchers = append(watchers, ch)
	}
	return watchers
}

func notify(watchers []chan struct{}) {
	for _, ch := range watchers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Reset drops every registered query, its cached values, and its interval
// refreshers, leaving the cache ready for a fresh registration. Used when
// the signed-in club changes.
func (c *Cache) Reset() {
	c.lock.Lock()
	if c.closed {
		c.lock.Unlock()
		return
	}
	close(c.stop)
	c.stop = make(chan struct{})
	c.entries = make(map[Key]*entry)
	c.watchers = make(map[Key]map[chan struct{}]struct{})
	c.lock.Unlock()
}

// Close stops interval refreshers and rejects further use.
func (c *Cache) Close() {
	c.lock.Lock()
	if c.closed {
		c.lock.Unlock()
		return
	}
	c.closed = true
	close(c.stop)
	c.lock.Unlock()
	c.wg.Wait()
}
