package realtime

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/feltops/clubportal/cache"
)

// Invalidator is the slice of the query cache the registry needs.
type Invalidator interface {
	Invalidate(keys ...cache.Key)
	InvalidateResource(resource string)
}

// Binding maps one watched resource to the cache keys its events stale. A
// nil Keys func invalidates the whole resource, used where keys carry
// per-table params the event does not identify.
type Binding struct {
	Resource   string
	Unfiltered bool
	Keys       func(clubID string) []cache.Key
}

// DefaultBindings covers every resource the dashboards watch. Transactions
// also stale the player list because balances are displayed there; approved
// requests land in the transaction feed.
func DefaultBindings() []Binding {
	return []Binding{
		{Resource: cache.ResourcePlayers, Keys: func(club string) []cache.Key {
			return []cache.Key{cache.PlayersKey(club)}
		}},
		{Resource: cache.ResourceStaff, Keys: func(club string) []cache.Key {
			return []cache.Key{cache.StaffKey(club)}
		}},
		{Resource: cache.ResourceTables, Keys: func(club string) []cache.Key {
			return []cache.Key{cache.TablesKey(club)}
		}},
		{Resource: cache.ResourceWaitlist},
		{Resource: cache.ResourceTournaments, Keys: func(club string) []cache.Key {
			return []cache.Key{cache.TournamentsKey(club)}
		}},
		{Resource: cache.ResourceTransactions, Keys: func(club string) []cache.Key {
			return []cache.Key{cache.TransactionsKey(club), cache.PlayersKey(club)}
		}},
		{Resource: cache.ResourceBuyInRequests, Keys: func(club string) []cache.Key {
			return []cache.Key{cache.PendingBuyInsKey(club), cache.TransactionsKey(club)}
		}},
		{Resource: cache.ResourceCashOutRequests, Keys: func(club string) []cache.Key {
			return []cache.Key{cache.PendingCashOutsKey(club), cache.TransactionsKey(club)}
		}},
		{Resource: cache.ResourceCredits, Keys: func(club string) []cache.Key {
			return []cache.Key{cache.CreditsKey(club)}
		}},
		{Resource: cache.ResourceLeaves, Keys: func(club string) []cache.Key {
			return []cache.Key{cache.LeavesKey(club)}
		}},
		{Resource: cache.ResourceChats},
		{Resource: cache.ResourceNotifications, Unfiltered: true, Keys: func(club string) []cache.Key {
			return []cache.Key{cache.NotificationsKey(club), cache.UnreadCountKey(club)}
		}},
		{Resource: cache.ResourceRake},
	}
}

// Registry opens one channel per binding for the signed-in club and turns
// every event into cache invalidations. There is no local merge and no
// ordering assumption: duplicate or out-of-order events are harmless.
type Registry struct {
	transport Transport
	inval     Invalidator
	log       zerolog.Logger
	bindings  []Binding

	lock   sync.Mutex
	clubID string
	subs   []*Subscription
	wg     sync.WaitGroup
}

// RegistryOption modifies the Registry instance.
type RegistryOption func(*Registry)

func WithRegistryLogger(log zerolog.Logger) RegistryOption {
	return func(r *Registry) { r.log = log }
}

// WithBindings replaces the default binding set.
func WithBindings(bindings []Binding) RegistryOption {
	return func(r *Registry) { r.bindings = bindings }
}

func NewRegistry(transport Transport, inval Invalidator, options ...RegistryOption) *Registry {
	r := &Registry{
		transport: transport,
		inval:     inval,
		log:       zerolog.Nop(),
		bindings:  DefaultBindings(),
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// Start opens every channel for clubID. An empty club id is a no-op: no
// club, no subscriptions. Starting for a new club tears down the previous
// club's channels first; channels are never reused across clubs.
func (r *Registry) Start(ctx context.Context, clubID string) error {
	r.Stop()
	if clubID == "" {
		return nil
	}

	r.lock.Lock()
	r.clubID = clubID
	r.lock.Unlock()

	for _, binding := range r.bindings {
		ch := Channel{Resource: binding.Resource, ClubID: clubID, Unfiltered: binding.Unfiltered}
		sub, err := r.transport.Subscribe(ctx, ch)
		if err != nil {
			// A failed channel degrades that resource to interval refresh;
			// it is logged, not fatal.
			r.log.Warn().Str("resource", binding.Resource).Err(err).Msg("subscribe failed")
			continue
		}

		r.lock.Lock()
		r.subs = append(r.subs, sub)
		r.lock.Unlock()

		r.wg.Add(1)
		go r.consume(sub, binding, clubID)
	}
	return nil
}

func (r *Registry) consume(sub *Subscription, binding Binding, clubID string) {
	defer r.wg.Done()
	for ev := range sub.Events() {
		if !binding.Unfiltered && ev.ClubID != clubID {
			// Server-side filters should prevent this; guard anyway so a
			// stale-club event can never stale another club's queries.
			continue
		}
		if binding.Keys == nil {
			r.inval.InvalidateResource(binding.Resource)
			continue
		}
		r.inval.Invalidate(binding.Keys(clubID)...)
	}
}

// Stop closes every open channel and waits for the consumers to drain. No
// event from a previous club can trigger invalidation afterwards.
func (r *Registry) Stop() {
	r.lock.Lock()
	subs := r.subs
	r.subs = nil
	r.clubID = ""
	r.lock.Unlock()

	for _, sub := range subs {
		sub.Close()
	}
	r.wg.Wait()
}

// ClubID reports the club the registry is currently serving.
func (r *Registry) ClubID() string {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.clubID
}
