package portal

import (
	"context"
	"time"

	"github.com/feltops/clubportal/api"
	"github.com/feltops/clubportal/cache"
	"github.com/feltops/clubportal/internal/errors"
)

// QuerySource is the read side of the API client the standard queries fetch
// through.
type QuerySource interface {
	ListPlayers(ctx context.Context) ([]api.Player, error)
	ListStaff(ctx context.Context) ([]api.Staff, error)
	ListTables(ctx context.Context) ([]api.Table, error)
	ListTournaments(ctx context.Context) ([]api.Tournament, error)
	ListTransactions(ctx context.Context, limit int) ([]api.Transaction, error)
	ListPendingBuyIns(ctx context.Context) ([]api.ChipRequest, error)
	ListPendingCashOuts(ctx context.Context) ([]api.ChipRequest, error)
	ListCredits(ctx context.Context) ([]api.CreditEntry, error)
	ListLeaves(ctx context.Context) ([]api.Leave, error)
	ListChatSessions(ctx context.Context) ([]api.ChatSession, error)
	ListNotifications(ctx context.Context) ([]api.Notification, error)
	UnreadNotificationCount(ctx context.Context) (int, error)
}

var _ QuerySource = (*api.Client)(nil)

// RefreshIntervals configures the polling fallback layered on top of
// realtime for a few queries.
type RefreshIntervals struct {
	UnreadCount     time.Duration
	PendingRequests time.Duration
	Waitlist        time.Duration
}

const recentTransactionsLimit = 100

// RegisterClubQueries registers every shared dashboard query for clubID.
// With no club there is nothing to register and nothing may be fetched.
func RegisterClubQueries(c *cache.Cache, src QuerySource, clubID string, refresh RefreshIntervals) error {
	if clubID == "" {
		return errors.Wrapf(errors.ErrNoClub, "[RegisterClubQueries]")
	}

	queries := []cache.Query{
		{Key: cache.PlayersKey(clubID), Fetch: func(ctx context.Context) (any, error) {
			return src.ListPlayers(ctx)
		}},
		{Key: cache.StaffKey(clubID), Fetch: func(ctx context.Context) (any, error) {
			return src.ListStaff(ctx)
		}},
		{Key: cache.TablesKey(clubID), Fetch: func(ctx context.Context) (any, error) {
			return src.ListTables(ctx)
		}},
		{Key: cache.TournamentsKey(clubID), Fetch: func(ctx context.Context) (any, error) {
			return src.ListTournaments(ctx)
		}},
		{Key: cache.TransactionsKey(clubID), Fetch: func(ctx context.Context) (any, error) {
			return src.ListTransactions(ctx, recentTransactionsLimit)
		}},
		{Key: cache.PendingBuyInsKey(clubID), Refresh: refresh.PendingRequests, Fetch: func(ctx context.Context) (any, error) {
			return src.ListPendingBuyIns(ctx)
		}},
		{Key: cache.PendingCashOutsKey(clubID), Refresh: refresh.PendingRequests, Fetch: func(ctx context.Context) (any, error) {
			return src.ListPendingCashOuts(ctx)
		}},
		{Key: cache.CreditsKey(clubID), Fetch: func(ctx context.Context) (any, error) {
			return src.ListCredits(ctx)
		}},
		{Key: cache.LeavesKey(clubID), Fetch: func(ctx context.Context) (any, error) {
			return src.ListLeaves(ctx)
		}},
		{Key: cache.ChatsKey(clubID), Fetch: func(ctx context.Context) (any, error) {
			return src.ListChatSessions(ctx)
		}},
		{Key: cache.NotificationsKey(clubID), Fetch: func(ctx context.Context) (any, error) {
			return src.ListNotifications(ctx)
		}},
		{Key: cache.UnreadCountKey(clubID), Refresh: refresh.UnreadCount, Fetch: func(ctx context.Context) (any, error) {
			return src.UnreadNotificationCount(ctx)
		}},
	}

	for _, q := range queries {
		if err := c.Register(q); err != nil {
			return errors.Wrapf(err, "[RegisterClubQueries] %s", q.Key)
		}
	}
	return nil
}

// TableWaitlist serves a table's waitlist, registering its query the first
// time the table is opened.
func (s *Service) TableWaitlist(ctx context.Context, tableID string) (any, error) {
	clubID, err := s.ensureTableQueries(tableID)
	if err != nil {
		return nil, err
	}
	return s.deps.Cache.Get(ctx, cache.WaitlistKey(clubID, tableID))
}

// TableRake serves a table's rake ledger.
func (s *Service) TableRake(ctx context.Context, tableID string) (any, error) {
	clubID, err := s.ensureTableQueries(tableID)
	if err != nil {
		return nil, err
	}
	return s.deps.Cache.Get(ctx, cache.RakeKey(clubID, tableID))
}

// ensureTableQueries registers the per-table queries once per club+table.
// Tables are opened on demand, so these cannot be part of the standard
// club-wide registration.
func (s *Service) ensureTableQueries(tableID string) (string, error) {
	clubID := s.deps.Session.Identity().ClubID
	if clubID == "" {
		return "", errors.ErrNoClub
	}

	s.tableLock.Lock()
	defer s.tableLock.Unlock()
	mapKey := clubID + "|" + tableID
	if _, open := s.openTables[mapKey]; open {
		return clubID, nil
	}

	queries := []cache.Query{
		{Key: cache.WaitlistKey(clubID, tableID), Refresh: s.refresh.Waitlist, Fetch: func(ctx context.Context) (any, error) {
			return s.deps.Backend.ListWaitlist(ctx, tableID)
		}},
		{Key: cache.RakeKey(clubID, tableID), Fetch: func(ctx context.Context) (any, error) {
			return s.deps.Backend.ListRake(ctx, tableID)
		}},
	}
	for _, q := range queries {
		if err := s.deps.Cache.Register(q); err != nil {
			return "", errors.Wrapf(err, "[ensureTableQueries] %s", q.Key)
		}
	}
	s.openTables[mapKey] = struct{}{}
	return clubID, nil
}
