package portal

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/feltops/clubportal/api"
	"github.com/feltops/clubportal/cache"
	"github.com/feltops/clubportal/internal/errors"
	"github.com/feltops/clubportal/session"
)

// Backend is the slice of the API client the dashboards act through.
// *api.Client satisfies it; tests substitute a counting fake.
type Backend interface {
	CreatePlayer(ctx context.Context, req api.CreatePlayerRequest) (*api.Player, error)
	SuspendPlayer(ctx context.Context, req api.SuspendPlayerRequest) error
	UploadFile(ctx context.Context, kind api.UploadKind, filename, contentType string, r io.Reader, size int64) (string, error)

	ApproveBuyIn(ctx context.Context, requestID string, amount int64) error
	RejectBuyIn(ctx context.Context, requestID, reason string) error
	ApproveCashOut(ctx context.Context, requestID string, amount int64) error
	RejectCashOut(ctx context.Context, requestID, reason string) error

	StartTournamentSession(ctx context.Context, tournamentID string) error
	PauseTournamentSession(ctx context.Context, tournamentID string) error
	ResumeTournamentSession(ctx context.Context, tournamentID string) error
	StopTournamentSession(ctx context.Context, tournamentID string) error

	SendNotification(ctx context.Context, req api.SendNotificationRequest) error
	CollectRake(ctx context.Context, tableID string, amount int64) error
	GrantCredit(ctx context.Context, playerID string, amount int64) error

	ListWaitlist(ctx context.Context, tableID string) ([]api.WaitlistEntry, error)
	ListRake(ctx context.Context, tableID string) ([]api.RakeEntry, error)
}

var _ Backend = (*api.Client)(nil)

// Deps holds all dependencies for the Service.
type Deps struct {
	Backend Backend
	Cache   *cache.Cache
	Session session.Reader
	Toast   Toaster
}

// Service carries the portal's actions and dashboard composition. It holds
// no business rules: every integrity decision is the backend's, and the
// guards here are UX conveniences that block obviously-incomplete
// submissions before they reach the wire.
type Service struct {
	deps    Deps
	log     zerolog.Logger
	nowTime func() time.Time

	refresh    RefreshIntervals
	tableLock  sync.Mutex
	openTables map[string]struct{}
}

// ServiceOption modifies the Service instance.
type ServiceOption func(*Service)

func WithLogger(log zerolog.Logger) ServiceOption {
	return func(s *Service) { s.log = log }
}

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ServiceOption {
	return func(s *Service) { s.nowTime = nowFunc }
}

// WithRefreshIntervals sets the polling intervals for the queries the
// service registers on demand.
func WithRefreshIntervals(refresh RefreshIntervals) ServiceOption {
	return func(s *Service) { s.refresh = refresh }
}

func NewService(deps Deps, options ...ServiceOption) (*Service, error) {
	if deps.Backend == nil {
		return nil, errors.Wrapf(errors.ErrInternal, "[NewService] Backend is required")
	}
	if deps.Cache == nil {
		return nil, errors.Wrapf(errors.ErrInternal, "[NewService] Cache is required")
	}
	if deps.Session == nil {
		return nil, errors.Wrapf(errors.ErrInternal, "[NewService] Session is required")
	}
	if deps.Toast == nil {
		return nil, errors.Wrapf(errors.ErrInternal, "[NewService] Toast is required")
	}

	s := &Service{
		deps:       deps,
		log:        zerolog.Nop(),
		nowTime:    time.Now,
		openTables: make(map[string]struct{}),
	}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

// clubID resolves the session's club, toasting when none is selected.
func (s *Service) clubID() (string, error) {
	club := s.deps.Session.Identity().ClubID
	if club == "" {
		s.deps.Toast.Error("No club selected")
		return "", errors.ErrNoClub
	}
	return club, nil
}
