package portal

import (
	"context"

	"github.com/feltops/clubportal/cache"
	"github.com/feltops/clubportal/internal/errors"
)

// Section is one menu entry of a role dashboard, backed by a cached query.
type Section struct {
	ID    string
	Title string
	key   func(clubID string) cache.Key
}

// Dashboard is a fixed menu of sections for one staff role. Dashboards hold
// no state: data comes from the cache, actions go through the Service.
type Dashboard struct {
	Role     string
	Sections []Section
}

// Roles known to the portal.
const (
	RoleManager = "manager"
	RoleGRE     = "gre"
	RoleDealer  = "dealer"
	RoleHR      = "hr"
)

func managerDashboard() *Dashboard {
	return &Dashboard{Role: RoleManager, Sections: []Section{
		{ID: "tables", Title: "Tables", key: cache.TablesKey},
		{ID: "players", Title: "Players", key: cache.PlayersKey},
		{ID: "buyins", Title: "Buy-in Requests", key: cache.PendingBuyInsKey},
		{ID: "cashouts", Title: "Cash-out Requests", key: cache.PendingCashOutsKey},
		{ID: "transactions", Title: "Transactions", key: cache.TransactionsKey},
		{ID: "tournaments", Title: "Tournaments", key: cache.TournamentsKey},
		{ID: "staff", Title: "Staff", key: cache.StaffKey},
		{ID: "notifications", Title: "Notifications", key: cache.NotificationsKey},
	}}
}

func greDashboard() *Dashboard {
	return &Dashboard{Role: RoleGRE, Sections: []Section{
		{ID: "players", Title: "Players", key: cache.PlayersKey},
		{ID: "chats", Title: "Player Chats", key: cache.ChatsKey},
		{ID: "credits", Title: "Credits", key: cache.CreditsKey},
		{ID: "notifications", Title: "Notifications", key: cache.NotificationsKey},
	}}
}

func dealerDashboard() *Dashboard {
	return &Dashboard{Role: RoleDealer, Sections: []Section{
		{ID: "tables", Title: "Tables", key: cache.TablesKey},
		{ID: "buyins", Title: "Buy-in Requests", key: cache.PendingBuyInsKey},
		{ID: "tournaments", Title: "Tournaments", key: cache.TournamentsKey},
	}}
}

func hrDashboard() *Dashboard {
	return &Dashboard{Role: RoleHR, Sections: []Section{
		{ID: "staff", Title: "Staff", key: cache.StaffKey},
		{ID: "leaves", Title: "Leave Applications", key: cache.LeavesKey},
		{ID: "notifications", Title: "Notifications", key: cache.NotificationsKey},
	}}
}

// Dashboard returns the fixed menu for role.
func (s *Service) Dashboard(role string) (*Dashboard, error) {
	switch role {
	case RoleManager:
		return managerDashboard(), nil
	case RoleGRE:
		return greDashboard(), nil
	case RoleDealer:
		return dealerDashboard(), nil
	case RoleHR:
		return hrDashboard(), nil
	default:
		return nil, errors.Wrapf(errors.ErrNotFound, "[Dashboard] role %q", role)
	}
}

// SectionData resolves the cached data behind one section. Without a club
// in the session, nothing is dispatched.
func (s *Service) SectionData(ctx context.Context, role, sectionID string) (any, error) {
	clubID := s.deps.Session.Identity().ClubID
	if clubID == "" {
		return nil, errors.ErrNoClub
	}

	dashboard, err := s.Dashboard(role)
	if err != nil {
		return nil, err
	}
	for _, section := range dashboard.Sections {
		if section.ID == sectionID {
			return s.deps.Cache.Get(ctx, section.key(clubID))
		}
	}
	return nil, errors.Wrapf(errors.ErrNotFound, "[SectionData] %s/%s", role, sectionID)
}
