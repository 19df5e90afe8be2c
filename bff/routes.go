package bff

// Route paths. Kept as constants so tests and handlers never drift.
const (
	RouteHealth = "/healthz"

	RouteAuthLogin  = "/auth/login"
	RouteAuthLogout = "/auth/logout"
	RouteSession    = "/session"

	RouteDashboard        = "/dashboards/{role}"
	RouteDashboardSection = "/dashboards/{role}/sections/{section}"

	RoutePlayers       = "/players"
	RoutePlayerSuspend = "/players/{id}/suspend"
	RoutePlayerCredit  = "/players/{id}/credit"

	RouteBuyInApprove   = "/requests/buyin/{id}/approve"
	RouteBuyInReject    = "/requests/buyin/{id}/reject"
	RouteCashOutApprove = "/requests/cashout/{id}/approve"
	RouteCashOutReject  = "/requests/cashout/{id}/reject"

	RouteTournamentSession = "/tournaments/{id}/session/{action}"

	RouteNotifications = "/notifications"
	RouteTableRake     = "/tables/{id}/rake"
	RouteTableWaitlist = "/tables/{id}/waitlist"
)

func (s *Server) initRoutes() {
	s.RegisterRouteFunc("GET "+RouteHealth, s.HealthHandler())

	s.RegisterRouteHandler("POST "+RouteAuthLogin, ChainMiddleware(s.LoginHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteAuthLogout, ChainMiddleware(s.LogoutHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteSession, ChainMiddleware(s.SessionHandler(), s.APIMiddleware()...))

	s.RegisterRouteHandler("GET "+RouteDashboard, ChainMiddleware(s.DashboardHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteDashboardSection, ChainMiddleware(s.SectionDataHandler(), s.APIMiddleware()...))

	s.RegisterRouteHandler("POST "+RoutePlayers, ChainMiddleware(s.CreatePlayerHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RoutePlayerSuspend, ChainMiddleware(s.SuspendPlayerHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RoutePlayerCredit, ChainMiddleware(s.GrantCreditHandler(), s.APIMiddleware()...))

	s.RegisterRouteHandler("POST "+RouteBuyInApprove, ChainMiddleware(s.ApproveBuyInHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteBuyInReject, ChainMiddleware(s.RejectBuyInHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteCashOutApprove, ChainMiddleware(s.ApproveCashOutHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteCashOutReject, ChainMiddleware(s.RejectCashOutHandler(), s.APIMiddleware()...))

	s.RegisterRouteHandler("POST "+RouteTournamentSession, ChainMiddleware(s.TournamentSessionHandler(), s.APIMiddleware()...))

	s.RegisterRouteHandler("POST "+RouteNotifications, ChainMiddleware(s.SendNotificationHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteTableRake, ChainMiddleware(s.CollectRakeHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteTableRake, ChainMiddleware(s.TableRakeHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteTableWaitlist, ChainMiddleware(s.TableWaitlistHandler(), s.APIMiddleware()...))
}
