package bff

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/feltops/clubportal/api"
	"github.com/feltops/clubportal/internal/config"
	"github.com/feltops/clubportal/internal/errors"
	"github.com/feltops/clubportal/portal"
	"github.com/feltops/clubportal/session"
)

// Authenticator is the slice of the API client the login handlers need.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*api.LoginResponse, error)
	Logout(ctx context.Context) error
}

var _ Authenticator = (*api.Client)(nil)

// ClubBinder wires the club-scoped machinery (query registrations, realtime
// channels) to the club of the signed-in identity. Login binds, logout
// unbinds; without one the server only serves whatever was wired at startup.
type ClubBinder interface {
	BindClub(ctx context.Context, clubID string) error
	UnbindClub()
}

// Server is the headless portal frontend: a JSON facade over the portal
// service, the session store, and the query cache.
type Server struct {
	env     string
	mux     *http.ServeMux
	routes  []string
	config  config.Config
	service *portal.Service
	session session.Store
	auth    Authenticator
	binder  ClubBinder
	log     zerolog.Logger
}

type Option func(*Server)

func WithLogger(log zerolog.Logger) Option {
	return func(s *Server) { s.log = log }
}

func WithClubBinder(binder ClubBinder) Option {
	return func(s *Server) { s.binder = binder }
}

func New(config config.Config, service *portal.Service, sess session.Store, auth Authenticator, options ...Option) (*Server, error) {
	if service == nil {
		return nil, errors.Wrapf(errors.ErrInternal, "[Server New] service is required")
	}
	if sess == nil {
		return nil, errors.Wrapf(errors.ErrInternal, "[Server New] session store is required")
	}
	if auth == nil {
		return nil, errors.Wrapf(errors.ErrInternal, "[Server New] authenticator is required")
	}

	s := &Server{
		mux:     http.NewServeMux(),
		config:  config,
		service: service,
		session: sess,
		auth:    auth,
		log:     zerolog.Nop(),
	}
	s.env = config.GetEnv()
	for _, option := range options {
		option(s)
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)
		if len(parts) > 1 {
			s.log.Debug().Str("method", parts[0]).Str("path", parts[1]).Msg("route")
		} else {
			s.log.Debug().Str("path", parts[0]).Msg("route")
		}
	}
}

// writeJSON writes v with the given status. A nil v writes an empty object
// so clients always get a JSON body.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		_, _ = w.Write([]byte("{}"))
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error().Err(err).Msg("[writeJSON] encode failed")
	}
}

// writeError maps service errors onto HTTP statuses. Upstream API errors
// keep their status and message; guard failures become 400s.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	var apiErr *api.Error
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.Status
	case errors.Is(err, errors.ErrNoClub),
		errors.Is(err, errors.ErrNoSession):
		status = http.StatusConflict
	case errors.Is(err, errors.ErrValidation),
		errors.Is(err, errors.ErrReasonRequired),
		errors.Is(err, errors.ErrAmountInvalid),
		errors.Is(err, errors.ErrMissingField),
		errors.Is(err, errors.ErrDocumentMissing),
		errors.Is(err, errors.ErrUnsupported):
		status = http.StatusBadRequest
	case errors.Is(err, errors.ErrNotFound),
		errors.Is(err, errors.ErrQueryNotRegistered):
		status = http.StatusNotFound
	}

	s.writeJSON(w, status, map[string]string{"message": err.Error()})
}

func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid request body"})
		return false
	}
	return true
}
