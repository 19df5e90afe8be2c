package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/feltops/clubportal/api"
	"github.com/feltops/clubportal/cache"
	"github.com/feltops/clubportal/internal/config"
	"github.com/feltops/clubportal/portal"
	"github.com/feltops/clubportal/realtime"
)

// clubWiring owns the club-scoped machinery: the registered queries and the
// realtime channels for whichever club is signed in. Startup binds from the
// persisted session; after that, login and logout drive it through the bff.
type clubWiring struct {
	config  config.Config
	log     zerolog.Logger
	cache   *cache.Cache
	client  *api.Client
	refresh portal.RefreshIntervals

	lock      sync.Mutex
	clubID    string
	transport realtime.Transport
	registry  *realtime.Registry
}

func (cw *clubWiring) BindClub(ctx context.Context, clubID string) error {
	cw.lock.Lock()
	defer cw.lock.Unlock()
	if clubID == cw.clubID {
		return nil
	}

	cw.teardown()
	cw.cache.Reset()
	cw.clubID = ""
	if clubID == "" {
		return nil
	}

	if err := portal.RegisterClubQueries(cw.cache, cw.client, clubID, cw.refresh); err != nil {
		return fmt.Errorf("portal.RegisterClubQueries: %w", err)
	}

	transport, err := realtime.DialTransport(ctx, cw.config.GetRealtimeURL(), cw.config.GetRealtimeKey(),
		realtime.WithTransportLogger(cw.log),
		realtime.WithWriteTimeout(cw.config.GetRealtimeWriteTimeout()),
		realtime.WithMaxBackoff(cw.config.GetRealtimeMaxBackoff()))
	if err != nil {
		// Interval refresh still covers the hot queries.
		cw.log.Warn().Err(err).Msg("realtime unavailable, polling only")
	} else {
		registry := realtime.NewRegistry(transport, cw.cache, realtime.WithRegistryLogger(cw.log))
		if err := registry.Start(ctx, clubID); err != nil {
			_ = transport.Close()
			return fmt.Errorf("registry.Start: %w", err)
		}
		cw.transport = transport
		cw.registry = registry
	}

	cw.clubID = clubID
	return nil
}

func (cw *clubWiring) UnbindClub() {
	cw.lock.Lock()
	defer cw.lock.Unlock()
	cw.teardown()
	cw.cache.Reset()
	cw.clubID = ""
}

func (cw *clubWiring) teardown() {
	if cw.registry != nil {
		cw.registry.Stop()
		cw.registry = nil
	}
	if cw.transport != nil {
		_ = cw.transport.Close()
		cw.transport = nil
	}
}
