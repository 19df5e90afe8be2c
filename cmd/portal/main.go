package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/feltops/clubportal/api"
	"github.com/feltops/clubportal/bff"
	"github.com/feltops/clubportal/cache"
	"github.com/feltops/clubportal/internal/config"
	"github.com/feltops/clubportal/portal"
	"github.com/feltops/clubportal/session"
)

func main() {
	for {
		if err := run(); err != nil {
			log.Fatalf("Error running portal: %s\n", err)
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	log.Printf("Portal stopped\n")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	_ = godotenv.Load()
	c := config.New()
	displayAppname(c.GetAppName())
	logger := newLogger(c)

	store, err := session.NewFileStore(c.GetSessionFile())
	if err != nil {
		return fmt.Errorf("session.NewFileStore: %w", err)
	}

	client, err := api.New(c.GetAPIBaseURL(), store,
		api.WithLogger(logger),
		api.WithHTTPClient(&http.Client{Timeout: c.GetHTTPTimeout()}))
	if err != nil {
		return fmt.Errorf("api.New: %w", err)
	}

	queryCache := cache.New(cache.WithLogger(logger))
	defer queryCache.Close()

	refresh := portal.RefreshIntervals{
		UnreadCount:     c.GetUnreadCountRefresh(),
		PendingRequests: c.GetPendingRequestsRefresh(),
		Waitlist:        c.GetWaitlistRefresh(),
	}

	// Queries and realtime only exist once a club-scoped session is present;
	// login and logout rebind through the same wiring.
	wiring := &clubWiring{config: c, log: logger, cache: queryCache, client: client, refresh: refresh}
	defer wiring.UnbindClub()
	if clubID := store.Identity().ClubID; clubID != "" {
		if err := wiring.BindClub(context.Background(), clubID); err != nil {
			return fmt.Errorf("clubWiring.BindClub: %w", err)
		}
	}

	service, err := portal.NewService(portal.Deps{
		Backend: client,
		Cache:   queryCache,
		Session: store,
		Toast:   portal.NewLogToaster(logger),
	}, portal.WithLogger(logger), portal.WithRefreshIntervals(refresh))
	if err != nil {
		return fmt.Errorf("portal.NewService: %w", err)
	}

	handler, err := bff.New(c, service, store, client, bff.WithLogger(logger), bff.WithClubBinder(wiring))
	if err != nil {
		return fmt.Errorf("bff.New: %w", err)
	}

	server := &http.Server{Addr: c.GetPort(), Handler: handler}
	go listenAndServe(server, logger)
	waitForStopSignal()
	returnError = shutdown(server)
	return returnError
}

func newLogger(c config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(c.GetLogLevel())
	if err != nil {
		level = zerolog.InfoLevel
	}
	return zerolog.New(os.Stderr).Level(level).With().Timestamp().Str("app", c.GetAppName()).Logger()
}

func listenAndServe(server *http.Server, logger zerolog.Logger) {
	logger.Info().Str("addr", server.Addr).Msg("portal listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("server.ListenAndServe")
	}
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
