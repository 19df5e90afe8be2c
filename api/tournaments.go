package api

import (
	"context"
	"time"
)

type Tournament struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	ClubID      string    `json:"club_id"`
	Game        string    `json:"game"`
	BuyIn       int64     `json:"buy_in"`
	PrizePool   int64     `json:"prize_pool"`
	MaxEntries  int       `json:"max_entries"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Status      string    `json:"status"` // "scheduled" | "active" | "paused" | "completed" | "stopped"
	Session     *Session  `json:"session,omitempty"`
}

// Session is the server-owned running state of a tournament. The portal
// derives its ticking clock from these three fields and never mutates them.
type Session struct {
	StartedAt          time.Time  `json:"session_started_at"`
	TotalPausedSeconds int64      `json:"total_paused_seconds"`
	PausedAt           *time.Time `json:"paused_at,omitempty"`
	CurrentLevel       int        `json:"current_level"`
}

type CreateTournamentRequest struct {
	Name        string    `json:"name"`
	Game        string    `json:"game"`
	BuyIn       int64     `json:"buy_in"`
	MaxEntries  int       `json:"max_entries"`
	ScheduledAt time.Time `json:"scheduled_at"`
}

func (c *Client) ListTournaments(ctx context.Context) ([]Tournament, error) {
	return list[Tournament](ctx, c, "/tournaments")
}

func (c *Client) CreateTournament(ctx context.Context, req CreateTournamentRequest) (*Tournament, error) {
	var t Tournament
	if err := c.post(ctx, "/tournaments", req, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// Session control. Timers and pause bookkeeping are computed and persisted
// server-side; these are passthroughs.

func (c *Client) StartTournamentSession(ctx context.Context, tournamentID string) error {
	return c.post(ctx, "/tournaments/"+tournamentID+"/session/start", nil, nil)
}

func (c *Client) PauseTournamentSession(ctx context.Context, tournamentID string) error {
	return c.post(ctx, "/tournaments/"+tournamentID+"/session/pause", nil, nil)
}

func (c *Client) ResumeTournamentSession(ctx context.Context, tournamentID string) error {
	return c.post(ctx, "/tournaments/"+tournamentID+"/session/resume", nil, nil)
}

func (c *Client) StopTournamentSession(ctx context.Context, tournamentID string) error {
	return c.post(ctx, "/tournaments/"+tournamentID+"/session/stop", nil, nil)
}
