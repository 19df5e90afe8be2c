package api

import (
	"context"
	"net/http"
	"time"
)

// Table is a live gaming table. Seat capacity is enforced by the backend;
// the portal renders whatever seat list it is given.
type Table struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ClubID     string `json:"club_id"`
	Game       string `json:"game"` // "poker" | "rummy"
	SmallBlind int64  `json:"small_blind"`
	BigBlind   int64  `json:"big_blind"`
	MinBuyIn   int64  `json:"min_buy_in"`
	MaxSeats   int    `json:"max_seats"`
	Status     string `json:"status"` // "open" | "running" | "closed"
	Seats      []Seat `json:"seats"`
}

type Seat struct {
	Position int    `json:"position"`
	PlayerID string `json:"player_id,omitempty"`
	Stack    int64  `json:"stack,omitempty"`
}

type WaitlistEntry struct {
	ID       string    `json:"id"`
	TableID  string    `json:"table_id"`
	PlayerID string    `json:"player_id"`
	Position int       `json:"position"`
	Called   bool      `json:"called"`
	JoinedAt time.Time `json:"joined_at"`
}

func (c *Client) ListTables(ctx context.Context) ([]Table, error) {
	return list[Table](ctx, c, "/tables")
}

func (c *Client) SeatPlayer(ctx context.Context, tableID, playerID string, position int) error {
	body := struct {
		PlayerID string `json:"player_id"`
		Position int    `json:"position"`
	}{PlayerID: playerID, Position: position}
	return c.post(ctx, "/tables/"+tableID+"/seat", body, nil)
}

func (c *Client) UnseatPlayer(ctx context.Context, tableID, playerID string) error {
	body := struct {
		PlayerID string `json:"player_id"`
	}{PlayerID: playerID}
	return c.post(ctx, "/tables/"+tableID+"/unseat", body, nil)
}

func (c *Client) ListWaitlist(ctx context.Context, tableID string) ([]WaitlistEntry, error) {
	return list[WaitlistEntry](ctx, c, "/tables/"+tableID+"/waitlist")
}

func (c *Client) JoinWaitlist(ctx context.Context, tableID, playerID string) error {
	body := struct {
		PlayerID string `json:"player_id"`
	}{PlayerID: playerID}
	return c.post(ctx, "/tables/"+tableID+"/waitlist", body, nil)
}

func (c *Client) CallWaitlistEntry(ctx context.Context, tableID, entryID string) error {
	return c.post(ctx, "/tables/"+tableID+"/waitlist/"+entryID+"/call", nil, nil)
}

func (c *Client) RemoveWaitlistEntry(ctx context.Context, tableID, entryID string) error {
	return c.Do(ctx, http.MethodDelete, "/tables/"+tableID+"/waitlist/"+entryID, nil, nil)
}
