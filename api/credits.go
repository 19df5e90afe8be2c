package api

import (
	"context"
	"time"
)

// CreditEntry is a house-extended credit line on a player's account.
type CreditEntry struct {
	ID       string    `json:"id"`
	PlayerID string    `json:"player_id"`
	ClubID   string    `json:"club_id"`
	Amount   int64     `json:"amount"`
	Settled  bool      `json:"settled"`
	IssuedBy string    `json:"issued_by"`
	IssuedAt time.Time `json:"issued_at"`
}

func (c *Client) ListCredits(ctx context.Context) ([]CreditEntry, error) {
	return list[CreditEntry](ctx, c, "/credits")
}

func (c *Client) GrantCredit(ctx context.Context, playerID string, amount int64) error {
	body := struct {
		PlayerID string `json:"player_id"`
		Amount   int64  `json:"amount"`
	}{PlayerID: playerID, Amount: amount}
	return c.post(ctx, "/credits", body, nil)
}

func (c *Client) SettleCredit(ctx context.Context, creditID string) error {
	return c.post(ctx, "/credits/"+creditID+"/settle", nil, nil)
}
