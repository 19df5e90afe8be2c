package api

import (
	"context"
	"fmt"
	"time"
)

type Transaction struct {
	ID        string    `json:"id"`
	PlayerID  string    `json:"player_id"`
	ClubID    string    `json:"club_id"`
	Kind      string    `json:"kind"` // "buyin" | "cashout" | "credit" | "rake"
	Amount    int64     `json:"amount"`
	Reference string    `json:"reference,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (c *Client) ListTransactions(ctx context.Context, limit int) ([]Transaction, error) {
	endpoint := "/transactions"
	if limit > 0 {
		endpoint = fmt.Sprintf("/transactions?limit=%d", limit)
	}
	return list[Transaction](ctx, c, endpoint)
}

func (c *Client) ListPlayerTransactions(ctx context.Context, playerID string) ([]Transaction, error) {
	return list[Transaction](ctx, c, "/players/"+playerID+"/transactions")
}
