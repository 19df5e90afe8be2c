package api

import (
	"context"
	"time"
)

// RakeEntry is one house-commission collection for a table's session.
type RakeEntry struct {
	ID          string    `json:"id"`
	TableID     string    `json:"table_id"`
	ClubID      string    `json:"club_id"`
	Amount      int64     `json:"amount"`
	CollectedBy string    `json:"collected_by"`
	CollectedAt time.Time `json:"collected_at"`
}

func (c *Client) ListRake(ctx context.Context, tableID string) ([]RakeEntry, error) {
	return list[RakeEntry](ctx, c, "/tables/"+tableID+"/rake")
}

func (c *Client) CollectRake(ctx context.Context, tableID string, amount int64) error {
	body := struct {
		Amount int64 `json:"amount"`
	}{Amount: amount}
	return c.post(ctx, "/tables/"+tableID+"/rake", body, nil)
}
