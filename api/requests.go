package api

import (
	"context"
	"time"
)

// ChipRequest is a pending buy-in or cash-out awaiting staff approval.
type ChipRequest struct {
	ID        string    `json:"id"`
	PlayerID  string    `json:"player_id"`
	TableID   string    `json:"table_id,omitempty"`
	ClubID    string    `json:"club_id"`
	Kind      string    `json:"kind"` // "buyin" | "cashout"
	Amount    int64     `json:"amount"`
	Status    string    `json:"status"` // "pending" | "approved" | "rejected"
	CreatedAt time.Time `json:"created_at"`
}

type ApproveRequestBody struct {
	RequestID string `json:"requestId"`
	Amount    int64  `json:"amount"`
}

type RejectRequestBody struct {
	RequestID string `json:"requestId"`
	Reason    string `json:"reason"`
}

func (c *Client) ListPendingBuyIns(ctx context.Context) ([]ChipRequest, error) {
	return list[ChipRequest](ctx, c, "/requests/buyin/pending")
}

func (c *Client) ListPendingCashOuts(ctx context.Context) ([]ChipRequest, error) {
	return list[ChipRequest](ctx, c, "/requests/cashout/pending")
}

// ApproveBuyIn posts exactly {requestId, amount}; the amount may be adjusted
// down by the approver from what the player asked for.
func (c *Client) ApproveBuyIn(ctx context.Context, requestID string, amount int64) error {
	return c.post(ctx, "/requests/buyin/approve", ApproveRequestBody{RequestID: requestID, Amount: amount}, nil)
}

func (c *Client) RejectBuyIn(ctx context.Context, requestID, reason string) error {
	return c.post(ctx, "/requests/buyin/reject", RejectRequestBody{RequestID: requestID, Reason: reason}, nil)
}

func (c *Client) ApproveCashOut(ctx context.Context, requestID string, amount int64) error {
	return c.post(ctx, "/requests/cashout/approve", ApproveRequestBody{RequestID: requestID, Amount: amount}, nil)
}

func (c *Client) RejectCashOut(ctx context.Context, requestID, reason string) error {
	return c.post(ctx, "/requests/cashout/reject", RejectRequestBody{RequestID: requestID, Reason: reason}, nil)
}
