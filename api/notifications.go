package api

import (
	"context"
	"time"
)

type Notification struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	MediaURL  string    `json:"media_url,omitempty"`
	Audience  string    `json:"audience"` // "players" | "staff" | "all"
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

type SendNotificationRequest struct {
	Title    string `json:"title"`
	Body     string `json:"body"`
	MediaURL string `json:"media_url,omitempty"`
	Audience string `json:"audience"`
}

func (c *Client) ListNotifications(ctx context.Context) ([]Notification, error) {
	return list[Notification](ctx, c, "/notifications")
}

// UnreadNotificationCount backs the badge counter; it is also the query the
// portal keeps on a short interval refresh as a realtime fallback.
func (c *Client) UnreadNotificationCount(ctx context.Context) (int, error) {
	var out struct {
		Count int `json:"count"`
	}
	if err := c.get(ctx, "/notifications/unread-count", &out); err != nil {
		return 0, err
	}
	return out.Count, nil
}

func (c *Client) SendNotification(ctx context.Context, req SendNotificationRequest) error {
	return c.post(ctx, "/notifications", req, nil)
}

func (c *Client) MarkNotificationRead(ctx context.Context, notificationID string) error {
	return c.post(ctx, "/notifications/"+notificationID+"/read", nil, nil)
}
