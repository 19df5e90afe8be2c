package api

import (
	"context"
	"net/http"
	"time"
)

type Staff struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"` // "manager" | "gre" | "dealer" | "hr"
	ClubID    string    `json:"club_id"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// Leave is a staff leave application; approval authority is backend-side.
type Leave struct {
	ID      string    `json:"id"`
	StaffID string    `json:"staff_id"`
	From    time.Time `json:"from"`
	To      time.Time `json:"to"`
	Reason  string    `json:"reason"`
	Status  string    `json:"status"` // "pending" | "approved" | "rejected"
}

type CreateStaffRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (c *Client) ListStaff(ctx context.Context) ([]Staff, error) {
	return list[Staff](ctx, c, "/staff")
}

func (c *Client) CreateStaff(ctx context.Context, req CreateStaffRequest) (*Staff, error) {
	var s Staff
	if err := c.post(ctx, "/staff", req, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) DeactivateStaff(ctx context.Context, staffID string) error {
	return c.Do(ctx, http.MethodDelete, "/staff/"+staffID, nil, nil)
}

func (c *Client) ListLeaves(ctx context.Context) ([]Leave, error) {
	return list[Leave](ctx, c, "/leaves")
}

func (c *Client) ApplyLeave(ctx context.Context, leave Leave) error {
	return c.post(ctx, "/leaves", leave, nil)
}

func (c *Client) ApproveLeave(ctx context.Context, leaveID string) error {
	return c.post(ctx, "/leaves/"+leaveID+"/approve", nil, nil)
}

func (c *Client) RejectLeave(ctx context.Context, leaveID, reason string) error {
	body := struct {
		Reason string `json:"reason"`
	}{Reason: reason}
	return c.post(ctx, "/leaves/"+leaveID+"/reject", body, nil)
}
