package api

import (
	"context"
	"time"
)

// RosterTemplate is a recurring weekly shift pattern for one staff member.
// Concrete shift generation from a template happens server-side.
type RosterTemplate struct {
	ID       string   `json:"id"`
	StaffID  string   `json:"staff_id"`
	Weekdays []int    `json:"weekdays"` // 0 = Sunday
	Start    string   `json:"start"`    // "18:00"
	End      string   `json:"end"`      // "02:00"
}

type Shift struct {
	ID      string    `json:"id"`
	StaffID string    `json:"staff_id"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	Status  string    `json:"status"` // "scheduled" | "completed" | "missed"
}

func (c *Client) ListRosterTemplates(ctx context.Context) ([]RosterTemplate, error) {
	return list[RosterTemplate](ctx, c, "/rosters/templates")
}

func (c *Client) UpsertRosterTemplate(ctx context.Context, tpl RosterTemplate) error {
	return c.post(ctx, "/rosters/templates", tpl, nil)
}

// GenerateShifts asks the backend to materialize shifts from the club's
// templates for the given span.
func (c *Client) GenerateShifts(ctx context.Context, from, to time.Time) error {
	body := struct {
		From time.Time `json:"from"`
		To   time.Time `json:"to"`
	}{From: from, To: to}
	return c.post(ctx, "/rosters/generate", body, nil)
}

func (c *Client) ListShifts(ctx context.Context, staffID string) ([]Shift, error) {
	endpoint := "/shifts"
	if staffID != "" {
		endpoint += "?staff_id=" + staffID
	}
	return list[Shift](ctx, c, endpoint)
}
