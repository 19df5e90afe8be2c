package api

import (
	"context"
	"net/http"
	"time"
)

// Player is a club member record as the backend returns it. Balances and
// suspension state are computed server-side; the portal only displays them.
type Player struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Phone          string     `json:"phone"`
	Email          string     `json:"email,omitempty"`
	ClubID         string     `json:"club_id"`
	Balance        int64      `json:"balance"`
	KYCVerified    bool       `json:"kyc_verified"`
	Suspended      bool       `json:"suspended"`
	SuspensionType string     `json:"suspension_type,omitempty"`
	SuspendedUntil *time.Time `json:"suspended_until,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// KYCDocument is an identity document attached during onboarding.
type KYCDocument struct {
	ID       string `json:"id"`
	PlayerID string `json:"player_id"`
	Type     string `json:"type"` // "aadhaar" | "pan" | "other"
	Number   string `json:"number,omitempty"`
	FileURL  string `json:"file_url"`
}

type CreatePlayerRequest struct {
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	Email         string `json:"email,omitempty"`
	AadhaarNumber string `json:"aadhaar_number,omitempty"`
	PANNumber     string `json:"pan_number,omitempty"`
	AadhaarURL    string `json:"aadhaar_url"`
	PANURL        string `json:"pan_url,omitempty"`
}

type UpdatePlayerRequest struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Email    string `json:"email,omitempty"`
}

type SuspendPlayerRequest struct {
	PlayerID string `json:"player_id"`
	Type     string `json:"type"`
	Reason   string `json:"reason"`
}

func (c *Client) ListPlayers(ctx context.Context) ([]Player, error) {
	return list[Player](ctx, c, "/players")
}

func (c *Client) GetPlayer(ctx context.Context, playerID string) (*Player, error) {
	var p Player
	if err := c.get(ctx, "/players/"+playerID, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) CreatePlayer(ctx context.Context, req CreatePlayerRequest) (*Player, error) {
	var p Player
	if err := c.post(ctx, "/players", req, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) UpdatePlayer(ctx context.Context, req UpdatePlayerRequest) error {
	return c.Do(ctx, http.MethodPatch, "/players/"+req.PlayerID, req, nil)
}

func (c *Client) SuspendPlayer(ctx context.Context, req SuspendPlayerRequest) error {
	return c.post(ctx, "/players/"+req.PlayerID+"/suspend", req, nil)
}

func (c *Client) ReinstatePlayer(ctx context.Context, playerID string) error {
	return c.post(ctx, "/players/"+playerID+"/reinstate", nil, nil)
}

func (c *Client) ListKYCDocuments(ctx context.Context, playerID string) ([]KYCDocument, error) {
	return list[KYCDocument](ctx, c, "/players/"+playerID+"/kyc")
}

func (c *Client) AttachKYCDocument(ctx context.Context, doc KYCDocument) error {
	return c.post(ctx, "/players/"+doc.PlayerID+"/kyc", doc, nil)
}
