package api

import "context"

// LoginResponse carries everything the session store persists at login.
type LoginResponse struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	ClubID   string `json:"club_id"`
	TenantID string `json:"tenant_id"`
	Token    string `json:"token"`
}

func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	body := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{Email: email, Password: password}
	var out LoginResponse
	if err := c.post(ctx, "/auth/login", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.post(ctx, "/auth/logout", nil, nil)
}
