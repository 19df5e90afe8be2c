package api

import (
	"context"
	"time"
)

type ChatSession struct {
	ID        string    `json:"id"`
	PlayerID  string    `json:"player_id"`
	StaffID   string    `json:"staff_id,omitempty"`
	Status    string    `json:"status"` // "open" | "closed"
	UpdatedAt time.Time `json:"updated_at"`
}

type ChatMessage struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	SenderID  string    `json:"sender_id"`
	Text      string    `json:"text"`
	SentAt    time.Time `json:"sent_at"`
}

func (c *Client) ListChatSessions(ctx context.Context) ([]ChatSession, error) {
	return list[ChatSession](ctx, c, "/chats")
}

func (c *Client) ListChatMessages(ctx context.Context, sessionID string) ([]ChatMessage, error) {
	return list[ChatMessage](ctx, c, "/chats/"+sessionID+"/messages")
}

func (c *Client) SendChatMessage(ctx context.Context, sessionID, text string) error {
	body := struct {
		Text string `json:"text"`
	}{Text: text}
	return c.post(ctx, "/chats/"+sessionID+"/messages", body, nil)
}

func (c *Client) CloseChatSession(ctx context.Context, sessionID string) error {
	return c.post(ctx, "/chats/"+sessionID+"/close", nil, nil)
}
