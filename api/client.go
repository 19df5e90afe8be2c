package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/feltops/clubportal/internal/errors"
	"github.com/feltops/clubportal/session"
)

// defaultUnauthorizedMessage is surfaced when the backend rejects the
// credentials without a structured error body.
const defaultUnauthorizedMessage = "Invalid email or password"

// Client issues authenticated requests against the club-management backend.
// Identity headers are read from the session store on every call, so a club
// switch or logout takes effect without rebuilding the client.
type Client struct {
	baseURL string
	httpC   *http.Client
	session session.Reader
	log     zerolog.Logger
	nowTime func() time.Time
}

// Option modifies the Client instance.
type Option func(*Client)

func WithHTTPClient(httpC *http.Client) Option {
	return func(c *Client) { c.httpC = httpC }
}

func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) Option {
	return func(c *Client) { c.nowTime = nowFunc }
}

// New creates a Client for the backend at baseURL. The session reader is
// required: every request stamps the caller's identity from it.
func New(baseURL string, sess session.Reader, options ...Option) (*Client, error) {
	if sess == nil {
		return nil, errors.Wrapf(errors.ErrNoSession, "[api New] session reader is required")
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpC:   http.DefaultClient,
		session: sess,
		log:     zerolog.Nop(),
		nowTime: time.Now,
	}
	for _, opt := range options {
		opt(c)
	}
	return c, nil
}

// RequestOption modifies a single outgoing request.
type RequestOption func(*http.Request)

// WithHeader merges a caller-supplied header into the request.
func WithHeader(key, value string) RequestOption {
	return func(r *http.Request) { r.Header.Set(key, value) }
}

// Do issues a single request and decodes the JSON response into out. A
// no-content response leaves out untouched. Failures are returned as *Error
// carrying the backend's message; there are no retries.
func (c *Client) Do(ctx context.Context, method, endpoint string, body any, out any, options ...RequestOption) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return errors.Wrapf(err, "[Client Do] marshal body for %s", endpoint)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return errors.Wrapf(err, "[Client Do] build request for %s", endpoint)
	}

	id := c.session.Identity()
	if id.UserID != "" {
		req.Header.Set("x-user-id", id.UserID)
	}
	if id.ClubID != "" {
		req.Header.Set("x-club-id", id.ClubID)
	}
	if id.TenantID != "" {
		req.Header.Set("x-tenant-id", id.TenantID)
	}
	if id.Token != "" {
		req.Header.Set("Authorization", "Bearer "+id.Token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	// Correlates client and backend logs for one call.
	req.Header.Set("x-request-id", uuid.NewString())
	for _, opt := range options {
		opt(req)
	}

	started := c.nowTime()
	resp, err := c.httpC.Do(req)
	if err != nil {
		return errors.Wrapf(err, "[Client Do] %s %s", method, endpoint)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrapf(err, "[Client Do] read response for %s", endpoint)
	}

	c.log.Debug().
		Str("method", method).
		Str("endpoint", endpoint).
		Int("status", resp.StatusCode).
		Dur("elapsed", c.nowTime().Sub(started)).
		Msg("api call")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newError(resp.StatusCode, data)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.Wrapf(err, "[Client Do] decode response for %s", endpoint)
	}
	return nil
}

// get is shorthand for JSON GETs.
func (c *Client) get(ctx context.Context, endpoint string, out any) error {
	return c.Do(ctx, http.MethodGet, endpoint, nil, out)
}

// post is shorthand for JSON POSTs.
func (c *Client) post(ctx context.Context, endpoint string, body, out any) error {
	return c.Do(ctx, http.MethodPost, endpoint, body, out)
}

// listPayload tolerates the backend's two list shapes: a bare array and a
// {data: [...]} wrapper. Normalizing here keeps call sites shape-blind.
type listPayload struct {
	raw json.RawMessage
}

func (lp *listPayload) UnmarshalJSON(data []byte) error {
	lp.raw = append(lp.raw[:0], data...)
	return nil
}

func decodeList[T any](lp listPayload) ([]T, error) {
	trimmed := bytes.TrimSpace(lp.raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	if trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, errors.Wrapf(err, "[decodeList] array payload")
		}
		return items, nil
	}
	var wrapped struct {
		Data []T `json:"data"`
	}
	if err := json.Unmarshal(trimmed, &wrapped); err != nil {
		return nil, errors.Wrapf(err, "[decodeList] wrapped payload")
	}
	return wrapped.Data, nil
}

// list fetches endpoint and normalizes either list shape into items.
func list[T any](ctx context.Context, c *Client, endpoint string) ([]T, error) {
	var lp listPayload
	if err := c.get(ctx, endpoint, &lp); err != nil {
		return nil, err
	}
	return decodeList[T](lp)
}
