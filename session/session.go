package session

import (
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// Identity holds the signed-in staff member's scope. Every API request
// carries these as headers; the club ID gates all club-scoped queries and
// realtime subscriptions.
type Identity struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	ClubID   string `json:"club_id"`
	TenantID string `json:"tenant_id"`
	Token    string `json:"token"`
}

// Reader is the read-only view handed to the API client and dashboards.
type Reader interface {
	Identity() Identity
}

// Store is the full session store: identity plus the per-tenant branding
// blobs and per-role "lastuser" blobs the portal keeps between logins.
type Store interface {
	Reader
	SetIdentity(id Identity) error
	Clear() error
	Branding(tenantID string) ([]byte, bool)
	SetBranding(tenantID string, blob []byte) error
	LastUser(role string) ([]byte, bool)
	SetLastUser(role string, blob []byte) error
}

// TokenExpired reports whether the stored bearer token carries an exp claim
// in the past. Tokens that fail to parse, or carry no exp, are left for the
// backend to judge and report as usable here.
func TokenExpired(id Identity, now time.Time) bool {
	if id.Token == "" {
		return false
	}
	token, _, err := jwtlib.NewParser().ParseUnverified(id.Token, jwtlib.MapClaims{})
	if err != nil {
		return false
	}
	exp, err := token.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Time.Before(now)
}
