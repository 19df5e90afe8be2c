package session_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/feltops/clubportal/session"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, jwtlib.MapClaims{
		"sub": "user-1",
		"exp": exp.Unix(),
	})
	raw, err := token.SignedString([]byte("test-key"))
	require.NoError(t, err)
	return raw
}

func TestTokenExpired(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("future exp is usable", func(t *testing.T) {
		id := session.Identity{Token: signedToken(t, now.Add(time.Hour))}
		require.False(t, session.TokenExpired(id, now))
	})

	t.Run("past exp is expired", func(t *testing.T) {
		id := session.Identity{Token: signedToken(t, now.Add(-time.Minute))}
		require.True(t, session.TokenExpired(id, now))
	})

	t.Run("empty token is usable", func(t *testing.T) {
		require.False(t, session.TokenExpired(session.Identity{}, now))
	})

	t.Run("unparseable token is left to the backend", func(t *testing.T) {
		id := session.Identity{Token: "not-a-jwt"}
		require.False(t, session.TokenExpired(id, now))
	})
}

func TestMemStore(t *testing.T) {
	store := session.NewMemStore()

	id := session.Identity{
		UserID:   "u-1",
		Email:    "gre@club.example",
		Role:     "gre",
		ClubID:   "club-9",
		TenantID: "tenant-2",
		Token:    "tok",
	}
	require.NoError(t, store.SetIdentity(id))
	require.Equal(t, id, store.Identity())

	require.NoError(t, store.SetBranding("tenant-2", []byte(`{"logo":"x"}`)))
	require.NoError(t, store.SetLastUser("gre", []byte(`{"email":"gre@club.example"}`)))

	t.Run("clear wipes everything", func(t *testing.T) {
		require.NoError(t, store.Clear())
		require.Equal(t, session.Identity{}, store.Identity())
		_, ok := store.Branding("tenant-2")
		require.False(t, ok)
		_, ok = store.LastUser("gre")
		require.False(t, ok)
	})
}

func TestFileStore(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "session.json")

	store, err := session.NewFileStore(path)
	require.NoError(t, err)
	require.Equal(t, session.Identity{}, store.Identity())

	id := session.Identity{UserID: "u-2", ClubID: "club-3", TenantID: "t-1"}
	require.NoError(t, store.SetIdentity(id))
	require.NoError(t, store.SetBranding("t-1", []byte(`{"name":"Aces"}`)))

	t.Run("reload restores identity and blobs", func(t *testing.T) {
		reloaded, err := session.NewFileStore(path)
		require.NoError(t, err)
		require.Equal(t, id, reloaded.Identity())
		blob, ok := reloaded.Branding("t-1")
		require.True(t, ok)
		require.JSONEq(t, `{"name":"Aces"}`, string(blob))
	})

	t.Run("clear persists", func(t *testing.T) {
		require.NoError(t, store.Clear())
		reloaded, err := session.NewFileStore(path)
		require.NoError(t, err)
		require.Equal(t, session.Identity{}, reloaded.Identity())
	})

	t.Run("corrupt blob loads as empty session", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte("{nope"), 0o600))
		reloaded, err := session.NewFileStore(bad)
		require.NoError(t, err)
		require.Equal(t, session.Identity{}, reloaded.Identity())
	})
}
