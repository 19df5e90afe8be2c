package bff_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/feltops/clubportal/api"
	"github.com/feltops/clubportal/bff"
	"github.com/feltops/clubportal/cache"
	"github.com/feltops/clubportal/internal/config"
	"github.com/feltops/clubportal/internal/errors"
	"github.com/feltops/clubportal/portal"
	"github.com/feltops/clubportal/portal/portalfakes"
	"github.com/feltops/clubportal/session"
)

type fakeAuth struct {
	response *api.LoginResponse
	err      error
	logouts  int
}

func (fa *fakeAuth) Login(ctx context.Context, email, password string) (*api.LoginResponse, error) {
	if fa.err != nil {
		return nil, fa.err
	}
	return fa.response, nil
}

func (fa *fakeAuth) Logout(ctx context.Context) error {
	fa.logouts++
	return nil
}

type fakeBinder struct {
	err     error
	bound   []string
	unbinds int
}

func (fb *fakeBinder) BindClub(ctx context.Context, clubID string) error {
	if fb.err != nil {
		return fb.err
	}
	fb.bound = append(fb.bound, clubID)
	return nil
}

func (fb *fakeBinder) UnbindClub() { fb.unbinds++ }

type testServer struct {
	url     string
	backend *portalfakes.FakeBackend
	store   *session.MemStore
	auth    *fakeAuth
	binder  *fakeBinder
}

func newTestServer(t *testing.T, clubID string) *testServer {
	t.Helper()
	backend := portalfakes.NewFakeBackend()
	c := cache.New()
	t.Cleanup(c.Close)
	store := session.NewMemStore()
	if clubID != "" {
		require.NoError(t, store.SetIdentity(session.Identity{UserID: "u-1", Role: "manager", ClubID: clubID}))
	}

	service, err := portal.NewService(portal.Deps{
		Backend: backend,
		Cache:   c,
		Session: store,
		Toast:   portalfakes.NewToastRecorder(),
	})
	require.NoError(t, err)

	auth := &fakeAuth{response: &api.LoginResponse{
		UserID: "u-1", Email: "mira@club.example", Role: "manager", ClubID: "club-1", TenantID: "t-1", Token: "tok",
	}}
	binder := &fakeBinder{}
	server, err := bff.New(config.New(), service, store, auth, bff.WithClubBinder(binder))
	require.NoError(t, err)

	ts := httptest.NewServer(server)
	t.Cleanup(ts.Close)
	return &testServer{url: ts.URL, backend: backend, store: store, auth: auth, binder: binder}
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, "club-1")

	resp, err := http.Get(ts.url + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[map[string]string](t, resp)
	require.Equal(t, "ok", body["status"])
}

func TestLogin_PersistsIdentity(t *testing.T) {
	ts := newTestServer(t, "")

	resp := postJSON(t, ts.url+"/auth/login", map[string]string{
		"email": "mira@club.example", "password": "hunter2",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	id := ts.store.Identity()
	require.Equal(t, "u-1", id.UserID)
	require.Equal(t, "club-1", id.ClubID)
	require.Equal(t, "tok", id.Token)
}

func TestLogin_BindsClubForFreshSession(t *testing.T) {
	ts := newTestServer(t, "")

	resp := postJSON(t, ts.url+"/auth/login", map[string]string{
		"email": "mira@club.example", "password": "hunter2",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// The identity's club drives the query and realtime wiring.
	require.Equal(t, []string{"club-1"}, ts.binder.bound)
}

func TestLogin_BindFailureSurfaces(t *testing.T) {
	ts := newTestServer(t, "")
	ts.binder.err = errors.ErrInternal

	resp := postJSON(t, ts.url+"/auth/login", map[string]string{
		"email": "mira@club.example", "password": "hunter2",
	})
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestLogin_UpstreamErrorKeepsStatusAndMessage(t *testing.T) {
	ts := newTestServer(t, "")
	ts.auth.err = &api.Error{Status: http.StatusUnauthorized, Message: "Invalid email or password"}

	resp := postJSON(t, ts.url+"/auth/login", map[string]string{"email": "x", "password": "y"})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body := decode[map[string]string](t, resp)
	require.Equal(t, "Invalid email or password", body["message"])
	require.Empty(t, ts.store.Identity().UserID)
}

func TestLogout_ClearsSession(t *testing.T) {
	ts := newTestServer(t, "club-1")

	resp := postJSON(t, ts.url+"/auth/logout", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, 1, ts.auth.logouts)
	require.Empty(t, ts.store.Identity().UserID)

	// The old club's refreshers and channels are torn down with the session.
	require.Equal(t, 1, ts.binder.unbinds)
}

func TestSession_NoIdentity(t *testing.T) {
	ts := newTestServer(t, "")

	resp, err := http.Get(ts.url + "/session")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestDashboard_RolesAndUnknownRole(t *testing.T) {
	ts := newTestServer(t, "club-1")

	resp, err := http.Get(ts.url + "/dashboards/manager")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[struct {
		Role     string `json:"role"`
		Sections []struct {
			ID string `json:"id"`
		} `json:"sections"`
	}](t, resp)
	require.Equal(t, "manager", body.Role)
	require.NotEmpty(t, body.Sections)

	resp, err = http.Get(ts.url + "/dashboards/owner")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSectionData_NoClubConflicts(t *testing.T) {
	ts := newTestServer(t, "")
	require.NoError(t, ts.store.SetIdentity(session.Identity{UserID: "u-1", Role: "manager"}))

	resp, err := http.Get(ts.url + "/dashboards/manager/sections/players")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	require.Zero(t, ts.backend.TotalCalls())
}

func TestApproveBuyIn_RoutesToBackend(t *testing.T) {
	ts := newTestServer(t, "club-1")

	resp := postJSON(t, ts.url+"/requests/buyin/req-42/approve", map[string]int64{"amount": 500})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, api.ApproveRequestBody{RequestID: "req-42", Amount: 500}, ts.backend.LastApprove)
}

func TestRejectBuyIn_MissingReasonIsBadRequest(t *testing.T) {
	ts := newTestServer(t, "club-1")

	resp := postJSON(t, ts.url+"/requests/buyin/req-42/reject", map[string]string{"reason": ""})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Zero(t, ts.backend.TotalCalls())
}

func TestCreatePlayer_MultipartWithAadhaar(t *testing.T) {
	ts := newTestServer(t, "club-1")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("name", "Asha Rao"))
	require.NoError(t, mw.WriteField("phone", "9876543210"))
	part, err := mw.CreateFormFile("aadhaar", "aadhaar.jpg")
	require.NoError(t, err)
	_, err = part.Write([]byte("jpegbytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, err := http.Post(ts.url+"/players", mw.FormDataContentType(), &buf)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Equal(t, 1, ts.backend.Calls("UploadFile"))
	require.Equal(t, 1, ts.backend.Calls("CreatePlayer"))
}

func TestCreatePlayer_MissingDocumentIsBadRequest(t *testing.T) {
	ts := newTestServer(t, "club-1")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("name", "Asha Rao"))
	require.NoError(t, mw.WriteField("phone", "9876543210"))
	require.NoError(t, mw.Close())

	resp, err := http.Post(ts.url+"/players", mw.FormDataContentType(), &buf)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Zero(t, ts.backend.TotalCalls())
}

func TestSendNotification_MultipartWithMedia(t *testing.T) {
	ts := newTestServer(t, "club-1")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("title", "Friday freeroll"))
	require.NoError(t, mw.WriteField("body", "Doors open at 7"))
	require.NoError(t, mw.WriteField("audience", "players"))
	part, err := mw.CreateFormFile("media", "poster.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("pngbytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, err := http.Post(ts.url+"/notifications", mw.FormDataContentType(), &buf)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// The media part is uploaded first and its URL rides on the message.
	require.Equal(t, 1, ts.backend.Calls("UploadFile"))
	require.Equal(t, "poster.png", ts.backend.LastUploadName)
	require.Equal(t, ts.backend.UploadedURL, ts.backend.LastNotification.MediaURL)
}

func TestSendNotification_NoMedia(t *testing.T) {
	ts := newTestServer(t, "club-1")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("title", "Maintenance"))
	require.NoError(t, mw.WriteField("body", "Tables down at midnight"))
	require.NoError(t, mw.WriteField("audience", "staff"))
	require.NoError(t, mw.Close())

	resp, err := http.Post(ts.url+"/notifications", mw.FormDataContentType(), &buf)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Zero(t, ts.backend.Calls("UploadFile"))
	require.Empty(t, ts.backend.LastNotification.MediaURL)
}

func TestTournamentSessionActions(t *testing.T) {
	ts := newTestServer(t, "club-1")

	for _, action := range []string{"start", "pause", "resume", "stop"} {
		resp := postJSON(t, fmt.Sprintf("%s/tournaments/t-9/session/%s", ts.url, action), nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}
	require.Equal(t, 1, ts.backend.Calls("PauseTournamentSession"))
	require.Equal(t, 1, ts.backend.Calls("StopTournamentSession"))

	resp := postJSON(t, ts.url+"/tournaments/t-9/session/rewind", nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCorsHeadersForAllowedOrigin(t *testing.T) {
	ts := newTestServer(t, "club-1")

	req, err := http.NewRequest(http.MethodPost, ts.url+"/auth/logout", strings.NewReader("{}"))
	require.NoError(t, err)
	req.Header.Set("Origin", "https://portal.club.example")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	// Default config allows every origin via the wildcard.
	require.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}
