package portalfakes

import (
	"context"
	"io"
	"sync"

	"github.com/feltops/clubportal/api"
	"github.com/feltops/clubportal/portal"
)

var (
	_ portal.Backend     = (*FakeBackend)(nil)
	_ portal.QuerySource = (*FakeBackend)(nil)
)

// FakeBackend counts every call and records the last arguments, so tests
// can assert both "called with exactly this" and "never called at all".
type FakeBackend struct {
	lock  sync.Mutex
	calls map[string]int

	Err error // returned by every action when set

	LastApprove      api.ApproveRequestBody
	LastReject       api.RejectRequestBody
	LastSuspend      api.SuspendPlayerRequest
	LastCreatePlayer api.CreatePlayerRequest
	LastNotification api.SendNotificationRequest
	LastUploadName   string

	UploadedURL string
	Player      *api.Player
	Players     []api.Player
}

func NewFakeBackend() *FakeBackend {
	return &FakeBackend{
		calls:       make(map[string]int),
		UploadedURL: "https://cdn.example/doc.jpg",
		Player:      &api.Player{ID: "p-new"},
	}
}

func (fb *FakeBackend) record(name string) {
	fb.lock.Lock()
	defer fb.lock.Unlock()
	fb.calls[name]++
}

// Calls reports how many times the named method ran.
func (fb *FakeBackend) Calls(name string) int {
	fb.lock.Lock()
	defer fb.lock.Unlock()
	return fb.calls[name]
}

// TotalCalls is the number of network-touching invocations across every
// method.
func (fb *FakeBackend) TotalCalls() int {
	fb.lock.Lock()
	defer fb.lock.Unlock()
	total := 0
	for _, n := range fb.calls {
		total += n
	}
	return total
}

func (fb *FakeBackend) CreatePlayer(ctx context.Context, req api.CreatePlayerRequest) (*api.Player, error) {
	fb.record("CreatePlayer")
	fb.LastCreatePlayer = req
	if fb.Err != nil {
		return nil, fb.Err
	}
	return fb.Player, nil
}

func (fb *FakeBackend) SuspendPlayer(ctx context.Context, req api.SuspendPlayerRequest) error {
	fb.record("SuspendPlayer")
	fb.LastSuspend = req
	return fb.Err
}

func (fb *FakeBackend) UploadFile(ctx context.Context, kind api.UploadKind, filename, contentType string, r io.Reader, size int64) (string, error) {
	fb.record("UploadFile")
	fb.LastUploadName = filename
	if fb.Err != nil {
		return "", fb.Err
	}
	return fb.UploadedURL, nil
}

func (fb *FakeBackend) ApproveBuyIn(ctx context.Context, requestID string, amount int64) error {
	fb.record("ApproveBuyIn")
	fb.LastApprove = api.ApproveRequestBody{RequestID: requestID, Amount: amount}
	return fb.Err
}

func (fb *FakeBackend) RejectBuyIn(ctx context.Context, requestID, reason string) error {
	fb.record("RejectBuyIn")
	fb.LastReject = api.RejectRequestBody{RequestID: requestID, Reason: reason}
	return fb.Err
}

func (fb *FakeBackend) ApproveCashOut(ctx context.Context, requestID string, amount int64) error {
	fb.record("ApproveCashOut")
	fb.LastApprove = api.ApproveRequestBody{RequestID: requestID, Amount: amount}
	return fb.Err
}

func (fb *FakeBackend) RejectCashOut(ctx context.Context, requestID, reason string) error {
	fb.record("RejectCashOut")
	fb.LastReject = api.RejectRequestBody{RequestID: requestID, Reason: reason}
	return fb.Err
}

func (fb *FakeBackend) StartTournamentSession(ctx context.Context, tournamentID string) error {
	fb.record("StartTournamentSession")
	return fb.Err
}

func (fb *FakeBackend) PauseTournamentSession(ctx context.Context, tournamentID string) error {
	fb.record("PauseTournamentSession")
	return fb.Err
}

func (fb *FakeBackend) ResumeTournamentSession(ctx context.Context, tournamentID string) error {
	fb.record("ResumeTournamentSession")
	return fb.Err
}

func (fb *FakeBackend) StopTournamentSession(ctx context.Context, tournamentID string) error {
	fb.record("StopTournamentSession")
	return fb.Err
}

func (fb *FakeBackend) SendNotification(ctx context.Context, req api.SendNotificationRequest) error {
	fb.record("SendNotification")
	fb.LastNotification = req
	return fb.Err
}

func (fb *FakeBackend) CollectRake(ctx context.Context, tableID string, amount int64) error {
	fb.record("CollectRake")
	return fb.Err
}

func (fb *FakeBackend) GrantCredit(ctx context.Context, playerID string, amount int64) error {
	fb.record("GrantCredit")
	return fb.Err
}

func (fb *FakeBackend) ListPlayers(ctx context.Context) ([]api.Player, error) {
	fb.record("ListPlayers")
	return fb.Players, fb.Err
}

func (fb *FakeBackend) ListStaff(ctx context.Context) ([]api.Staff, error) {
	fb.record("ListStaff")
	return nil, fb.Err
}

func (fb *FakeBackend) ListTables(ctx context.Context) ([]api.Table, error) {
	fb.record("ListTables")
	return nil, fb.Err
}

func (fb *FakeBackend) ListTournaments(ctx context.Context) ([]api.Tournament, error) {
	fb.record("ListTournaments")
	return nil, fb.Err
}

func (fb *FakeBackend) ListTransactions(ctx context.Context, limit int) ([]api.Transaction, error) {
	fb.record("ListTransactions")
	return nil, fb.Err
}

func (fb *FakeBackend) ListPendingBuyIns(ctx context.Context) ([]api.ChipRequest, error) {
	fb.record("ListPendingBuyIns")
	return nil, fb.Err
}

func (fb *FakeBackend) ListPendingCashOuts(ctx context.Context) ([]api.ChipRequest, error) {
	fb.record("ListPendingCashOuts")
	return nil, fb.Err
}

func (fb *FakeBackend) ListCredits(ctx context.Context) ([]api.CreditEntry, error) {
	fb.record("ListCredits")
	return nil, fb.Err
}

func (fb *FakeBackend) ListLeaves(ctx context.Context) ([]api.Leave, error) {
	fb.record("ListLeaves")
	return nil, fb.Err
}

func (fb *FakeBackend) ListChatSessions(ctx context.Context) ([]api.ChatSession, error) {
	fb.record("ListChatSessions")
	return nil, fb.Err
}

func (fb *FakeBackend) ListNotifications(ctx context.Context) ([]api.Notification, error) {
	fb.record("ListNotifications")
	return nil, fb.Err
}

func (fb *FakeBackend) ListWaitlist(ctx context.Context, tableID string) ([]api.WaitlistEntry, error) {
	fb.record("ListWaitlist")
	return nil, fb.Err
}

func (fb *FakeBackend) ListRake(ctx context.Context, tableID string) ([]api.RakeEntry, error) {
	fb.record("ListRake")
	return nil, fb.Err
}

func (fb *FakeBackend) UnreadNotificationCount(ctx context.Context) (int, error) {
	fb.record("UnreadNotificationCount")
	if fb.Err != nil {
		return 0, fb.Err
	}
	return 3, nil
}
