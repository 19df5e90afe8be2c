package portal

import (
	"context"
	"strings"

	"github.com/feltops/clubportal/api"
	"github.com/feltops/clubportal/cache"
	"github.com/feltops/clubportal/internal/errors"
)

// CreatePlayer uploads the KYC documents then creates the player. The form
// guards run first: an incomplete form never reaches the network.
func (s *Service) CreatePlayer(ctx context.Context, form PlayerForm) (*api.Player, error) {
	if msg, err := form.validate(); err != nil {
		s.deps.Toast.Error(msg)
		return nil, err
	}
	clubID, err := s.clubID()
	if err != nil {
		return nil, err
	}

	aadhaarURL, err := s.deps.Backend.UploadFile(ctx, api.UploadDocument,
		form.Aadhaar.Name, form.Aadhaar.ContentType, form.Aadhaar.Reader, form.Aadhaar.Size)
	if err != nil {
		s.deps.Toast.Error(err.Error())
		return nil, err
	}

	var panURL string
	if form.PAN != nil {
		panURL, err = s.deps.Backend.UploadFile(ctx, api.UploadDocument,
			form.PAN.Name, form.PAN.ContentType, form.PAN.Reader, form.PAN.Size)
		if err != nil {
			s.deps.Toast.Error(err.Error())
			return nil, err
		}
	}

	player, err := s.deps.Backend.CreatePlayer(ctx, api.CreatePlayerRequest{
		Name:          form.Name,
		Phone:         form.Phone,
		Email:         form.Email,
		AadhaarNumber: form.AadhaarNumber,
		PANNumber:     form.PANNumber,
		AadhaarURL:    aadhaarURL,
		PANURL:        panURL,
	})
	if err != nil {
		s.deps.Toast.Error(err.Error())
		return nil, err
	}

	s.deps.Cache.Invalidate(cache.PlayersKey(clubID))
	s.deps.Toast.Success("Player created")
	return player, nil
}

// SuspendPlayer requires both a type and a reason before the call is made.
func (s *Service) SuspendPlayer(ctx context.Context, form SuspensionForm) error {
	if msg, err := form.validate(); err != nil {
		s.deps.Toast.Error(msg)
		return err
	}
	clubID, err := s.clubID()
	if err != nil {
		return err
	}
	if err := s.deps.Backend.SuspendPlayer(ctx, api.SuspendPlayerRequest{
		PlayerID: form.PlayerID,
		Type:     form.Type,
		Reason:   form.Reason,
	}); err != nil {
		s.deps.Toast.Error(err.Error())
		return err
	}
	s.deps.Cache.Invalidate(cache.PlayersKey(clubID))
	s.deps.Toast.Success("Player suspended")
	return nil
}

// ApproveBuyIn posts {requestId, amount} and, on success, invalidates the
// club's pending-requests query.
func (s *Service) ApproveBuyIn(ctx context.Context, requestID string, amount int64) error {
	if amount <= 0 {
		s.deps.Toast.Error("Enter an amount greater than zero")
		return errors.Wrapf(errors.ErrAmountInvalid, "[ApproveBuyIn] %d", amount)
	}
	clubID, err := s.clubID()
	if err != nil {
		return err
	}
	if err := s.deps.Backend.ApproveBuyIn(ctx, requestID, amount); err != nil {
		s.deps.Toast.Error(err.Error())
		return err
	}
	s.deps.Cache.Invalidate(cache.PendingBuyInsKey(clubID))
	s.deps.Toast.Success("Buy-in approved")
	return nil
}

// RejectBuyIn blocks on an empty reason, per the reject flows everywhere in
// the portal.
func (s *Service) RejectBuyIn(ctx context.Context, requestID, reason string) error {
	return s.reject(ctx, requestID, reason, s.deps.Backend.RejectBuyIn, cache.PendingBuyInsKey)
}

func (s *Service) ApproveCashOut(ctx context.Context, requestID string, amount int64) error {
	if amount <= 0 {
		s.deps.Toast.Error("Enter an amount greater than zero")
		return errors.Wrapf(errors.ErrAmountInvalid, "[ApproveCashOut] %d", amount)
	}
	clubID, err := s.clubID()
	if err != nil {
		return err
	}
	if err := s.deps.Backend.ApproveCashOut(ctx, requestID, amount); err != nil {
		s.deps.Toast.Error(err.Error())
		return err
	}
	s.deps.Cache.Invalidate(cache.PendingCashOutsKey(clubID))
	s.deps.Toast.Success("Cash-out approved")
	return nil
}

func (s *Service) RejectCashOut(ctx context.Context, requestID, reason string) error {
	return s.reject(ctx, requestID, reason, s.deps.Backend.RejectCashOut, cache.PendingCashOutsKey)
}

func (s *Service) reject(ctx context.Context, requestID, reason string,
	call func(context.Context, string, string) error, pendingKey func(string) cache.Key) error {
	if strings.TrimSpace(reason) == "" {
		s.deps.Toast.Error("A reason is required to reject a request")
		return errors.Wrapf(errors.ErrReasonRequired, "[reject] %s", requestID)
	}
	clubID, err := s.clubID()
	if err != nil {
		return err
	}
	if err := call(ctx, requestID, reason); err != nil {
		s.deps.Toast.Error(err.Error())
		return err
	}
	s.deps.Cache.Invalidate(pendingKey(clubID))
	s.deps.Toast.Success("Request rejected")
	return nil
}

// Tournament session control. The transitions themselves are server-side;
// each call just invalidates the tournaments query so the new state lands.
func (s *Service) ControlTournamentSession(ctx context.Context, tournamentID, action string) error {
	clubID, err := s.clubID()
	if err != nil {
		return err
	}

	var call func(context.Context, string) error
	switch action {
	case "start":
		call = s.deps.Backend.StartTournamentSession
	case "pause":
		call = s.deps.Backend.PauseTournamentSession
	case "resume":
		call = s.deps.Backend.ResumeTournamentSession
	case "stop":
		call = s.deps.Backend.StopTournamentSession
	default:
		s.deps.Toast.Error("Unknown session action")
		return errors.Wrapf(errors.ErrUnsupported, "[ControlTournamentSession] %q", action)
	}

	if err := call(ctx, tournamentID); err != nil {
		s.deps.Toast.Error(err.Error())
		return err
	}
	s.deps.Cache.Invalidate(cache.TournamentsKey(clubID))
	s.deps.Toast.Success("Tournament session updated")
	return nil
}

// SendNotification uploads optional media first, then posts the message.
func (s *Service) SendNotification(ctx context.Context, title, body, audience string, media *FileAttachment) error {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(body) == "" {
		s.deps.Toast.Error("Title and message are required")
		return errors.Wrapf(errors.ErrMissingField, "[SendNotification]")
	}
	clubID, err := s.clubID()
	if err != nil {
		return err
	}

	var mediaURL string
	if media != nil {
		mediaURL, err = s.deps.Backend.UploadFile(ctx, api.UploadMedia,
			media.Name, media.ContentType, media.Reader, media.Size)
		if err != nil {
			s.deps.Toast.Error(err.Error())
			return err
		}
	}

	if err := s.deps.Backend.SendNotification(ctx, api.SendNotificationRequest{
		Title:    title,
		Body:     body,
		MediaURL: mediaURL,
		Audience: audience,
	}); err != nil {
		s.deps.Toast.Error(err.Error())
		return err
	}
	s.deps.Cache.Invalidate(cache.NotificationsKey(clubID), cache.UnreadCountKey(clubID))
	s.deps.Toast.Success("Notification sent")
	return nil
}

// CollectRake records a rake collection against a table.
func (s *Service) CollectRake(ctx context.Context, tableID string, amount int64) error {
	if amount <= 0 {
		s.deps.Toast.Error("Enter an amount greater than zero")
		return errors.Wrapf(errors.ErrAmountInvalid, "[CollectRake] %d", amount)
	}
	clubID, err := s.clubID()
	if err != nil {
		return err
	}
	if err := s.deps.Backend.CollectRake(ctx, tableID, amount); err != nil {
		s.deps.Toast.Error(err.Error())
		return err
	}
	s.deps.Cache.Invalidate(cache.RakeKey(clubID, tableID), cache.TransactionsKey(clubID))
	s.deps.Toast.Success("Rake recorded")
	return nil
}

// GrantCredit extends house credit to a player.
func (s *Service) GrantCredit(ctx context.Context, playerID string, amount int64) error {
	if amount <= 0 {
		s.deps.Toast.Error("Enter an amount greater than zero")
		return errors.Wrapf(errors.ErrAmountInvalid, "[GrantCredit] %d", amount)
	}
	clubID, err := s.clubID()
	if err != nil {
		return err
	}
	if err := s.deps.Backend.GrantCredit(ctx, playerID, amount); err != nil {
		s.deps.Toast.Error(err.Error())
		return err
	}
	s.deps.Cache.Invalidate(cache.CreditsKey(clubID), cache.TransactionsKey(clubID))
	s.deps.Toast.Success("Credit granted")
	return nil
}
