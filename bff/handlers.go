package bff

import (
	"context"
	"net/http"
	"time"

	"github.com/feltops/clubportal/portal"
	"github.com/feltops/clubportal/session"
)

func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "app": s.config.GetAppName()})
	}
}

// LoginHandler authenticates against the backend and persists the returned
// identity into the session store.
func (s *Server) LoginHandler() http.HandlerFunc {
	type loginRequest struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if !s.decodeBody(w, r, &req) {
			return
		}

		resp, err := s.auth.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			s.writeError(w, err)
			return
		}

		id := session.Identity{
			UserID:   resp.UserID,
			Email:    resp.Email,
			Role:     resp.Role,
			ClubID:   resp.ClubID,
			TenantID: resp.TenantID,
			Token:    resp.Token,
		}
		if err := s.session.SetIdentity(id); err != nil {
			s.writeError(w, err)
			return
		}
		if s.binder != nil {
			if err := s.binder.BindClub(r.Context(), id.ClubID); err != nil {
				s.writeError(w, err)
				return
			}
		}
		s.writeJSON(w, http.StatusOK, id)
	}
}

// LogoutHandler clears the stored session even when the backend call fails:
// a dead token is no reason to stay signed in locally.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.auth.Logout(r.Context()); err != nil {
			s.log.Warn().Err(err).Msg("[LogoutHandler] backend logout failed")
		}
		if err := s.session.Clear(); err != nil {
			s.writeError(w, err)
			return
		}
		if s.binder != nil {
			s.binder.UnbindClub()
		}
		s.writeJSON(w, http.StatusOK, nil)
	}
}

// SessionHandler reports the current identity and whether its token has
// already expired.
func (s *Server) SessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := s.session.Identity()
		if id.UserID == "" {
			s.writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "no active session"})
			return
		}
		s.writeJSON(w, http.StatusOK, struct {
			session.Identity
			TokenExpired bool `json:"token_expired"`
		}{Identity: id, TokenExpired: session.TokenExpired(id, time.Now())})
	}
}

func (s *Server) DashboardHandler() http.HandlerFunc {
	type sectionView struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	}
	type dashboardView struct {
		Role     string        `json:"role"`
		Sections []sectionView `json:"sections"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		dashboard, err := s.service.Dashboard(r.PathValue("role"))
		if err != nil {
			s.writeError(w, err)
			return
		}
		view := dashboardView{Role: dashboard.Role}
		for _, section := range dashboard.Sections {
			view.Sections = append(view.Sections, sectionView{ID: section.ID, Title: section.Title})
		}
		s.writeJSON(w, http.StatusOK, view)
	}
}

func (s *Server) SectionDataHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := s.service.SectionData(r.Context(), r.PathValue("role"), r.PathValue("section"))
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, map[string]any{"data": data})
	}
}

// CreatePlayerHandler takes the form as multipart/form-data so the KYC
// documents travel inline. The portal service runs the validation and the
// signed uploads.
func (s *Server) CreatePlayerHandler() http.HandlerFunc {
	const maxFormMemory = 16 << 20

	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxFormMemory); err != nil {
			s.writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid multipart form"})
			return
		}
		defer func() { _ = r.MultipartForm.RemoveAll() }()

		form := portal.PlayerForm{
			Name:          r.FormValue("name"),
			Phone:         r.FormValue("phone"),
			Email:         r.FormValue("email"),
			AadhaarNumber: r.FormValue("aadhaar_number"),
			PANNumber:     r.FormValue("pan_number"),
			Aadhaar:       formAttachment(r, "aadhaar"),
			PAN:           formAttachment(r, "pan"),
		}

		player, err := s.service.CreatePlayer(r.Context(), form)
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, http.StatusCreated, player)
	}
}

// formAttachment pulls one file part, or nil when the part is absent. The
// portal's own guards decide whether absence is an error.
func formAttachment(r *http.Request, field string) *portal.FileAttachment {
	file, header, err := r.FormFile(field)
	if err != nil {
		return nil
	}
	return &portal.FileAttachment{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Reader:      file,
		Size:        header.Size,
	}
}

func (s *Server) SuspendPlayerHandler() http.HandlerFunc {
	type suspendRequest struct {
		Type   string `json:"type"`
		Reason string `json:"reason"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req suspendRequest
		if !s.decodeBody(w, r, &req) {
			return
		}
		err := s.service.SuspendPlayer(r.Context(), portal.SuspensionForm{
			PlayerID: r.PathValue("id"),
			Type:     req.Type,
			Reason:   req.Reason,
		})
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, nil)
	}
}

type amountRequest struct {
	Amount int64 `json:"amount"`
}

type reasonRequest struct {
	Reason string `json:"reason"`
}

func (s *Server) ApproveBuyInHandler() http.HandlerFunc {
	return s.approveHandler(s.service.ApproveBuyIn)
}

func (s *Server) ApproveCashOutHandler() http.HandlerFunc {
	return s.approveHandler(s.service.ApproveCashOut)
}

func (s *Server) RejectBuyInHandler() http.HandlerFunc {
	return s.rejectHandler(s.service.RejectBuyIn)
}

func (s *Server) RejectCashOutHandler() http.HandlerFunc {
	return s.rejectHandler(s.service.RejectCashOut)
}

func (s *Server) approveHandler(approve func(ctx context.Context, requestID string, amount int64) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req amountRequest
		if !s.decodeBody(w, r, &req) {
			return
		}
		if err := approve(r.Context(), r.PathValue("id"), req.Amount); err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, nil)
	}
}

func (s *Server) rejectHandler(reject func(ctx context.Context, requestID, reason string) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req reasonRequest
		if !s.decodeBody(w, r, &req) {
			return
		}
		if err := reject(r.Context(), r.PathValue("id"), req.Reason); err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, nil)
	}
}

func (s *Server) TournamentSessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := s.service.ControlTournamentSession(r.Context(), r.PathValue("id"), r.PathValue("action"))
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, nil)
	}
}

// SendNotificationHandler takes multipart/form-data so an optional media
// part can ride along with the message fields.
func (s *Server) SendNotificationHandler() http.HandlerFunc {
	const maxFormMemory = 16 << 20

	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxFormMemory); err != nil {
			s.writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid multipart form"})
			return
		}
		defer func() { _ = r.MultipartForm.RemoveAll() }()

		err := s.service.SendNotification(r.Context(),
			r.FormValue("title"), r.FormValue("body"), r.FormValue("audience"),
			formAttachment(r, "media"))
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, nil)
	}
}

func (s *Server) CollectRakeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req amountRequest
		if !s.decodeBody(w, r, &req) {
			return
		}
		if err := s.service.CollectRake(r.Context(), r.PathValue("id"), req.Amount); err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, nil)
	}
}

func (s *Server) TableWaitlistHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := s.service.TableWaitlist(r.Context(), r.PathValue("id"))
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, map[string]any{"data": data})
	}
}

func (s *Server) TableRakeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := s.service.TableRake(r.Context(), r.PathValue("id"))
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, map[string]any{"data": data})
	}
}

func (s *Server) GrantCreditHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req amountRequest
		if !s.decodeBody(w, r, &req) {
			return
		}
		if err := s.service.GrantCredit(r.Context(), r.PathValue("id"), req.Amount); err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, nil)
	}
}
