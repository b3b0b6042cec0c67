package invite

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shulware/shulware/internal/auth"
	"github.com/shulware/shulware/internal/mail"
	"github.com/shulware/shulware/internal/platform/httpx"
)

// Handler exposes the member-invitation endpoint.
type Handler struct {
	logger  *slog.Logger
	service *Service
	auth    auth.Middleware
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, authmw auth.Middleware) *Handler {
	return &Handler{logger: logger, service: service, auth: authmw}
}

// MountRoutes registers invitation routes behind bearer authentication.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.auth.Require)
		r.Post("/invite", h.invite)
	})
}

type inviteRequest struct {
	MemberID int64  `json:"memberId"`
	Origin   string `json:"origin"`
}

type inviteResponse struct {
	Success     bool        `json:"success"`
	Type        string      `json:"type"`
	EmailResult mail.Result `json:"emailResult"`
}

func (h *Handler) invite(w http.ResponseWriter, r *http.Request) {
	var req inviteRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.Wrap(httpx.ErrValidation, "malformed request body"))
		return
	}
	if req.MemberID == 0 {
		httpx.RespondError(w, httpx.Wrap(httpx.ErrValidation, "memberId is required"))
		return
	}

	invitation, err := h.service.Invite(r.Context(), req.MemberID, req.Origin)
	if err != nil {
		switch {
		case errors.Is(err, ErrMemberNotFound):
			httpx.RespondError(w, httpx.Wrap(httpx.ErrNotFound, "member not found"))
		case errors.Is(err, ErrNoEmail):
			httpx.RespondError(w, httpx.Wrap(httpx.ErrValidation, "member has no email address"))
		default:
			h.logger.Error("member invitation failed", slog.Any("error", err))
			httpx.RespondError(w, errors.New("invitation could not be sent"))
		}
		return
	}

	httpx.JSON(w, http.StatusOK, inviteResponse{
		Success:     true,
		Type:        invitation.Type,
		EmailResult: invitation.EmailResult,
	})
}
