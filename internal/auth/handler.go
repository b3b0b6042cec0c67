package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shulware/shulware/internal/identity"
	"github.com/shulware/shulware/internal/platform/httpx"
	"github.com/shulware/shulware/internal/session"
)

// Handler exposes the login surface that issues bearer credentials.
type Handler struct {
	logger     *slog.Logger
	identities *identity.Service
	tokens     *TokenManager
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, identities *identity.Service, tokens *TokenManager) *Handler {
	return &Handler{logger: logger, identities: identities, tokens: tokens}
}

// MountRoutes registers auth routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/login", h.login)
	r.Post("/logout", h.logout)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.Wrap(httpx.ErrValidation, "malformed request body"))
		return
	}
	ident, err := h.identities.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		httpx.RespondError(w, httpx.Wrap(httpx.ErrUnauthorized, "invalid credentials"))
		return
	}
	token, err := h.tokens.Issue(ident.ID, ident.Email)
	if err != nil {
		h.logger.Error("issue token", slog.Any("error", err))
		httpx.RespondError(w, errors.New("could not issue credential"))
		return
	}
	httpx.JSON(w, http.StatusOK, loginResponse{Token: token})
}

// logout tears down the session store when one was resolved for the request.
// Bearer credentials themselves are stateless and simply discarded by the
// client.
func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if store := session.FromContext(r.Context()); store != nil {
		store.SignOut(r.Context())
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"success": true})
}
