package provision

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shulware/shulware/internal/platform/httpx"
)

// Handler exposes the provisioning endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers provisioning routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/signup", h.signup)
	r.Post("/bootstrap", h.bootstrap)
}

type signupUser struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

type signupOrganization struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type signupResponse struct {
	Success      bool               `json:"success"`
	User         signupUser         `json:"user"`
	Organization signupOrganization `json:"organization"`
}

func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	var in SignupInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.RespondError(w, httpx.Wrap(httpx.ErrValidation, "malformed request body"))
		return
	}

	result, err := h.service.SignupOwner(r.Context(), in)
	if err != nil {
		if IsValidation(err) {
			httpx.RespondError(w, httpx.Wrap(httpx.ErrValidation, err.Error()))
			return
		}
		h.logger.Error("owner signup failed", slog.Any("error", err))
		httpx.RespondError(w, errors.New("account could not be created"))
		return
	}

	httpx.JSON(w, http.StatusOK, signupResponse{
		Success: true,
		User:    signupUser{ID: result.User.ID, Email: result.User.Email},
		Organization: signupOrganization{
			ID:   result.Organization.ID,
			Name: result.Organization.Name,
			Slug: result.Organization.Slug,
		},
	})
}

type bootstrapResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	UserID  int64  `json:"userId"`
}

func (h *Handler) bootstrap(w http.ResponseWriter, r *http.Request) {
	var in BootstrapInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.RespondError(w, httpx.Wrap(httpx.ErrValidation, "malformed request body"))
		return
	}

	userID, err := h.service.BootstrapOwner(r.Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, ErrAlreadyBootstrapped):
			httpx.RespondError(w, httpx.Wrap(httpx.ErrGuard, err.Error()))
		case IsValidation(err):
			httpx.RespondError(w, httpx.Wrap(httpx.ErrValidation, err.Error()))
		default:
			h.logger.Error("bootstrap failed", slog.Any("error", err))
			httpx.RespondError(w, errors.New("bootstrap could not be completed"))
		}
		return
	}

	httpx.JSON(w, http.StatusOK, bootstrapResponse{
		Success: true,
		Message: "Shulowner created successfully",
		UserID:  userID,
	})
}
