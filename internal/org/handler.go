package org

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shulware/shulware/internal/auth"
	"github.com/shulware/shulware/internal/platform/httpx"
	"github.com/shulware/shulware/internal/session"
)

// Handler exposes tenant-scoped organization reads.
type Handler struct {
	logger *slog.Logger
	repo   Repository
	auth   auth.Middleware
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, repo Repository, authmw auth.Middleware) *Handler {
	return &Handler{logger: logger, repo: repo, auth: authmw}
}

// MountRoutes registers organization routes behind bearer authentication.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.auth.Require)
		r.Get("/", h.list)
	})
}

type orgView struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type listResponse struct {
	Organizations []orgView `json:"organizations"`
}

// list returns the organizations the session may see. Sessions whose grants
// scope them to no organization get an empty list without touching the store.
func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	store := session.FromContext(r.Context())
	if store == nil || store.Loading() {
		httpx.RespondError(w, httpx.Wrap(httpx.ErrUnauthorized, "session not resolved"))
		return
	}

	orgs, err := h.repo.List(r.Context(), store.Scope())
	if err != nil {
		h.logger.Error("list organizations", slog.Any("error", err))
		httpx.RespondError(w, errors.New("organizations could not be listed"))
		return
	}

	views := make([]orgView, 0, len(orgs))
	for _, o := range orgs {
		views = append(views, orgView{ID: o.ID, Name: o.Name, Slug: o.Slug})
	}
	httpx.JSON(w, http.StatusOK, listResponse{Organizations: views})
}
