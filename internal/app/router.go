package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/shulware/shulware/internal/auth"
	"github.com/shulware/shulware/internal/invite"
	"github.com/shulware/shulware/internal/org"
	"github.com/shulware/shulware/internal/provision"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *Config
	AuthHandler      *auth.Handler
	ProvisionHandler *provision.Handler
	InviteHandler    *invite.Handler
	OrgHandler       *org.Handler
}

// NewRouter constructs the chi.Router with Shulware defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/auth", params.AuthHandler.MountRoutes)
	r.Route("/api/provision", params.ProvisionHandler.MountRoutes)
	r.Route("/api/members", params.InviteHandler.MountRoutes)
	if params.OrgHandler != nil {
		r.Route("/api/orgs", params.OrgHandler.MountRoutes)
	}

	return r
}
