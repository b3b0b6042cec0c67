package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/shulware/shulware/internal/identity"
	"github.com/shulware/shulware/internal/platform/httpx"
	"github.com/shulware/shulware/internal/session"
)

// StoreFactory builds a fresh session store for one request.
type StoreFactory func() *session.Store

// Middleware authenticates bearer credentials and initializes the session
// store for downstream collaborators.
type Middleware struct {
	Tokens *TokenManager
	Stores StoreFactory
	Logger *slog.Logger
}

// Require rejects requests without a valid bearer credential before any read
// happens, then resolves the session store into the request context.
func (m Middleware) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		scheme, credential, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(credential) == "" {
			httpx.RespondError(w, httpx.Wrap(httpx.ErrUnauthorized, "missing or malformed authorization header"))
			return
		}
		principalID, err := m.Tokens.Verify(strings.TrimSpace(credential))
		if err != nil {
			httpx.RespondError(w, httpx.Wrap(httpx.ErrUnauthorized, "invalid bearer credential"))
			return
		}

		store := m.Stores()
		if err := store.Init(r.Context(), principalID); err != nil {
			if errors.Is(err, identity.ErrNotFound) {
				httpx.RespondError(w, httpx.Wrap(httpx.ErrUnauthorized, "invalid bearer credential"))
				return
			}
			if m.Logger != nil {
				m.Logger.Error("init session store", slog.Int64("principal_id", principalID), slog.Any("error", err))
			}
			httpx.RespondError(w, errors.New("session could not be resolved"))
			return
		}

		ctx := session.WithStore(r.Context(), store)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
