// Package session holds the per-session principal and role-grant state that
// every scoped query consults. The store is constructed explicitly and
// injected into collaborators; nothing reads it from ambient globals.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/shulware/shulware/internal/identity"
	"github.com/shulware/shulware/internal/tenancy"
)

// GrantSource supplies the role grants held by an identity.
type GrantSource interface {
	ListForIdentity(ctx context.Context, identityID int64) ([]tenancy.RoleGrant, error)
}

// PrincipalSource supplies identity records.
type PrincipalSource interface {
	Get(ctx context.Context, id int64) (identity.Identity, error)
}

// Store tracks the authenticated principal and its resolved grants. The
// loading flag stays true until grants have been fetched for a non-anonymous
// principal, so callers never act on a half-resolved session.
type Store struct {
	grants     GrantSource
	principals PrincipalSource
	cache      *redis.Client
	cacheTTL   time.Duration
	logger     *slog.Logger
	group      singleflight.Group

	mu        sync.RWMutex
	principal *identity.Identity
	grantSet  []tenancy.RoleGrant
	loading   bool
}

// NewStore constructs a Store. cache may be nil to disable grant caching.
func NewStore(grants GrantSource, principals PrincipalSource, cache *redis.Client, cacheTTL time.Duration, logger *slog.Logger) *Store {
	return &Store{
		grants:     grants,
		principals: principals,
		cache:      cache,
		cacheTTL:   cacheTTL,
		logger:     logger,
		loading:    true,
	}
}

// Init resolves the principal and its grants. A grant-fetch failure still
// terminates the loading state with zero grants; the session is never left
// loading forever.
func (s *Store) Init(ctx context.Context, principalID int64) error {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	ident, err := s.principals.Get(ctx, principalID)
	if err != nil {
		s.finish(nil, nil)
		return fmt.Errorf("session: resolve principal: %w", err)
	}

	grants := s.fetchGrants(ctx, principalID)
	s.finish(&ident, grants)
	return nil
}

// InitAnonymous marks the session resolved with no principal and no grants.
func (s *Store) InitAnonymous() {
	s.finish(nil, nil)
}

// Refresh re-fetches grants after a credential change event. The loading
// flag is raised for the duration so consumers do not act on stale grants.
func (s *Store) Refresh(ctx context.Context) {
	s.mu.Lock()
	if s.principal == nil {
		s.mu.Unlock()
		return
	}
	id := s.principal.ID
	s.loading = true
	s.mu.Unlock()

	s.invalidate(ctx, id)
	grants := s.fetchGrants(ctx, id)

	s.mu.Lock()
	s.grantSet = grants
	s.loading = false
	s.mu.Unlock()
}

// SignOut clears the principal and grants synchronously before returning.
// Cache invalidation is best-effort.
func (s *Store) SignOut(ctx context.Context) {
	s.mu.Lock()
	var id int64
	if s.principal != nil {
		id = s.principal.ID
	}
	s.principal = nil
	s.grantSet = nil
	s.loading = false
	s.mu.Unlock()

	if id != 0 {
		s.invalidate(ctx, id)
	}
}

// Loading reports whether grant resolution is still in flight.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Principal returns the current principal, or false when anonymous.
func (s *Store) Principal() (identity.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.principal == nil {
		return identity.Identity{}, false
	}
	return *s.principal, true
}

// Grants returns the resolved grant set.
func (s *Store) Grants() []tenancy.RoleGrant {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]tenancy.RoleGrant, len(s.grantSet))
	copy(out, s.grantSet)
	return out
}

// Scope derives the tenant query policy from the resolved grants.
func (s *Store) Scope() tenancy.Scope {
	return tenancy.ResolveScope(s.Grants())
}

func (s *Store) finish(principal *identity.Identity, grants []tenancy.RoleGrant) {
	s.mu.Lock()
	s.principal = principal
	s.grantSet = grants
	s.loading = false
	s.mu.Unlock()
}

// fetchGrants reads grants through the cache, deduping concurrent fetches
// for the same identity. Failures degrade to zero grants.
func (s *Store) fetchGrants(ctx context.Context, identityID int64) []tenancy.RoleGrant {
	key := grantCacheKey(identityID)
	if cached, ok := s.cacheGet(ctx, key); ok {
		return cached
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		grants, err := s.grants.ListForIdentity(ctx, identityID)
		if err != nil {
			return nil, err
		}
		s.cacheSet(ctx, key, grants)
		return grants, nil
	})
	if err != nil {
		if s.logger != nil {
			s.logger.Error("fetch role grants", slog.Int64("identity_id", identityID), slog.Any("error", err))
		}
		return nil
	}
	grants, _ := v.([]tenancy.RoleGrant)
	return grants
}

func (s *Store) cacheGet(ctx context.Context, key string) ([]tenancy.RoleGrant, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, err := s.cache.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var grants []tenancy.RoleGrant
	if err := json.Unmarshal(raw, &grants); err != nil {
		return nil, false
	}
	return grants, true
}

func (s *Store) cacheSet(ctx context.Context, key string, grants []tenancy.RoleGrant) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(grants)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.cacheTTL).Err(); err != nil && s.logger != nil {
		s.logger.Warn("cache role grants", slog.Any("error", err))
	}
}

func (s *Store) invalidate(ctx context.Context, identityID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, grantCacheKey(identityID)).Err(); err != nil && s.logger != nil {
		s.logger.Warn("invalidate grant cache", slog.Any("error", err))
	}
}

func grantCacheKey(identityID int64) string {
	return fmt.Sprintf("shulware:grants:%d", identityID)
}
