package session

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/shulware/shulware/internal/identity"
	"github.com/shulware/shulware/internal/tenancy"
)

type stubGrants struct {
	grants []tenancy.RoleGrant
	err    error
	calls  int
}

func (s *stubGrants) ListForIdentity(ctx context.Context, identityID int64) ([]tenancy.RoleGrant, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.grants, nil
}

type stubPrincipals struct {
	byID map[int64]identity.Identity
}

func (s *stubPrincipals) Get(ctx context.Context, id int64) (identity.Identity, error) {
	ident, ok := s.byID[id]
	if !ok {
		return identity.Identity{}, identity.ErrNotFound
	}
	return ident, nil
}

func orgGrant(id, identityID, orgID int64) tenancy.RoleGrant {
	return tenancy.RoleGrant{ID: id, IdentityID: identityID, Role: tenancy.RoleAdmin, OrgID: &orgID}
}

func newStoreFixture(t *testing.T, grants *stubGrants) (*Store, *stubPrincipals) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	principals := &stubPrincipals{byID: map[int64]identity.Identity{
		7: {ID: 7, Email: "admin@beth-el.org", IsActive: true},
	}}
	store := NewStore(grants, principals, client, time.Minute, slog.New(slog.DiscardHandler))
	return store, principals
}

func TestStoreInitResolvesPrincipalAndGrants(t *testing.T) {
	grants := &stubGrants{grants: []tenancy.RoleGrant{orgGrant(1, 7, 3)}}
	store, _ := newStoreFixture(t, grants)

	require.True(t, store.Loading(), "a fresh store is loading until resolved")

	require.NoError(t, store.Init(context.Background(), 7))

	require.False(t, store.Loading())
	principal, ok := store.Principal()
	require.True(t, ok)
	require.Equal(t, int64(7), principal.ID)
	require.Len(t, store.Grants(), 1)

	scope := store.Scope()
	require.True(t, scope.Queryable())
	require.True(t, scope.CanAccessOrg(3))
	require.False(t, scope.CanAccessOrg(4))
}

func TestStoreInitGrantFailureDegradesToZeroGrants(t *testing.T) {
	grants := &stubGrants{err: errors.New("grant store unavailable")}
	store, _ := newStoreFixture(t, grants)

	require.NoError(t, store.Init(context.Background(), 7))

	require.False(t, store.Loading(), "loading must terminate even when grants cannot be fetched")
	require.Empty(t, store.Grants())
	require.False(t, store.Scope().Queryable(), "zero grants means no tenant data is reachable")
}

func TestStoreInitUnknownPrincipal(t *testing.T) {
	store, _ := newStoreFixture(t, &stubGrants{})

	err := store.Init(context.Background(), 999)

	require.Error(t, err)
	require.False(t, store.Loading())
	_, ok := store.Principal()
	require.False(t, ok)
}

func TestStoreInitAnonymous(t *testing.T) {
	store, _ := newStoreFixture(t, &stubGrants{})

	store.InitAnonymous()

	require.False(t, store.Loading())
	_, ok := store.Principal()
	require.False(t, ok)
	require.Empty(t, store.Grants())
}

func TestStoreSecondInitHitsGrantCache(t *testing.T) {
	grants := &stubGrants{grants: []tenancy.RoleGrant{orgGrant(1, 7, 3)}}
	store, _ := newStoreFixture(t, grants)

	require.NoError(t, store.Init(context.Background(), 7))
	require.NoError(t, store.Init(context.Background(), 7))

	require.Equal(t, 1, grants.calls, "the second resolve is served from the cache")
	require.Len(t, store.Grants(), 1)
}

func TestStoreRefreshBypassesStaleCache(t *testing.T) {
	grants := &stubGrants{grants: []tenancy.RoleGrant{orgGrant(1, 7, 3)}}
	store, _ := newStoreFixture(t, grants)
	require.NoError(t, store.Init(context.Background(), 7))

	grants.grants = []tenancy.RoleGrant{orgGrant(1, 7, 3), orgGrant(2, 7, 9)}
	store.Refresh(context.Background())

	require.False(t, store.Loading())
	require.Len(t, store.Grants(), 2)
	require.True(t, store.Scope().CanAccessOrg(9))
}

func TestStoreSignOutClearsSynchronously(t *testing.T) {
	grants := &stubGrants{grants: []tenancy.RoleGrant{orgGrant(1, 7, 3)}}
	store, _ := newStoreFixture(t, grants)
	require.NoError(t, store.Init(context.Background(), 7))

	store.SignOut(context.Background())

	_, ok := store.Principal()
	require.False(t, ok)
	require.Empty(t, store.Grants())
	require.False(t, store.Loading())
	require.False(t, store.Scope().Queryable())
}

func TestStoreRefreshOnAnonymousIsNoop(t *testing.T) {
	grants := &stubGrants{}
	store, _ := newStoreFixture(t, grants)
	store.InitAnonymous()

	store.Refresh(context.Background())

	require.Zero(t, grants.calls)
	require.False(t, store.Loading())
}
