package provision

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shulware/shulware/internal/tenancy"
)

func validBootstrap() BootstrapInput {
	return BootstrapInput{
		Email:     "founder@shulware.com",
		Password:  "sufficiently-long",
		FirstName: "Avi",
		LastName:  "Stern",
	}
}

func TestBootstrapOwnerSuccess(t *testing.T) {
	f := newFixtures()

	userID, err := f.service.BootstrapOwner(context.Background(), validBootstrap())
	require.NoError(t, err)
	require.NotZero(t, userID)

	require.Len(t, f.grants.grants, 1)
	require.True(t, f.grants.grants[0].PlatformWide())
	require.Equal(t, userID, f.grants.grants[0].IdentityID)

	ident := f.identities.byID[userID]
	require.Equal(t, "Avi", ident.FirstName)
	require.Equal(t, "Stern", ident.LastName)

	require.Empty(t, f.orgs.byID, "bootstrap creates no organization")
}

func TestBootstrapOwnerGuardRejectsSecondCall(t *testing.T) {
	f := newFixtures()

	_, err := f.service.BootstrapOwner(context.Background(), validBootstrap())
	require.NoError(t, err)

	_, err = f.service.BootstrapOwner(context.Background(), BootstrapInput{
		Email:    "second@shulware.com",
		Password: "sufficiently-long",
	})

	require.ErrorIs(t, err, ErrAlreadyBootstrapped)
	require.Equal(t, "A Shulowner already exists", err.Error())
	require.Zero(t, f.identities.countByEmail("second@shulware.com"), "the guard trips before creating anything")
}

func TestBootstrapOwnerGuardTripsOnSignupOwnerGrantToo(t *testing.T) {
	f := newFixtures()

	_, err := f.service.SignupOwner(context.Background(), validSignup())
	require.NoError(t, err)

	_, err = f.service.BootstrapOwner(context.Background(), validBootstrap())

	require.ErrorIs(t, err, ErrAlreadyBootstrapped)
}

func TestBootstrapOwnerValidation(t *testing.T) {
	cases := map[string]BootstrapInput{
		"missing email":    {Password: "sufficiently-long"},
		"missing password": {Email: "founder@shulware.com"},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			f := newFixtures()
			_, err := f.service.BootstrapOwner(context.Background(), in)
			require.True(t, IsValidation(err))
			require.Empty(t, f.identities.byID)
		})
	}
}

func TestBootstrapOwnerProfileUpdateIsBestEffort(t *testing.T) {
	f := newFixtures()
	f.identities.failProfile = errors.New("update rejected")

	userID, err := f.service.BootstrapOwner(context.Background(), validBootstrap())

	require.NoError(t, err)
	require.NotZero(t, userID)
	require.Len(t, f.grants.grants, 1)
}

// barrierGrants holds every guard read at a barrier until all expected
// callers have checked, so each caller observes the pre-insert state.
type barrierGrants struct {
	barrier *sync.WaitGroup
	mu      sync.Mutex
	grants  []tenancy.RoleGrant
	nextID  int64
}

func (g *barrierGrants) HasPlatformOwner(ctx context.Context) (bool, error) {
	g.mu.Lock()
	found := false
	for _, grant := range g.grants {
		if grant.PlatformWide() {
			found = true
			break
		}
	}
	g.mu.Unlock()
	g.barrier.Done()
	g.barrier.Wait()
	return found, nil
}

func (g *barrierGrants) CreateGrant(ctx context.Context, identityID int64, role tenancy.Role, orgID *int64) (tenancy.RoleGrant, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.nextID++
	grant := tenancy.RoleGrant{ID: g.nextID, IdentityID: identityID, Role: role, OrgID: orgID}
	g.grants = append(g.grants, grant)
	return grant, nil
}

func TestBootstrapOwnerGuardIsCheckThenAct(t *testing.T) {
	f := newFixtures()
	var barrier sync.WaitGroup
	barrier.Add(2)
	grants := &barrierGrants{barrier: &barrier}
	svc := NewService(f.identities, f.orgs, grants, f.welcome, discardLogger())

	inputs := []BootstrapInput{
		validBootstrap(),
		{Email: "second@shulware.com", Password: "sufficiently-long"},
	}
	errs := make([]error, len(inputs))
	var wg sync.WaitGroup
	for i := range inputs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.BootstrapOwner(context.Background(), inputs[i])
		}(i)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])

	owners := 0
	for _, grant := range grants.grants {
		if grant.PlatformWide() {
			owners++
		}
	}
	require.Equal(t, 2, owners,
		"guards that both read before either insert both pass; the window is accepted, not closed")
}

func TestBootstrapOwnerGrantFailureLeavesIdentity(t *testing.T) {
	f := newFixtures()
	f.grants.failForRole[tenancy.RoleOwner] = errors.New("insert rejected")

	_, err := f.service.BootstrapOwner(context.Background(), validBootstrap())

	require.Error(t, err)
	require.NotErrorIs(t, err, ErrAlreadyBootstrapped)
	require.Equal(t, 1, f.identities.countByEmail("founder@shulware.com"),
		"bootstrap has no compensation branch; the partial state is surfaced, not unwound")
	require.Empty(t, f.ops)
}
