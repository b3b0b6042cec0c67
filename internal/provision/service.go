package provision

import (
	"context"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"github.com/shulware/shulware/internal/identity"
	"github.com/shulware/shulware/internal/org"
	"github.com/shulware/shulware/internal/tenancy"
)

// IdentityProvisioner creates and removes accounts on behalf of workflows.
type IdentityProvisioner interface {
	Register(ctx context.Context, email, password string, verified bool) (identity.Identity, error)
	Remove(ctx context.Context, id int64) error
	UpdateProfile(ctx context.Context, id int64, firstName, lastName string) error
}

// OrgStore creates and removes tenants and their settings rows.
type OrgStore interface {
	Create(ctx context.Context, in org.NewOrganization) (org.Organization, error)
	Delete(ctx context.Context, id int64) error
	CreateSettings(ctx context.Context, orgID int64, activeProcessor string) error
}

// GrantStore creates role grants and answers the bootstrap guard.
type GrantStore interface {
	CreateGrant(ctx context.Context, identityID int64, role tenancy.Role, orgID *int64) (tenancy.RoleGrant, error)
	HasPlatformOwner(ctx context.Context) (bool, error)
}

// WelcomeEnqueuer schedules the post-signup welcome email. Delivery is
// best-effort and happens off the request path.
type WelcomeEnqueuer interface {
	EnqueueWelcome(ctx context.Context, email, orgName string) error
}

// Service runs the provisioning workflows.
type Service struct {
	identities IdentityProvisioner
	orgs       OrgStore
	grants     GrantStore
	welcome    WelcomeEnqueuer
	validate   *validator.Validate
	logger     *slog.Logger
}

// NewService constructs a Service. welcome may be nil to skip welcome mail.
func NewService(identities IdentityProvisioner, orgs OrgStore, grants GrantStore, welcome WelcomeEnqueuer, logger *slog.Logger) *Service {
	return &Service{
		identities: identities,
		orgs:       orgs,
		grants:     grants,
		welcome:    welcome,
		validate:   validator.New(),
		logger:     logger,
	}
}
