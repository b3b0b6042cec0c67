package provision

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shulware/shulware/internal/identity"
	"github.com/shulware/shulware/internal/org"
	"github.com/shulware/shulware/internal/tenancy"
)

// SignupInput is the owner-signup request.
type SignupInput struct {
	Email            string `json:"email" validate:"required"`
	Password         string `json:"password" validate:"required,min=6"`
	OrganizationName string `json:"organizationName" validate:"required"`
}

// SignupResult is the outcome of a successful owner signup.
type SignupResult struct {
	User         identity.Identity
	Organization org.Organization
}

// SignupOwner provisions a new platform account: identity, organization,
// owner grant, then best-effort extras. Mandatory failures unwind everything
// written so far; a failed signup never leaves an orphaned identity or an
// organization without an owner. The workflow is not idempotent: the slug
// carries a timestamp suffix, so a retried call creates a fresh organization.
func (s *Service) SignupOwner(ctx context.Context, in SignupInput) (SignupResult, error) {
	if err := s.validateSignup(in); err != nil {
		return SignupResult{}, err
	}
	orgName := strings.TrimSpace(in.OrganizationName)

	var (
		ident        identity.Identity
		organization org.Organization
	)

	saga := NewSaga(s.logger)
	saga.Add(Step{
		Name: "create identity",
		Run: func(ctx context.Context) error {
			var err error
			ident, err = s.identities.Register(ctx, in.Email, in.Password, true)
			return err
		},
		Compensate: func(ctx context.Context) error {
			return s.identities.Remove(ctx, ident.ID)
		},
	})
	saga.Add(Step{
		Name: "create organization",
		Run: func(ctx context.Context) error {
			var err error
			organization, err = s.orgs.Create(ctx, org.NewOrganization{
				Name:         orgName,
				Slug:         org.DeriveSlug(orgName, time.Now()),
				ContactEmail: in.Email,
			})
			return err
		},
		Compensate: func(ctx context.Context) error {
			return s.orgs.Delete(ctx, organization.ID)
		},
	})
	saga.Add(Step{
		Name: "assign owner role",
		Run: func(ctx context.Context) error {
			_, err := s.grants.CreateGrant(ctx, ident.ID, tenancy.RoleOwner, nil)
			return err
		},
	})
	saga.Add(Step{
		Name:       "assign org admin role",
		BestEffort: true,
		Run: func(ctx context.Context) error {
			orgID := organization.ID
			_, err := s.grants.CreateGrant(ctx, ident.ID, tenancy.RoleAdmin, &orgID)
			return err
		},
	})
	saga.Add(Step{
		Name:       "create default settings",
		BestEffort: true,
		Run: func(ctx context.Context) error {
			return s.orgs.CreateSettings(ctx, organization.ID, org.DefaultProcessorSelector)
		},
	})
	saga.Add(Step{
		Name:       "enqueue welcome email",
		BestEffort: true,
		Run: func(ctx context.Context) error {
			if s.welcome == nil {
				return nil
			}
			return s.welcome.EnqueueWelcome(ctx, in.Email, organization.Name)
		},
	})

	if err := saga.Execute(ctx); err != nil {
		return SignupResult{}, fmt.Errorf("provision: owner signup: %w", err)
	}
	return SignupResult{User: ident, Organization: organization}, nil
}

func (s *Service) validateSignup(in SignupInput) error {
	if in.Email == "" || in.Password == "" || in.OrganizationName == "" {
		return validationf("email, password and organization name are required")
	}
	if err := s.validate.Struct(in); err != nil {
		return validationf("password must be at least 6 characters")
	}
	if len(strings.TrimSpace(in.OrganizationName)) < 2 {
		return validationf("organization name must be at least 2 characters")
	}
	return nil
}
