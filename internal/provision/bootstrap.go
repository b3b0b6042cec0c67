package provision

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shulware/shulware/internal/tenancy"
)

// BootstrapInput is the first-owner bootstrap request.
type BootstrapInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// BootstrapOwner creates the first platform owner. The workflow is guarded:
// once any platform owner grant exists it refuses before creating anything.
// The guard is a read-then-write check; two concurrent bootstrap calls on an
// empty deployment can both pass it. A storage-level singleton cannot close
// the window because owner signups legitimately create further platform-wide
// owner grants.
//
// Unlike owner signup no organization is created here, and the one remaining
// partial-state risk (identity created, grant insert failed) is surfaced as
// an error without compensation.
func (s *Service) BootstrapOwner(ctx context.Context, in BootstrapInput) (int64, error) {
	exists, err := s.grants.HasPlatformOwner(ctx)
	if err != nil {
		return 0, fmt.Errorf("provision: bootstrap guard: %w", err)
	}
	if exists {
		return 0, ErrAlreadyBootstrapped
	}

	if in.Email == "" || in.Password == "" {
		return 0, validationf("email and password are required")
	}

	ident, err := s.identities.Register(ctx, in.Email, in.Password, true)
	if err != nil {
		return 0, fmt.Errorf("provision: create bootstrap identity: %w", err)
	}

	first := strings.TrimSpace(in.FirstName)
	last := strings.TrimSpace(in.LastName)
	if first != "" || last != "" {
		if err := s.identities.UpdateProfile(ctx, ident.ID, first, last); err != nil && s.logger != nil {
			s.logger.Warn("bootstrap profile update failed", slog.Int64("identity_id", ident.ID), slog.Any("error", err))
		}
	}

	if _, err := s.grants.CreateGrant(ctx, ident.ID, tenancy.RoleOwner, nil); err != nil {
		return 0, fmt.Errorf("provision: assign bootstrap owner role: %w", err)
	}
	return ident.ID, nil
}
