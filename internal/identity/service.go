package identity

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials indicates login failure.
var ErrInvalidCredentials = errors.New("identity: invalid credentials")

// Service wraps account business rules around the repository.
type Service struct {
	repo Repository
}

// NewService constructs a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Register creates a new account with a bcrypt-hashed password. Accounts
// created by provisioning workflows are auto-verified: no confirmation
// round trip is required before the owner can sign in.
func (s *Service) Register(ctx context.Context, email, password string, verified bool) (Identity, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Identity{}, fmt.Errorf("identity: hash password: %w", err)
	}
	return s.repo.Create(ctx, NewIdentity{
		Email:         email,
		PasswordHash:  string(hash),
		EmailVerified: verified,
	})
}

// Authenticate validates email/password credentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (Identity, error) {
	ident, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return Identity{}, ErrInvalidCredentials
	}
	if !ident.IsActive {
		return Identity{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(ident.PasswordHash), []byte(password)); err != nil {
		return Identity{}, ErrInvalidCredentials
	}
	return ident, nil
}

// EmailExists reports whether an account already uses the given email.
func (s *Service) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Remove deletes the account. Used by saga compensation.
func (s *Service) Remove(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// UpdateProfile sets the account's display names.
func (s *Service) UpdateProfile(ctx context.Context, id int64, firstName, lastName string) error {
	return s.repo.UpdateProfile(ctx, id, firstName, lastName)
}
