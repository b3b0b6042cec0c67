// Package invite issues member invitations: idempotent token issuance plus a
// synchronous delivery through the mail collaborator.
package invite

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/shulware/shulware/internal/mail"
	"github.com/shulware/shulware/internal/members"
)

// Sentinel errors for the invitation workflow.
var (
	// ErrMemberNotFound indicates the referenced member does not exist.
	ErrMemberNotFound = errors.New("invite: member not found")
	// ErrNoEmail indicates the member has no contact email to invite.
	ErrNoEmail = errors.New("invite: member has no email address")
)

// MemberStore supplies member records and persists invite tokens.
type MemberStore interface {
	GetWithOrg(ctx context.Context, id int64) (members.MemberWithOrg, error)
	EnsureInviteToken(ctx context.Context, memberID int64, token string) (string, error)
}

// IdentityDirectory answers whether an account already uses an email.
type IdentityDirectory interface {
	EmailExists(ctx context.Context, email string) (bool, error)
}

// Service runs the member-invitation workflow.
type Service struct {
	members        MemberStore
	identities     IdentityDirectory
	mailer         mail.Sender
	fallbackOrigin string
	logger         *slog.Logger
}

// NewService constructs a Service.
func NewService(members MemberStore, identities IdentityDirectory, mailer mail.Sender, fallbackOrigin string, logger *slog.Logger) *Service {
	return &Service{
		members:        members,
		identities:     identities,
		mailer:         mailer,
		fallbackOrigin: fallbackOrigin,
		logger:         logger,
	}
}

// Invitation is the outcome of a delivered invite.
type Invitation struct {
	Type        string
	Token       string
	EmailResult mail.Result
}

// Invite sends (or re-sends) a portal invitation to the member. The token is
// issued at most once per member: a token persisted by an earlier attempt is
// reused, even when that attempt's delivery failed. Whether the member's
// email already has an account decides the template and the portal action
// URL. A non-success response from the mail collaborator fails the whole
// invitation; the token stays persisted for the next attempt.
func (s *Service) Invite(ctx context.Context, memberID int64, origin string) (Invitation, error) {
	member, err := s.members.GetWithOrg(ctx, memberID)
	if err != nil {
		if errors.Is(err, members.ErrNotFound) {
			return Invitation{}, ErrMemberNotFound
		}
		return Invitation{}, fmt.Errorf("invite: load member: %w", err)
	}
	if member.Email == "" {
		return Invitation{}, ErrNoEmail
	}

	token, err := s.members.EnsureInviteToken(ctx, memberID, newToken())
	if err != nil {
		return Invitation{}, fmt.Errorf("invite: issue token: %w", err)
	}

	exists, err := s.identities.EmailExists(ctx, member.Email)
	if err != nil {
		return Invitation{}, fmt.Errorf("invite: check existing account: %w", err)
	}
	kind := mail.KindMemberInvite
	if exists {
		kind = mail.KindExistingMemberInvite
	}

	if origin == "" {
		origin = s.fallbackOrigin
	}
	actionURL := mail.InviteURL(kind, origin, token)
	memberName := member.FirstName
	if memberName == "" {
		memberName = member.Email
	}

	result, err := s.mailer.Send(ctx, mail.InviteMessage(kind, member.Email, memberName, member.OrgName, actionURL))
	if err != nil {
		if s.logger != nil {
			s.logger.Error("invite delivery failed", slog.Int64("member_id", memberID), slog.Any("error", err))
		}
		return Invitation{}, fmt.Errorf("invite: deliver: %w", err)
	}

	return Invitation{Type: kind, Token: token, EmailResult: result}, nil
}

// newToken produces an unguessable single-use token value.
func newToken() string {
	return uuid.NewString()
}
