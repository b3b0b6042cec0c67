package invite

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shulware/shulware/internal/mail"
	"github.com/shulware/shulware/internal/members"
)

type memoryMembers struct {
	byID map[int64]members.MemberWithOrg
}

func newMemoryMembers() *memoryMembers {
	return &memoryMembers{byID: make(map[int64]members.MemberWithOrg)}
}

func (m *memoryMembers) GetWithOrg(ctx context.Context, id int64) (members.MemberWithOrg, error) {
	member, ok := m.byID[id]
	if !ok {
		return members.MemberWithOrg{}, members.ErrNotFound
	}
	return member, nil
}

func (m *memoryMembers) EnsureInviteToken(ctx context.Context, memberID int64, token string) (string, error) {
	member, ok := m.byID[memberID]
	if !ok {
		return "", members.ErrNotFound
	}
	if member.InviteToken == nil {
		member.InviteToken = &token
		m.byID[memberID] = member
	}
	return *member.InviteToken, nil
}

type stubDirectory struct {
	known map[string]bool
	err   error
}

func (d *stubDirectory) EmailExists(ctx context.Context, email string) (bool, error) {
	if d.err != nil {
		return false, d.err
	}
	return d.known[email], nil
}

type recordingSender struct {
	sent []mail.Message
	err  error
}

func (s *recordingSender) Send(ctx context.Context, msg mail.Message) (mail.Result, error) {
	if s.err != nil {
		return mail.Result{}, s.err
	}
	s.sent = append(s.sent, msg)
	return mail.Result{Delivered: true}, nil
}

const fallbackOrigin = "https://app.shulware.com"

func newInviteFixtures() (*memoryMembers, *stubDirectory, *recordingSender, *Service) {
	store := newMemoryMembers()
	dir := &stubDirectory{known: make(map[string]bool)}
	sender := &recordingSender{}
	svc := NewService(store, dir, sender, fallbackOrigin, slog.New(slog.DiscardHandler))
	return store, dir, sender, svc
}

func seedMember(store *memoryMembers, id int64, email string) {
	store.byID[id] = members.MemberWithOrg{
		Member: members.Member{
			ID:        id,
			OrgID:     1,
			FirstName: "Dina",
			LastName:  "Katz",
			Email:     email,
		},
		OrgName: "Congregation Beth El",
	}
}

func TestInviteNewMemberUsesSetupTemplate(t *testing.T) {
	store, _, sender, svc := newInviteFixtures()
	seedMember(store, 5, "dina@example.com")

	invitation, err := svc.Invite(context.Background(), 5, "")

	require.NoError(t, err)
	require.Equal(t, mail.KindMemberInvite, invitation.Type)
	require.True(t, invitation.EmailResult.Delivered)
	require.Len(t, sender.sent, 1)
	require.Contains(t, sender.sent[0].Body, fallbackOrigin+"/portal/setup?token="+invitation.Token)
	require.NotContains(t, sender.sent[0].Body, "accept-invite")
}

func TestInviteExistingAccountUsesAcceptTemplate(t *testing.T) {
	store, dir, sender, svc := newInviteFixtures()
	seedMember(store, 5, "dina@example.com")
	dir.known["dina@example.com"] = true

	invitation, err := svc.Invite(context.Background(), 5, "https://custom.example.org")

	require.NoError(t, err)
	require.Equal(t, mail.KindExistingMemberInvite, invitation.Type)
	require.Len(t, sender.sent, 1)
	require.Contains(t, sender.sent[0].Body, "https://custom.example.org/portal/accept-invite?token="+invitation.Token)
}

func TestInviteTokenIssuanceIsIdempotent(t *testing.T) {
	store, _, _, svc := newInviteFixtures()
	seedMember(store, 5, "dina@example.com")

	first, err := svc.Invite(context.Background(), 5, "")
	require.NoError(t, err)
	require.NotEmpty(t, first.Token)

	second, err := svc.Invite(context.Background(), 5, "")
	require.NoError(t, err)

	require.Equal(t, first.Token, second.Token, "a persisted token is reused, never regenerated")
}

func TestInviteMemberNotFound(t *testing.T) {
	_, _, _, svc := newInviteFixtures()

	_, err := svc.Invite(context.Background(), 404, "")

	require.ErrorIs(t, err, ErrMemberNotFound)
}

func TestInviteMemberWithoutEmail(t *testing.T) {
	store, _, sender, svc := newInviteFixtures()
	seedMember(store, 5, "")

	_, err := svc.Invite(context.Background(), 5, "")

	require.ErrorIs(t, err, ErrNoEmail)
	require.Empty(t, sender.sent)
}

func TestInviteDeliveryFailureKeepsToken(t *testing.T) {
	store, _, sender, svc := newInviteFixtures()
	seedMember(store, 5, "dina@example.com")
	sender.err = errors.New("relay refused")

	_, err := svc.Invite(context.Background(), 5, "")
	require.Error(t, err)

	persisted := store.byID[5].InviteToken
	require.NotNil(t, persisted, "the token survives a failed delivery")

	sender.err = nil
	retry, err := svc.Invite(context.Background(), 5, "")
	require.NoError(t, err)
	require.Equal(t, *persisted, retry.Token, "the retry reuses the persisted token")
}

func TestInviteTokensAreUnguessablyDistinct(t *testing.T) {
	store, _, _, svc := newInviteFixtures()
	seedMember(store, 1, "a@example.com")
	seedMember(store, 2, "b@example.com")

	first, err := svc.Invite(context.Background(), 1, "")
	require.NoError(t, err)
	second, err := svc.Invite(context.Background(), 2, "")
	require.NoError(t, err)

	require.NotEqual(t, first.Token, second.Token)
	require.False(t, strings.Contains(first.Token, " "))
}
