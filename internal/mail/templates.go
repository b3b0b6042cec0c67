package mail

import "fmt"

// Invitation kinds. The kind selects both the template and the portal action
// URL: brand-new members set up credentials, members whose email already has
// an account accept the invite against it.
const (
	KindMemberInvite         = "member_invite"
	KindExistingMemberInvite = "existing_member_invite"
)

// InviteURL builds the portal action link for the invitation kind.
func InviteURL(kind, origin, token string) string {
	if kind == KindExistingMemberInvite {
		return fmt.Sprintf("%s/portal/accept-invite?token=%s", origin, token)
	}
	return fmt.Sprintf("%s/portal/setup?token=%s", origin, token)
}

// InviteMessage renders the invitation email for the given kind.
func InviteMessage(kind, to, memberName, orgName, actionURL string) Message {
	if kind == KindExistingMemberInvite {
		return Message{
			To:      to,
			Subject: fmt.Sprintf("%s invited you to their member portal", orgName),
			Body: fmt.Sprintf("Hello %s,\n\n%s has invited you to their member portal. You already have an account, so sign in and accept the invitation here:\n\n%s\n\nIf you were not expecting this invitation you can ignore this email.\n",
				memberName, orgName, actionURL),
		}
	}
	return Message{
		To:      to,
		Subject: fmt.Sprintf("Welcome to the %s member portal", orgName),
		Body: fmt.Sprintf("Hello %s,\n\n%s has invited you to their member portal. Set up your account here:\n\n%s\n\nIf you were not expecting this invitation you can ignore this email.\n",
			memberName, orgName, actionURL),
	}
}

// WelcomeMessage renders the post-signup welcome email.
func WelcomeMessage(to, orgName string) Message {
	return Message{
		To:      to,
		Subject: "Welcome to Shulware",
		Body: fmt.Sprintf("Your organization %s has been created.\n\nSign in to finish configuring payment processors and invite your members.\n",
			orgName),
	}
}
