package members

import "time"

// Member is a person record owned by one organization. Members exist before
// they hold portal access; an invite token lets them claim it.
type Member struct {
	ID          int64
	OrgID       int64
	FirstName   string
	LastName    string
	Email       string
	InviteToken *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// MemberWithOrg pairs a member with its owning organization's name, as the
// invitation templates need both.
type MemberWithOrg struct {
	Member
	OrgName string
}
