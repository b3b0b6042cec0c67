package tenancy

import "time"

// Role is a high-level permission grouping.
type Role string

// Known roles.
const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// RoleGrant assigns a role to an identity, optionally scoped to one
// organization. A grant with RoleOwner and a nil OrgID denotes platform-wide
// authority; every other grant is scoped to exactly one organization.
type RoleGrant struct {
	ID         int64
	IdentityID int64
	Role       Role
	OrgID      *int64
	CreatedAt  time.Time
}

// PlatformWide reports whether the grant confers platform-wide authority.
func (g RoleGrant) PlatformWide() bool {
	return g.Role == RoleOwner && g.OrgID == nil
}
