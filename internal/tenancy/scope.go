package tenancy

// Scope is the query policy derived from an identity's role grants. It is a
// pure function of the grant set and carries no reference to the store.
type Scope struct {
	// PlatformOwner is true when the grants include a platform-wide owner
	// grant. Platform owners see every tenant unfiltered.
	PlatformOwner bool
	// OrgIDs holds the distinct organizations the grants are scoped to.
	OrgIDs []int64
}

// ResolveScope derives the query policy from a grant set.
func ResolveScope(grants []RoleGrant) Scope {
	scope := Scope{}
	seen := make(map[int64]struct{})
	for _, g := range grants {
		if g.PlatformWide() {
			scope.PlatformOwner = true
			continue
		}
		if g.OrgID == nil {
			continue
		}
		if _, ok := seen[*g.OrgID]; ok {
			continue
		}
		seen[*g.OrgID] = struct{}{}
		scope.OrgIDs = append(scope.OrgIDs, *g.OrgID)
	}
	return scope
}

// Queryable reports whether a dependent query may execute at all. A scope
// with no platform authority and no organizations fails closed: callers must
// return empty results instead of querying unscoped.
func (s Scope) Queryable() bool {
	return s.PlatformOwner || len(s.OrgIDs) > 0
}

// Unrestricted reports whether queries may run without an organization filter.
func (s Scope) Unrestricted() bool {
	return s.PlatformOwner
}

// CanAccessOrg reports whether the scope permits acting on the organization.
func (s Scope) CanAccessOrg(orgID int64) bool {
	if s.PlatformOwner {
		return true
	}
	for _, id := range s.OrgIDs {
		if id == orgID {
			return true
		}
	}
	return false
}
