// Package authz implements the membership-based access control decisions.
// It is pure set logic over organisation memberships; callers supply the
// membership lists already fetched from the store.
package authz

import "slices"

// SharedOrganisation reports whether the two membership sets intersect,
// i.e. whether the two users belong to at least one common organisation.
// Symmetric in its arguments.
func SharedOrganisation(membershipsA, membershipsB []string) bool {
	if len(membershipsA) == 0 || len(membershipsB) == 0 {
		return false
	}
	seen := make(map[string]struct{}, len(membershipsA))
	for _, orgID := range membershipsA {
		seen[orgID] = struct{}{}
	}
	for _, orgID := range membershipsB {
		if _, ok := seen[orgID]; ok {
			return true
		}
	}
	return false
}

// IsMember reports whether candidate appears in the organisation's member
// list.
func IsMember(members []string, candidate string) bool {
	return slices.Contains(members, candidate)
}
