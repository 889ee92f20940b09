package models

import "strings"

// Role is a user's tier in the access hierarchy.
type Role string

const (
	RoleSuperAdmin Role = "SUPER_ADMIN"
	RoleAdmin      Role = "ADMIN"
	RoleEditor     Role = "EDITOR"
	RoleViewer     Role = "VIEWER"
)

// roleRank orders roles; a higher rank includes every permission of the lower ones.
var roleRank = map[Role]int{
	RoleViewer:     1,
	RoleEditor:     2,
	RoleAdmin:      3,
	RoleSuperAdmin: 4,
}

// AllRoles lists roles from most to least privileged.
var AllRoles = []Role{RoleSuperAdmin, RoleAdmin, RoleEditor, RoleViewer}

// ParseRole normalises s and reports whether it names a known role.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	_, ok := roleRank[r]
	return r, ok
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// AtLeast reports whether r is min or above it in the hierarchy.
func (r Role) AtLeast(min Role) bool {
	rank, ok := roleRank[r]
	if !ok {
		return false
	}
	return rank >= roleRank[min]
}

// RolesAtLeast returns the allow-set for "min or above".
func RolesAtLeast(min Role) []Role {
	roles := make([]Role, 0, len(AllRoles))
	for _, r := range AllRoles {
		if r.AtLeast(min) {
			roles = append(roles, r)
		}
	}
	return roles
}
