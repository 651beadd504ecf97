package types

import "fmt"

// Role classifies a user for access policy decisions. Role names are
// organisation-specific; the permission table in the workflow config maps
// them to capabilities, so the constants here are defaults rather than
// load-bearing semantics.
type Role string

const (
	// RoleStaff may propose acceptances and comment on their own
	RoleStaff Role = "staff"
	// RoleCCRO is the first-line reviewer function
	RoleCCRO Role = "ccro"
	// RoleAdmin has all capabilities of staff and ccro
	RoleAdmin Role = "admin"
	// RoleSystem is reserved for the expiry sweeper
	RoleSystem Role = "system"
)

// AllRoles returns all valid roles
func AllRoles() []Role {
	return []Role{
		RoleStaff,
		RoleCCRO,
		RoleAdmin,
		RoleSystem,
	}
}

// IsValid checks if the role is valid
func (r Role) IsValid() bool {
	switch r {
	case RoleStaff, RoleCCRO, RoleAdmin, RoleSystem:
		return true
	default:
		return false
	}
}

// String returns the string representation of the role
func (r Role) String() string {
	return string(r)
}

// ParseRole parses a string into a Role
func ParseRole(s string) (Role, error) {
	role := Role(s)
	if !role.IsValid() {
		return "", fmt.Errorf("invalid role: %s", s)
	}
	return role, nil
}
