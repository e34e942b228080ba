// Package entity contains the core business objects of the project.
package entity

import "slices"

// Role represents the access level a user has in the system.
type Role string

const (
	// RoleAdmin has unrestricted access to every resource.
	RoleAdmin Role = "ADMIN"
	// RoleManager may read and mutate any order, but not other users' accounts.
	RoleManager Role = "MANAGER"
	// RoleFreelancer is the default role; access is limited to owned resources.
	RoleFreelancer Role = "FREELANCER"
)

// String returns the string representation of the Role.
func (r Role) String() string {
	return string(r)
}

// IsValid checks if the Role is a valid value.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleFreelancer:
		return true
	default:
		return false
	}
}

// IsAdmin reports whether the role is ADMIN.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// CanManageOrders reports whether the role bypasses the per-order ownership gate.
func (r Role) CanManageOrders() bool {
	return r == RoleAdmin || r == RoleManager
}

// Roles is a slice of Role for convenience.
type Roles []Role

// Contains checks if the roles slice contains a specific role.
func (rs Roles) Contains(role Role) bool {
	return slices.Contains(rs, role)
}

// AllRoles lists every role accepted at registration and in role gates.
func AllRoles() Roles {
	return Roles{RoleAdmin, RoleManager, RoleFreelancer}
}
