package domain

import "strings"

// Role is the closed set of staff roles
type Role string

const (
	RoleAdmin        Role = "admin"
	RolePhotographer Role = "photographer"
	RoleVideographer Role = "videographer"
	RoleEditor       Role = "editor"
	RoleOther        Role = "other"
)

// Roles lists every role in display order
var Roles = []Role{RoleAdmin, RolePhotographer, RoleVideographer, RoleEditor, RoleOther}

// ParseRole converts untrusted input into a Role
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleAdmin, RolePhotographer, RoleVideographer, RoleEditor, RoleOther:
		return r, nil
	default:
		return "", NewValidationError("role", "must be one of admin, photographer, videographer, editor, other")
	}
}

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

// RequiresFirm reports whether a user with this role must belong to a firm.
// Admins may exist without a firm until they create one.
func (r Role) RequiresFirm() bool {
	switch r {
	case RoleAdmin:
		return false
	case RolePhotographer, RoleVideographer, RoleEditor, RoleOther:
		return true
	}
	return true
}

// CanManageTeam reports whether the role may add staff and create firms
func (r Role) CanManageTeam() bool {
	switch r {
	case RoleAdmin:
		return true
	case RolePhotographer, RoleVideographer, RoleEditor, RoleOther:
		return false
	}
	return false
}

// Label is the human-readable role name
func (r Role) Label() string {
	switch r {
	case RoleAdmin:
		return "Admin"
	case RolePhotographer:
		return "Photographer"
	case RoleVideographer:
		return "Videographer"
	case RoleEditor:
		return "Editor"
	case RoleOther:
		return "Other"
	}
	return "Unknown"
}
