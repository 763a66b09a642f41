package auth

// Role represents a user role.
type Role string

const (
	// RoleViewer may only read the recent rows view.
	RoleViewer Role = "viewer"
	// RoleOperator enters rakes and is held to the freshness window.
	RoleOperator Role = "operator"
	// RoleSupervisor may back-date entries outside the freshness window.
	RoleSupervisor Role = "supervisor"
)

// NormalizeRole validates and normalizes a role string.
func NormalizeRole(value string) (Role, bool) {
	switch Role(value) {
	case RoleViewer, RoleOperator, RoleSupervisor:
		return Role(value), true
	default:
		return "", false
	}
}

// RoleAtLeast returns true when role satisfies required role.
func RoleAtLeast(role Role, required Role) bool {
	return roleRank(role) >= roleRank(required)
}

// Restricted reports whether the role is held to the entry freshness window.
func (r Role) Restricted() bool {
	return !RoleAtLeast(r, RoleSupervisor)
}

func roleRank(role Role) int {
	switch role {
	case RoleViewer:
		return 1
	case RoleOperator:
		return 2
	case RoleSupervisor:
		return 3
	default:
		return 0
	}
}
