package user

type Role string

const (
	RoleOwner    Role = "owner"    // Company owner - full access
	RoleManager  Role = "manager"  // Can approve leave/attendance/overtime
	RoleEmployee Role = "employee" // Regular employee
)

func (r Role) IsValid() bool {
	_, ok := RolePermissions[r]
	return ok
}

// Actor is the authenticated caller as established by the identity layer.
type Actor struct {
	UserID     string
	EmployeeID string
	Role       Role
}

// IsManager checks if actor is manager or owner
func (a Actor) IsManager() bool {
	return a.Role == RoleManager || a.Role == RoleOwner
}

// Can reports whether the actor's role grants p.
func (a Actor) Can(p Permission) bool {
	return HasPermission(a.Role, p)
}
