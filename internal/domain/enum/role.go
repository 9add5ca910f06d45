package enum

import "fmt"

// Role is an employee's role. Stored as its name.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleCashier Role = "cashier"
	RolePlanner Role = "planner"
)

// Permission names checked by the HTTP layer.
const (
	PermManageBilling    = "manage-billing"
	PermManageProducts   = "manage-products"
	PermManageCustomers  = "manage-customers"
	PermManageProduction = "manage-production"
	PermManageUsers      = "manage-users"
	PermViewDashboard    = "view-dashboard"
)

var rolePermissions = map[Role][]string{
	RoleAdmin: {
		PermManageBilling,
		PermManageProducts,
		PermManageCustomers,
		PermManageProduction,
		PermManageUsers,
		PermViewDashboard,
	},
	RoleCashier: {
		PermManageBilling,
		PermManageCustomers,
		PermViewDashboard,
	},
	RolePlanner: {
		PermManageProduction,
		PermManageProducts,
		PermViewDashboard,
	},
}

// ParseRole validates a role name.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if _, ok := rolePermissions[r]; !ok {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// Permissions returns a copy of the permissions granted to the role.
func (r Role) Permissions() []string {
	perms := rolePermissions[r]
	out := make([]string, len(perms))
	copy(out, perms)
	return out
}

// Can reports whether the role grants permission.
func (r Role) Can(permission string) bool {
	for _, p := range rolePermissions[r] {
		if p == permission {
			return true
		}
	}
	return false
}

func (r Role) String() string {
	return string(r)
}
