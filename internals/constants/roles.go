package constants

import "fmt"

// Roles carried in the JWT "role" / "roles" claims.
const (
	RoleAdmin       = "admin"
	RoleManager     = "training_manager"
	RoleFacilitator = "facilitator"
)

var (
	// StaffRoles may read progressions and capture hours.
	StaffRoles = []string{RoleAdmin, RoleManager, RoleFacilitator}
	// ManagerRoles may change status, delete records and export.
	ManagerRoles = []string{RoleAdmin, RoleManager}
)

const ErrRoleForbidden = "role %q may not access %s"

func RoleError(role, feature string) string {
	return fmt.Sprintf(ErrRoleForbidden, role, feature)
}
