package models

// Principal roles recognized by the authorization layer.
const (
	RoleSuperAdmin  = "super-admin"
	RoleHostelAdmin = "hostel-admin"
	RoleStaff       = "staff"
	RoleWarden      = "warden"
	RoleStudent     = "student"
)

// SuperAdminID is the synthetic subject id used for the environment-backed
// super-admin principal; it never corresponds to a stored document.
const SuperAdminID = "superadmin"

// StaffRoles are the only roles a Staff record may carry.
var StaffRoles = []string{RoleStaff, RoleWarden}

// IsStaffRole reports whether r is a valid stored staff role.
func IsStaffRole(r string) bool {
	return r == RoleStaff || r == RoleWarden
}
