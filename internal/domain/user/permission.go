package user

type Permission string

const (
	PermissionProfileManageOwn Permission = "profile.manage_own"

	PermissionAttendanceCreate      Permission = "attendance.create"
	PermissionAttendanceViewOwn     Permission = "attendance.view_own"
	PermissionAttendanceViewCompany Permission = "attendance.view_company"
	PermissionAttendanceOverride    Permission = "attendance.override_validity"

	PermissionEmployeeReview Permission = "employee.review"
	PermissionEmployeeView   Permission = "employee.view"

	PermissionCompanyView   Permission = "company.view"
	PermissionCompanyUpdate Permission = "company.update"
	PermissionCompanyCreate Permission = "company.create"
	PermissionCompanyDelete Permission = "company.delete"
)

// RolePermissions maps roles to their permissions. Company-scope checks
// happen in the services; this table only gates the role.
var RolePermissions = map[Role][]Permission{
	RoleEmployee: {
		PermissionProfileManageOwn,
		PermissionAttendanceCreate,
		PermissionAttendanceViewOwn,
		PermissionCompanyView,
	},
	RoleHR: {
		PermissionProfileManageOwn,
		PermissionAttendanceCreate,
		PermissionAttendanceViewOwn,
		PermissionAttendanceViewCompany,
		PermissionAttendanceOverride,
		PermissionEmployeeReview,
		PermissionEmployeeView,
		PermissionCompanyView,
		PermissionCompanyUpdate,
	},
	RoleAdmin: {
		PermissionProfileManageOwn,
		PermissionAttendanceViewOwn,
		PermissionAttendanceViewCompany,
		PermissionAttendanceOverride,
		PermissionEmployeeReview,
		PermissionEmployeeView,
		PermissionCompanyView,
		PermissionCompanyUpdate,
		PermissionCompanyCreate,
		PermissionCompanyDelete,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	for _, p := range RolePermissions[role] {
		if p == permission {
			return true
		}
	}
	return false
}
