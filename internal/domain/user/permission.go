package user

type Permission string

const (
	// Leave Management
	PermissionLeaveViewOwn     Permission = "leave.view_own"
	PermissionLeaveCreate      Permission = "leave.create"
	PermissionLeaveViewAll     Permission = "leave.view_all"
	PermissionLeaveApprove     Permission = "leave.approve"
	PermissionLeaveManageTypes Permission = "leave.manage_types"

	// Attendance Management
	PermissionAttendanceViewOwn Permission = "attendance.view_own"
	PermissionAttendanceCreate  Permission = "attendance.create"
	PermissionAttendanceViewAll Permission = "attendance.view_all"
	PermissionAttendanceApprove Permission = "attendance.approve"

	// Overtime
	PermissionOvertimeCreate  Permission = "overtime.create"
	PermissionOvertimeViewAll Permission = "overtime.view_all"
	PermissionOvertimeApprove Permission = "overtime.approve"

	// Reports
	PermissionReportsView Permission = "reports.view"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleOwner: {
		PermissionLeaveViewOwn,
		PermissionLeaveCreate,
		PermissionLeaveViewAll,
		PermissionLeaveApprove,
		PermissionLeaveManageTypes,
		PermissionAttendanceViewOwn,
		PermissionAttendanceCreate,
		PermissionAttendanceViewAll,
		PermissionAttendanceApprove,
		PermissionOvertimeCreate,
		PermissionOvertimeViewAll,
		PermissionOvertimeApprove,
		PermissionReportsView,
	},
	RoleManager: {
		// Manager can approve and view team data
		PermissionLeaveViewOwn,
		PermissionLeaveCreate,
		PermissionLeaveViewAll,
		PermissionLeaveApprove,
		PermissionAttendanceViewOwn,
		PermissionAttendanceCreate,
		PermissionAttendanceViewAll,
		PermissionAttendanceApprove,
		PermissionOvertimeCreate,
		PermissionOvertimeViewAll,
		PermissionOvertimeApprove,
		PermissionReportsView,
	},
	RoleEmployee: {
		PermissionLeaveViewOwn,
		PermissionLeaveCreate,
		PermissionAttendanceViewOwn,
		PermissionAttendanceCreate,
		PermissionOvertimeCreate,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}
