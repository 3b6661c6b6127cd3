package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasPermission(t *testing.T) {
	assert.True(t, HasPermission(RoleOwner, PermissionLeaveManageTypes))
	assert.False(t, HasPermission(RoleManager, PermissionLeaveManageTypes))
	assert.True(t, HasPermission(RoleManager, PermissionLeaveApprove))
	assert.True(t, HasPermission(RoleEmployee, PermissionLeaveCreate))
	assert.False(t, HasPermission(RoleEmployee, PermissionLeaveApprove))
	assert.False(t, HasPermission(Role("intern"), PermissionLeaveCreate))
}

func TestActor(t *testing.T) {
	mgr := Actor{UserID: "u-1", Role: RoleManager}
	assert.True(t, mgr.IsManager())
	assert.True(t, mgr.Can(PermissionOvertimeApprove))

	emp := Actor{UserID: "u-2", Role: RoleEmployee}
	assert.False(t, emp.IsManager())
	assert.False(t, emp.Can(PermissionAttendanceViewAll))
	assert.True(t, emp.Role.IsValid())
	assert.False(t, Role("ghost").IsValid())
}
