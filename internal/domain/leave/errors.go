package leave

import "errors"

var (
	ErrLeaveTypeNotFound        = errors.New("leave type not found")
	ErrLeaveTypeInactive        = errors.New("leave type is not active")
	ErrLeaveTypeNameExists      = errors.New("leave type name already exists")
	ErrLeaveApplicationNotFound = errors.New("leave application not found")
	ErrLeaveBalanceNotFound     = errors.New("leave balance not found")
	ErrOverlappingApplication   = errors.New("leave application overlaps an existing pending or approved application")
	ErrInsufficientBalance      = errors.New("insufficient leave balance")
)
