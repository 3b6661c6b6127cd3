package attendance

import "errors"

var (
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrDuplicateRecord    = errors.New("attendance already marked for this date")
	ErrOnApprovedLeave    = errors.New("employee is on approved leave for this date")
	ErrInvalidStatus      = errors.New("invalid attendance status")
)
