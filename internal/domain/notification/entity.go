package notification

import (
	"time"
)

// NotificationType represents the type of notification
type NotificationType string

const (
	TypeLeaveRequest           NotificationType = "leave_request"
	TypeLeaveApproved          NotificationType = "leave_approved"
	TypeLeaveRejected          NotificationType = "leave_rejected"
	TypeRegularizationPending  NotificationType = "regularization_pending"
	TypeRegularizationApproved NotificationType = "regularization_approved"
	TypeRegularizationRejected NotificationType = "regularization_rejected"
	TypeOvertimeRequest        NotificationType = "overtime_request"
	TypeOvertimeApproved       NotificationType = "overtime_approved"
	TypeOvertimeRejected       NotificationType = "overtime_rejected"
	TypeAttendanceOnLeave      NotificationType = "attendance_on_leave"
)

// AllNotificationTypes returns all available notification types
func AllNotificationTypes() []NotificationType {
	return []NotificationType{
		TypeLeaveRequest,
		TypeLeaveApproved,
		TypeLeaveRejected,
		TypeRegularizationPending,
		TypeRegularizationApproved,
		TypeRegularizationRejected,
		TypeOvertimeRequest,
		TypeOvertimeApproved,
		TypeOvertimeRejected,
		TypeAttendanceOnLeave,
	}
}

func (t NotificationType) IsValid() bool {
	for _, v := range AllNotificationTypes() {
		if t == v {
			return true
		}
	}
	return false
}

// Notification represents a notification entity
type Notification struct {
	ID          string
	RecipientID string
	SenderID    *string
	Type        NotificationType
	Title       string
	Message     string
	Data        map[string]interface{}
	IsRead      bool
	ReadAt      *time.Time
	CreatedAt   time.Time
}
