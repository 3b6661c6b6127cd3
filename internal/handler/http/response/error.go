package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/approval"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/notification"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/overtime"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/regularization"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Identity
	case errors.Is(err, user.ErrInvalidToken):
		Unauthorized(w, err.Error())
	case errors.Is(err, user.ErrEmployeeIDRequired):
		Forbidden(w, "Employee ID not found in token")
	case errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, err.Error())

	// Not found
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, leave.ErrLeaveTypeNotFound):
		NotFound(w, "Leave type not found")
	case errors.Is(err, leave.ErrLeaveApplicationNotFound):
		NotFound(w, "Leave application not found")
	case errors.Is(err, leave.ErrLeaveBalanceNotFound):
		NotFound(w, "Leave balance not found")
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, regularization.ErrRegularizationNotFound):
		NotFound(w, "Regularization request not found")
	case errors.Is(err, overtime.ErrOvertimeNotFound):
		NotFound(w, "Overtime request not found")
	case errors.Is(err, notification.ErrNotificationNotFound):
		NotFound(w, "Notification not found")

	// Business rules
	case errors.Is(err, calendar.ErrInvalidRange):
		BadRequest(w, "End must be after start", nil)
	case errors.Is(err, leave.ErrInsufficientBalance):
		BadRequest(w, "Insufficient leave balance", nil)
	case errors.Is(err, leave.ErrOverlappingApplication):
		Conflict(w, err.Error())
	case errors.Is(err, leave.ErrLeaveTypeNameExists):
		Conflict(w, "Leave type name already exists")
	case errors.Is(err, attendance.ErrDuplicateRecord):
		Conflict(w, "Attendance already marked for this date")
	case errors.Is(err, attendance.ErrOnApprovedLeave):
		Conflict(w, err.Error())
	case errors.Is(err, approval.ErrAlreadyDecided):
		Conflict(w, "Request has already been decided")

	// Malformed input surfaced by services
	case errors.Is(err, leave.ErrLeaveTypeInactive),
		errors.Is(err, approval.ErrInvalidDecision),
		errors.Is(err, attendance.ErrInvalidStatus),
		errors.Is(err, notification.ErrInvalidNotificationType):
		BadRequest(w, err.Error(), nil)

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
