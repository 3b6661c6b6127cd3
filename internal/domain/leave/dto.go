package leave

import (
	"time"

	"github.com/cmlabs-hris/hris-timeoff-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/pkg/validator"
)

type CreateLeaveTypeRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	DefaultDays int     `json:"default_days"`
	IsPaid      *bool   `json:"is_paid,omitempty"`
	ActorID     string  `json:"-"`
}

func (r *CreateLeaveTypeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs.Add("name", "name is required")
	}
	if len(r.Name) > 255 {
		errs.Add("name", "name must not exceed 255 characters")
	}
	if r.DefaultDays < 0 {
		errs.Add("default_days", "default_days must not be negative")
	}
	if r.DefaultDays > 366 {
		errs.Add("default_days", "default_days must not exceed 366")
	}

	return errs.Err()
}

type UpdateLeaveTypeRequest struct {
	ID          string  `json:"-"`
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	DefaultDays *int    `json:"default_days,omitempty"`
	IsPaid      *bool   `json:"is_paid,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
	ActorID     string  `json:"-"`
}

func (r *UpdateLeaveTypeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs.Add("id", "id is required")
	}
	if r.Name != nil {
		if validator.IsEmpty(*r.Name) {
			errs.Add("name", "name must not be empty")
		}
		if len(*r.Name) > 255 {
			errs.Add("name", "name must not exceed 255 characters")
		}
	}
	if r.DefaultDays != nil && (*r.DefaultDays < 0 || *r.DefaultDays > 366) {
		errs.Add("default_days", "default_days must be between 0 and 366")
	}

	return errs.Err()
}

type ApplyLeaveRequest struct {
	EmployeeID  string `json:"-"`
	ActorID     string `json:"-"`
	LeaveTypeID string `json:"leave_type_id"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Reason      string `json:"reason"`
}

func (r *ApplyLeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employee_id", "employee_id is required")
	}
	if validator.IsEmpty(r.LeaveTypeID) {
		errs.Add("leave_type_id", "leave_type_id is required")
	}
	if _, ok := validator.IsValidDate(r.StartDate); !ok {
		errs.Add("start_date", "start_date must be in YYYY-MM-DD format")
	}
	if _, ok := validator.IsValidDate(r.EndDate); !ok {
		errs.Add("end_date", "end_date must be in YYYY-MM-DD format")
	}
	if validator.IsEmpty(r.Reason) {
		errs.Add("reason", "reason is required")
	}
	if len(r.Reason) > 1000 {
		errs.Add("reason", "reason must not exceed 1000 characters")
	}

	return errs.Err()
}

// HistoryRequest lists an employee's applications, optionally limited to
// those lying entirely within [StartDate, EndDate].
type HistoryRequest struct {
	EmployeeID string
	StartDate  string
	EndDate    string
}

func (r *HistoryRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employee_id", "employee_id is required")
	}
	if (r.StartDate == "") != (r.EndDate == "") {
		errs.Add("start_date", "start_date and end_date must be given together")
	}
	if r.StartDate != "" {
		if _, ok := validator.IsValidDate(r.StartDate); !ok {
			errs.Add("start_date", "start_date must be in YYYY-MM-DD format")
		}
	}
	if r.EndDate != "" {
		if _, ok := validator.IsValidDate(r.EndDate); !ok {
			errs.Add("end_date", "end_date must be in YYYY-MM-DD format")
		}
	}

	return errs.Err()
}

type LeaveTypeResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	DefaultDays int       `json:"default_days"`
	IsPaid      bool      `json:"is_paid"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func NewLeaveTypeResponse(t LeaveType) LeaveTypeResponse {
	return LeaveTypeResponse{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		DefaultDays: t.DefaultDays,
		IsPaid:      t.IsPaid,
		IsActive:    t.IsActive,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

type LeaveBalanceResponse struct {
	LeaveTypeID   string `json:"leave_type_id"`
	LeaveTypeName string `json:"leave_type_name"`
	Year          int    `json:"year"`
	TotalDays     int    `json:"total_days"`
	UsedDays      int    `json:"used_days"`
	RemainingDays int    `json:"remaining_days"`
}

type LeaveApplicationResponse struct {
	ID              string     `json:"id"`
	EmployeeID      string     `json:"employee_id"`
	LeaveTypeID     string     `json:"leave_type_id"`
	StartDate       string     `json:"start_date"`
	EndDate         string     `json:"end_date"`
	Days            int        `json:"days"`
	Reason          string     `json:"reason"`
	Status          string     `json:"status"`
	ApprovedBy      *string    `json:"approved_by,omitempty"`
	DecidedAt       *time.Time `json:"decided_at,omitempty"`
	RejectionReason *string    `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func NewLeaveApplicationResponse(a LeaveApplication) LeaveApplicationResponse {
	return LeaveApplicationResponse{
		ID:              a.ID,
		EmployeeID:      a.EmployeeID,
		LeaveTypeID:     a.LeaveTypeID,
		StartDate:       a.StartDate.Format(calendar.DateLayout),
		EndDate:         a.EndDate.Format(calendar.DateLayout),
		Days:            a.Days,
		Reason:          a.Reason,
		Status:          string(a.Status),
		ApprovedBy:      a.ApprovedBy,
		DecidedAt:       a.DecidedAt,
		RejectionReason: a.RejectionReason,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

type HistoryEntry struct {
	ApplicationID string `json:"application_id"`
	Date          string `json:"date"`
	LeaveTypeID   string `json:"leave_type_id"`
	LeaveType     string `json:"leave_type"`
	Days          int    `json:"days"`
	Status        string `json:"status"`
}

type UsageTrendPoint struct {
	Month string `json:"month"`
	Days  int    `json:"days"`
}
