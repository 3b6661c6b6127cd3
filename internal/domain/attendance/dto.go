package attendance

import (
	"time"

	"github.com/cmlabs-hris/hris-timeoff-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type MarkAttendanceRequest struct {
	EmployeeID string  `json:"-"`
	ActorID    string  `json:"-"`
	Date       string  `json:"date"`
	CheckIn    string  `json:"check_in"`
	CheckOut   *string `json:"check_out,omitempty"`
	Status     string  `json:"status,omitempty"`
	Notes      *string `json:"notes,omitempty"`
}

func (r *MarkAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employee_id", "employee_id is required")
	}
	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs.Add("date", "date must be in YYYY-MM-DD format")
	}
	if !validator.IsValidClock(r.CheckIn) {
		errs.Add("check_in", "check_in must be in HH:MM format")
	}
	if r.CheckOut != nil && !validator.IsValidClock(*r.CheckOut) {
		errs.Add("check_out", "check_out must be in HH:MM format")
	}
	if r.Status != "" && !Status(r.Status).IsValid() {
		errs.Add("status", "status must be one of present, absent, late, half_day, on_leave")
	}
	if r.Notes != nil && len(*r.Notes) > 1000 {
		errs.Add("notes", "notes must not exceed 1000 characters")
	}

	return errs.Err()
}

// EffectiveStatus applies the present default.
func (r *MarkAttendanceRequest) EffectiveStatus() Status {
	if r.Status == "" {
		return StatusPresent
	}
	return Status(r.Status)
}

// UpdateAttendanceRequest changes only the fields that are set. Check times
// are wall-clock values on the record's own date.
type UpdateAttendanceRequest struct {
	ID       string  `json:"-"`
	ActorID  string  `json:"-"`
	CheckIn  *string `json:"check_in,omitempty"`
	CheckOut *string `json:"check_out,omitempty"`
	Status   *string `json:"status,omitempty"`
	Notes    *string `json:"notes,omitempty"`
}

func (r *UpdateAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs.Add("id", "id is required")
	}
	if r.CheckIn != nil && !validator.IsValidClock(*r.CheckIn) {
		errs.Add("check_in", "check_in must be in HH:MM format")
	}
	if r.CheckOut != nil && !validator.IsValidClock(*r.CheckOut) {
		errs.Add("check_out", "check_out must be in HH:MM format")
	}
	if r.Status != nil && !Status(*r.Status).IsValid() {
		errs.Add("status", "status must be one of present, absent, late, half_day, on_leave")
	}
	if r.Notes != nil && len(*r.Notes) > 1000 {
		errs.Add("notes", "notes must not exceed 1000 characters")
	}

	return errs.Err()
}

type ListAttendanceRequest struct {
	EmployeeID *string
	StartDate  string
	EndDate    string
	Status     string
	Page       int
	PageSize   int
}

func (r *ListAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

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
	if r.Status != "" && !Status(r.Status).IsValid() {
		errs.Add("status", "status must be one of present, absent, late, half_day, on_leave")
	}

	return errs.Err()
}

type MonthlyReportRequest struct {
	EmployeeID *string
	Year       int
	Month      int
}

func (r *MonthlyReportRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Year < 1970 || r.Year > 9999 {
		errs.Add("year", "year must be a valid four-digit year")
	}
	if r.Month < 1 || r.Month > 12 {
		errs.Add("month", "month must be between 1 and 12")
	}

	return errs.Err()
}

type AttendanceResponse struct {
	ID         string           `json:"id"`
	EmployeeID string           `json:"employee_id"`
	Date       string           `json:"date"`
	CheckIn    *time.Time       `json:"check_in,omitempty"`
	CheckOut   *time.Time       `json:"check_out,omitempty"`
	Status     string           `json:"status"`
	TotalHours *decimal.Decimal `json:"total_hours,omitempty"`
	Notes      *string          `json:"notes,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

func NewAttendanceResponse(a Attendance) AttendanceResponse {
	resp := AttendanceResponse{
		ID:         a.ID,
		EmployeeID: a.EmployeeID,
		Date:       a.Date.Format(calendar.DateLayout),
		CheckIn:    a.CheckIn,
		CheckOut:   a.CheckOut,
		Status:     string(a.Status),
		Notes:      a.Notes,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
	if a.TotalHours.Valid {
		hours := a.TotalHours.Decimal
		resp.TotalHours = &hours
	}
	return resp
}

type MonthlyReportResponse struct {
	Year       int                  `json:"year"`
	Month      int                  `json:"month"`
	Attendance []AttendanceResponse `json:"attendance"`
	Stats      MonthlyStats         `json:"stats"`
}
