package overtime

import (
	"time"

	"github.com/cmlabs-hris/hris-timeoff-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type ApplyOvertimeRequest struct {
	EmployeeID string `json:"-"`
	ActorID    string `json:"-"`
	Date       string `json:"date"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	Reason     string `json:"reason"`
}

func (r *ApplyOvertimeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employee_id", "employee_id is required")
	}
	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs.Add("date", "date must be in YYYY-MM-DD format")
	}
	if !validator.IsValidClock(r.StartTime) {
		errs.Add("start_time", "start_time must be in HH:MM format")
	}
	if !validator.IsValidClock(r.EndTime) {
		errs.Add("end_time", "end_time must be in HH:MM format")
	}
	if validator.IsEmpty(r.Reason) {
		errs.Add("reason", "reason is required")
	}
	if len(r.Reason) > 1000 {
		errs.Add("reason", "reason must not exceed 1000 characters")
	}

	return errs.Err()
}

type OvertimeResponse struct {
	ID              string          `json:"id"`
	EmployeeID      string          `json:"employee_id"`
	Date            string          `json:"date"`
	StartTime       time.Time       `json:"start_time"`
	EndTime         time.Time       `json:"end_time"`
	TotalHours      decimal.Decimal `json:"total_hours"`
	Rate            decimal.Decimal `json:"rate"`
	Amount          decimal.Decimal `json:"amount"`
	Reason          string          `json:"reason"`
	Status          string          `json:"status"`
	ApprovedBy      *string         `json:"approved_by,omitempty"`
	ApprovedAt      *time.Time      `json:"approved_at,omitempty"`
	RejectionReason *string         `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func NewOvertimeResponse(o Overtime) OvertimeResponse {
	return OvertimeResponse{
		ID:              o.ID,
		EmployeeID:      o.EmployeeID,
		Date:            o.Date.Format(calendar.DateLayout),
		StartTime:       o.StartTime,
		EndTime:         o.EndTime,
		TotalHours:      o.TotalHours,
		Rate:            o.Rate,
		Amount:          o.Amount,
		Reason:          o.Reason,
		Status:          string(o.Status),
		ApprovedBy:      o.ApprovedBy,
		ApprovedAt:      o.ApprovedAt,
		RejectionReason: o.RejectionReason,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}
