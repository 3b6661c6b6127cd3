package regularization

import (
	"time"

	"github.com/cmlabs-hris/hris-timeoff-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/pkg/validator"
)

type ApplyRegularizationRequest struct {
	EmployeeID string `json:"-"`
	ActorID    string `json:"-"`
	Date       string `json:"date"`
	CheckIn    string `json:"check_in"`
	CheckOut   string `json:"check_out"`
	Reason     string `json:"reason"`
}

func (r *ApplyRegularizationRequest) Validate() error {
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
	if !validator.IsValidClock(r.CheckOut) {
		errs.Add("check_out", "check_out must be in HH:MM format")
	}
	if validator.IsEmpty(r.Reason) {
		errs.Add("reason", "reason is required")
	}
	if len(r.Reason) > 1000 {
		errs.Add("reason", "reason must not exceed 1000 characters")
	}

	return errs.Err()
}

type RegularizationResponse struct {
	ID              string     `json:"id"`
	EmployeeID      string     `json:"employee_id"`
	Date            string     `json:"date"`
	CheckIn         time.Time  `json:"check_in"`
	CheckOut        time.Time  `json:"check_out"`
	Reason          string     `json:"reason"`
	Status          string     `json:"status"`
	ApprovedBy      *string    `json:"approved_by,omitempty"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty"`
	RejectionReason *string    `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func NewRegularizationResponse(r Regularization) RegularizationResponse {
	return RegularizationResponse{
		ID:              r.ID,
		EmployeeID:      r.EmployeeID,
		Date:            r.Date.Format(calendar.DateLayout),
		CheckIn:         r.CheckIn,
		CheckOut:        r.CheckOut,
		Reason:          r.Reason,
		Status:          string(r.Status),
		ApprovedBy:      r.ApprovedBy,
		ApprovedAt:      r.ApprovedAt,
		RejectionReason: r.RejectionReason,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}
