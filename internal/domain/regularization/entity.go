package regularization

import (
	"time"

	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/approval"
)

// Regularization asks for the recorded check times of one day to be
// corrected. Any number may be pending for the same day.
type Regularization struct {
	ID              string
	EmployeeID      string
	Date            time.Time
	CheckIn         time.Time
	CheckOut        time.Time
	Reason          string
	Status          approval.Status
	ApprovedBy      *string
	ApprovedAt      *time.Time
	RejectionReason *string
	CreatedBy       string
	UpdatedBy       string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type Filter struct {
	EmployeeID *string
	Status     *approval.Status
	Page       int
	PageSize   int
}
