package overtime

import (
	"time"

	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/approval"
	"github.com/shopspring/decimal"
)

// DefaultMultiplier is the overtime premium applied on top of the hourly rate.
var DefaultMultiplier = decimal.RequireFromString("1.5")

type Overtime struct {
	ID              string
	EmployeeID      string
	Date            time.Time
	StartTime       time.Time
	EndTime         time.Time
	TotalHours      decimal.Decimal
	Rate            decimal.Decimal
	Amount          decimal.Decimal
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

// Compensation computes hours and amount for the span [start, end] at rate
// with the given multiplier. Hours are exact to the minute.
func Compensation(start, end time.Time, rate, multiplier decimal.Decimal) (hours, amount decimal.Decimal) {
	minutes := decimal.NewFromInt(int64(end.Sub(start) / time.Minute))
	hours = minutes.Div(decimal.NewFromInt(60)).Round(2)
	amount = hours.Mul(rate).Mul(multiplier).Round(2)
	return hours, amount
}

type Filter struct {
	EmployeeID *string
	Status     *approval.Status
	From       *time.Time
	To         *time.Time
	Page       int
	PageSize   int
}
