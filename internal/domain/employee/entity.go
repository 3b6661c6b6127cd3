package employee

import (
	"time"

	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/user"
	"github.com/shopspring/decimal"
)

// Standard month used to turn a monthly salary into an hourly rate.
const (
	StandardWorkingDays = 22
	StandardHoursPerDay = 8
)

// Employee is the read-only view of the employee directory that the
// time-off workflows need. Profile management lives elsewhere.
type Employee struct {
	ID            string
	UserID        string
	FullName      string
	Role          user.Role
	MonthlySalary decimal.Decimal
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// HourlyRate derives the compensation rate from a monthly salary.
func HourlyRate(monthlySalary decimal.Decimal) decimal.Decimal {
	return monthlySalary.Div(decimal.NewFromInt(StandardWorkingDays * StandardHoursPerDay))
}

func (e Employee) HourlyRate() decimal.Decimal {
	return HourlyRate(e.MonthlySalary)
}

// CanApprove reports whether the employee receives approval requests.
func (e Employee) CanApprove() bool {
	return e.Role == user.RoleManager || e.Role == user.RoleOwner
}
