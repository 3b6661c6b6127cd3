package leave

import (
	"context"
	"time"

	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/approval"
)

// LeaveTypeRepository - interface for leave_types table
type LeaveTypeRepository interface {
	Create(ctx context.Context, leaveType LeaveType) (LeaveType, error)
	GetByID(ctx context.Context, id string) (LeaveType, error)
	List(ctx context.Context, activeOnly bool) ([]LeaveType, error)
	Update(ctx context.Context, leaveType LeaveType) (LeaveType, error)
}

// LeaveBalanceRepository - interface for leave_balances table
type LeaveBalanceRepository interface {
	// GetOrCreate returns the row for key, inserting it with allotment days
	// when missing. Concurrent first calls converge on a single row.
	GetOrCreate(ctx context.Context, key BalanceKey, allotment int) (LeaveBalance, error)
	Get(ctx context.Context, key BalanceKey) (LeaveBalance, error)
	ListByEmployeeYear(ctx context.Context, employeeID string, year int) ([]LeaveBalance, error)
	// Reserve moves days from remaining to used in one conditional step and
	// returns ErrInsufficientBalance without changing anything when
	// remaining < days.
	Reserve(ctx context.Context, key BalanceKey, days int) (LeaveBalance, error)
}

// LeaveApplicationRepository - interface for leave_applications table
type LeaveApplicationRepository interface {
	Create(ctx context.Context, application LeaveApplication) (LeaveApplication, error)
	GetByID(ctx context.Context, id string) (LeaveApplication, error)
	List(ctx context.Context, filter ApplicationFilter) ([]LeaveApplication, int64, error)
	// HasOverlapping reports whether employeeID has a pending or approved
	// application intersecting [start, end]. Called inside a transaction it
	// serializes that employee's applications until the transaction ends.
	HasOverlapping(ctx context.Context, employeeID string, start, end time.Time) (bool, error)
	// HasApprovedCovering reports whether an approved application covers day.
	HasApprovedCovering(ctx context.Context, employeeID string, day time.Time) (bool, error)
	// ListApprovedCovering returns every approved application covering day.
	ListApprovedCovering(ctx context.Context, day time.Time) ([]LeaveApplication, error)
	// Decide persists outcome only while the application is still pending and
	// returns approval.ErrAlreadyDecided when it is not.
	Decide(ctx context.Context, id string, outcome approval.Outcome) (LeaveApplication, error)
}
