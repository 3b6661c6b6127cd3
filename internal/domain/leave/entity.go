package leave

import (
	"time"

	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/approval"
)

// LeaveType is a category of leave with its yearly default allotment.
// Types are disabled rather than deleted, and editing DefaultDays never
// rewrites balances that already exist.
type LeaveType struct {
	ID          string
	Name        string
	Description *string
	DefaultDays int
	IsPaid      bool
	IsActive    bool
	CreatedBy   *string
	UpdatedBy   *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// BalanceKey identifies one ledger row.
type BalanceKey struct {
	EmployeeID  string
	LeaveTypeID string
	Year        int
}

// LeaveBalance is the ledger row for an employee, leave type and year.
// RemainingDays always equals TotalDays - UsedDays and neither goes negative.
type LeaveBalance struct {
	ID            string
	EmployeeID    string
	LeaveTypeID   string
	Year          int
	TotalDays     int
	UsedDays      int
	RemainingDays int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (b LeaveBalance) Key() BalanceKey {
	return BalanceKey{EmployeeID: b.EmployeeID, LeaveTypeID: b.LeaveTypeID, Year: b.Year}
}

// Consistent reports whether the ledger invariant holds for b.
func (b LeaveBalance) Consistent() bool {
	return b.UsedDays >= 0 && b.RemainingDays >= 0 && b.RemainingDays == b.TotalDays-b.UsedDays
}

// NewLeaveBalance seeds a fresh ledger row with the type's allotment.
func NewLeaveBalance(key BalanceKey, allotment int) LeaveBalance {
	return LeaveBalance{
		EmployeeID:    key.EmployeeID,
		LeaveTypeID:   key.LeaveTypeID,
		Year:          key.Year,
		TotalDays:     allotment,
		RemainingDays: allotment,
	}
}

type LeaveApplication struct {
	ID              string
	EmployeeID      string
	LeaveTypeID     string
	StartDate       time.Time
	EndDate         time.Time
	Days            int
	Reason          string
	Status          approval.Status
	ApprovedBy      *string
	DecidedAt       *time.Time
	RejectionReason *string
	CreatedBy       string
	UpdatedBy       string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// BalanceKey is the ledger row an approval of a is charged against: the
// year of its start date.
func (a LeaveApplication) BalanceKey() BalanceKey {
	return BalanceKey{EmployeeID: a.EmployeeID, LeaveTypeID: a.LeaveTypeID, Year: a.StartDate.Year()}
}

// Blocking reports whether a counts as a conflict for new applications.
func (a LeaveApplication) Blocking() bool {
	return a.Status == approval.StatusPending || a.Status == approval.StatusApproved
}

// ApplicationFilter narrows LeaveApplicationRepository.List.
type ApplicationFilter struct {
	EmployeeID *string
	Status     *approval.Status
	From       *time.Time // applications ending on or after From
	To         *time.Time // applications starting on or before To
	Page       int
	PageSize   int
}
