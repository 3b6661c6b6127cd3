package leave

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/leave"
)

// Ledger owns every write to leave_balances. Rows are created lazily from
// the leave type's default allotment and only ever debited on approval.
type Ledger struct {
	leave.LeaveTypeRepository
	leave.LeaveBalanceRepository
}

func NewLedger(leaveTypeRepository leave.LeaveTypeRepository, leaveBalanceRepository leave.LeaveBalanceRepository) *Ledger {
	return &Ledger{
		LeaveTypeRepository:    leaveTypeRepository,
		LeaveBalanceRepository: leaveBalanceRepository,
	}
}

// Ensure returns the row for key, seeding it with the type's current
// default allotment when missing.
func (l *Ledger) Ensure(ctx context.Context, key leave.BalanceKey) (leave.LeaveBalance, error) {
	leaveType, err := l.LeaveTypeRepository.GetByID(ctx, key.LeaveTypeID)
	if err != nil {
		return leave.LeaveBalance{}, err
	}

	balance, err := l.LeaveBalanceRepository.GetOrCreate(ctx, key, leaveType.DefaultDays)
	if err != nil {
		return leave.LeaveBalance{}, fmt.Errorf("failed to get or create leave balance: %w", err)
	}
	return balance, nil
}

// Reserve debits days from key, creating the row first if needed. It
// fails with leave.ErrInsufficientBalance and changes nothing when
// remaining < days.
func (l *Ledger) Reserve(ctx context.Context, key leave.BalanceKey, days int) (leave.LeaveBalance, error) {
	if _, err := l.Ensure(ctx, key); err != nil {
		return leave.LeaveBalance{}, err
	}

	balance, err := l.LeaveBalanceRepository.Reserve(ctx, key, days)
	if err != nil {
		return leave.LeaveBalance{}, err
	}

	slog.Info("leave balance reserved",
		"employee_id", key.EmployeeID,
		"leave_type_id", key.LeaveTypeID,
		"year", key.Year,
		"days", days,
		"remaining_days", balance.RemainingDays,
	)
	return balance, nil
}

// Balances reports every leave type the employee holds a row for plus
// every active type, the latter as an untouched allotment when no row
// exists yet. Nothing is persisted.
func (l *Ledger) Balances(ctx context.Context, employeeID string, year int) ([]leave.LeaveBalanceResponse, error) {
	types, err := l.LeaveTypeRepository.List(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave types: %w", err)
	}

	rows, err := l.LeaveBalanceRepository.ListByEmployeeYear(ctx, employeeID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave balances: %w", err)
	}
	byType := make(map[string]leave.LeaveBalance, len(rows))
	for _, b := range rows {
		byType[b.LeaveTypeID] = b
	}

	balances := make([]leave.LeaveBalanceResponse, 0, len(types))
	for _, lt := range types {
		b, ok := byType[lt.ID]
		if !ok {
			if !lt.IsActive {
				continue
			}
			b = leave.NewLeaveBalance(leave.BalanceKey{EmployeeID: employeeID, LeaveTypeID: lt.ID, Year: year}, lt.DefaultDays)
		}
		balances = append(balances, leave.LeaveBalanceResponse{
			LeaveTypeID:   lt.ID,
			LeaveTypeName: lt.Name,
			Year:          year,
			TotalDays:     b.TotalDays,
			UsedDays:      b.UsedDays,
			RemainingDays: b.RemainingDays,
		})
	}
	return balances, nil
}
