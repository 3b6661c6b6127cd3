package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type leaveBalanceRepositoryImpl struct {
	db *database.DB
}

func NewLeaveBalanceRepository(db *database.DB) leave.LeaveBalanceRepository {
	return &leaveBalanceRepositoryImpl{db: db}
}

const leaveBalanceColumns = `id, employee_id, leave_type_id, year, total_days, used_days, remaining_days, created_at, updated_at`

func scanLeaveBalance(row pgx.Row) (leave.LeaveBalance, error) {
	var b leave.LeaveBalance
	err := row.Scan(
		&b.ID, &b.EmployeeID, &b.LeaveTypeID, &b.Year,
		&b.TotalDays, &b.UsedDays, &b.RemainingDays,
		&b.CreatedAt, &b.UpdatedAt,
	)
	return b, err
}

// GetOrCreate implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepositoryImpl) GetOrCreate(ctx context.Context, key leave.BalanceKey, allotment int) (leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)

	// A concurrent first insert loses on the unique key and falls through to the read.
	_, err := q.Exec(ctx, `
		INSERT INTO leave_balances (id, employee_id, leave_type_id, year, total_days, used_days, remaining_days)
		VALUES (uuidv7(), $1, $2, $3, $4, 0, $4)
		ON CONFLICT (employee_id, leave_type_id, year) DO NOTHING
	`, key.EmployeeID, key.LeaveTypeID, key.Year, allotment)
	if err != nil {
		return leave.LeaveBalance{}, fmt.Errorf("failed to create leave balance: %w", err)
	}

	return r.Get(ctx, key)
}

// Get implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepositoryImpl) Get(ctx context.Context, key leave.BalanceKey) (leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)

	b, err := scanLeaveBalance(q.QueryRow(ctx, `
		SELECT `+leaveBalanceColumns+`
		FROM leave_balances
		WHERE employee_id = $1 AND leave_type_id = $2 AND year = $3
	`, key.EmployeeID, key.LeaveTypeID, key.Year))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveBalance{}, leave.ErrLeaveBalanceNotFound
		}
		return leave.LeaveBalance{}, fmt.Errorf("failed to get leave balance: %w", err)
	}
	return b, nil
}

// ListByEmployeeYear implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepositoryImpl) ListByEmployeeYear(ctx context.Context, employeeID string, year int) ([]leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT `+leaveBalanceColumns+`
		FROM leave_balances
		WHERE employee_id = $1 AND year = $2
		ORDER BY leave_type_id
	`, employeeID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave balances: %w", err)
	}
	defer rows.Close()

	balances := make([]leave.LeaveBalance, 0)
	for rows.Next() {
		b, err := scanLeaveBalance(rows)
		if err != nil {
			return nil, err
		}
		balances = append(balances, b)
	}
	return balances, rows.Err()
}

// Reserve implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepositoryImpl) Reserve(ctx context.Context, key leave.BalanceKey, days int) (leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)

	b, err := scanLeaveBalance(q.QueryRow(ctx, `
		UPDATE leave_balances
		SET used_days = used_days + $4,
		    remaining_days = remaining_days - $4,
		    updated_at = NOW()
		WHERE employee_id = $1 AND leave_type_id = $2 AND year = $3
		  AND remaining_days >= $4
		RETURNING `+leaveBalanceColumns,
		key.EmployeeID, key.LeaveTypeID, key.Year, days,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveBalance{}, leave.ErrInsufficientBalance
		}
		return leave.LeaveBalance{}, fmt.Errorf("failed to reserve leave balance: %w", err)
	}
	return b, nil
}
