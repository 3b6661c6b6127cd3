package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type employeeRepository struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.Directory {
	return &employeeRepository{db: db}
}

const employeeColumns = `id, user_id, full_name, role, monthly_salary, is_active, created_at, updated_at`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var e employee.Employee
	var role string
	err := row.Scan(&e.ID, &e.UserID, &e.FullName, &role, &e.MonthlySalary, &e.IsActive, &e.CreatedAt, &e.UpdatedAt)
	e.Role = user.Role(role)
	return e, err
}

func (r *employeeRepository) get(ctx context.Context, where string, arg string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	e, err := scanEmployee(q.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE `+where, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return e, nil
}

// GetByID implements employee.Directory.
func (r *employeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	return r.get(ctx, "id = $1", id)
}

// GetByUserID implements employee.Directory.
func (r *employeeRepository) GetByUserID(ctx context.Context, userID string) (employee.Employee, error) {
	return r.get(ctx, "user_id = $1", userID)
}

// ListApprovers implements employee.Directory.
func (r *employeeRepository) ListApprovers(ctx context.Context) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT `+employeeColumns+`
		FROM employees
		WHERE is_active = TRUE AND role IN ('manager', 'owner')
		ORDER BY full_name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list approvers: %w", err)
	}
	defer rows.Close()

	approvers := make([]employee.Employee, 0)
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		approvers = append(approvers, e)
	}
	return approvers, rows.Err()
}
