package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/approval"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type leaveApplicationRepositoryImpl struct {
	db *database.DB
}

func NewLeaveApplicationRepository(db *database.DB) leave.LeaveApplicationRepository {
	return &leaveApplicationRepositoryImpl{db: db}
}

const leaveApplicationColumns = `
	id, employee_id, leave_type_id, start_date, end_date, days, reason, status,
	approved_by, decided_at, rejection_reason, created_by, updated_by, created_at, updated_at`

func scanLeaveApplication(row pgx.Row) (leave.LeaveApplication, error) {
	var a leave.LeaveApplication
	var status string
	err := row.Scan(
		&a.ID, &a.EmployeeID, &a.LeaveTypeID, &a.StartDate, &a.EndDate, &a.Days, &a.Reason, &status,
		&a.ApprovedBy, &a.DecidedAt, &a.RejectionReason, &a.CreatedBy, &a.UpdatedBy, &a.CreatedAt, &a.UpdatedAt,
	)
	a.Status = approval.Status(status)
	return a, err
}

// Create implements leave.LeaveApplicationRepository.
func (r *leaveApplicationRepositoryImpl) Create(ctx context.Context, a leave.LeaveApplication) (leave.LeaveApplication, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_applications (
			id, employee_id, leave_type_id, start_date, end_date, days, reason, status, created_by, updated_by
		) VALUES (
			uuidv7(), $1, $2, $3, $4, $5, $6, $7, $8, $8
		)
		RETURNING ` + leaveApplicationColumns

	created, err := scanLeaveApplication(q.QueryRow(ctx, query,
		a.EmployeeID, a.LeaveTypeID, a.StartDate, a.EndDate, a.Days, a.Reason, string(a.Status), a.CreatedBy,
	))
	if err != nil {
		return leave.LeaveApplication{}, fmt.Errorf("failed to create leave application: %w", err)
	}
	return created, nil
}

// GetByID implements leave.LeaveApplicationRepository.
func (r *leaveApplicationRepositoryImpl) GetByID(ctx context.Context, id string) (leave.LeaveApplication, error) {
	q := GetQuerier(ctx, r.db)

	a, err := scanLeaveApplication(q.QueryRow(ctx, `SELECT `+leaveApplicationColumns+` FROM leave_applications WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveApplication{}, leave.ErrLeaveApplicationNotFound
		}
		return leave.LeaveApplication{}, fmt.Errorf("failed to get leave application: %w", err)
	}
	return a, nil
}

// List implements leave.LeaveApplicationRepository.
func (r *leaveApplicationRepositoryImpl) List(ctx context.Context, filter leave.ApplicationFilter) ([]leave.LeaveApplication, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"1=1"}
	args := []interface{}{}
	argIndex := 1

	if filter.EmployeeID != nil {
		conditions = append(conditions, fmt.Sprintf("employee_id = $%d", argIndex))
		args = append(args, *filter.EmployeeID)
		argIndex++
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIndex))
		args = append(args, string(*filter.Status))
		argIndex++
	}
	if filter.From != nil {
		conditions = append(conditions, fmt.Sprintf("end_date >= $%d", argIndex))
		args = append(args, *filter.From)
		argIndex++
	}
	if filter.To != nil {
		conditions = append(conditions, fmt.Sprintf("start_date <= $%d", argIndex))
		args = append(args, *filter.To)
		argIndex++
	}
	whereClause := strings.Join(conditions, " AND ")

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM leave_applications WHERE "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count leave applications: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM leave_applications
		WHERE %s
		ORDER BY start_date DESC, created_at DESC
	`, leaveApplicationColumns, whereClause)
	// PageSize 0 returns the whole history.
	if filter.PageSize > 0 {
		limit, offset := pagination(filter.Page, filter.PageSize)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
		args = append(args, limit, offset)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list leave applications: %w", err)
	}
	defer rows.Close()

	applications := make([]leave.LeaveApplication, 0)
	for rows.Next() {
		a, err := scanLeaveApplication(rows)
		if err != nil {
			return nil, 0, err
		}
		applications = append(applications, a)
	}
	return applications, total, rows.Err()
}

// leaveApplyLockSpace namespaces the per-employee advisory locks taken by
// HasOverlapping.
const leaveApplyLockSpace = 7301

// HasOverlapping implements leave.LeaveApplicationRepository. Inside a
// transaction it first takes a per-employee advisory lock held until commit,
// so concurrent applies for one employee check and insert one at a time.
func (r *leaveApplicationRepositoryImpl) HasOverlapping(ctx context.Context, employeeID string, start, end time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `SELECT pg_advisory_xact_lock($1, hashtext($2))`, leaveApplyLockSpace, employeeID); err != nil {
		return false, fmt.Errorf("failed to lock leave applications of employee: %w", err)
	}

	var exists bool
	err := q.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM leave_applications
			WHERE employee_id = $1
			  AND status IN ('pending', 'approved')
			  AND start_date <= $3
			  AND end_date >= $2
		)
	`, employeeID, start, end).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check overlapping leave: %w", err)
	}
	return exists, nil
}

// HasApprovedCovering implements leave.LeaveApplicationRepository.
func (r *leaveApplicationRepositoryImpl) HasApprovedCovering(ctx context.Context, employeeID string, day time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM leave_applications
			WHERE employee_id = $1
			  AND status = 'approved'
			  AND start_date <= $2
			  AND end_date >= $2
		)
	`, employeeID, day).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check approved leave: %w", err)
	}
	return exists, nil
}

// ListApprovedCovering implements leave.LeaveApplicationRepository.
func (r *leaveApplicationRepositoryImpl) ListApprovedCovering(ctx context.Context, day time.Time) ([]leave.LeaveApplication, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT `+leaveApplicationColumns+`
		FROM leave_applications
		WHERE status = 'approved' AND start_date <= $1 AND end_date >= $1
		ORDER BY employee_id
	`, day)
	if err != nil {
		return nil, fmt.Errorf("failed to list approved leave: %w", err)
	}
	defer rows.Close()

	applications := make([]leave.LeaveApplication, 0)
	for rows.Next() {
		a, err := scanLeaveApplication(rows)
		if err != nil {
			return nil, err
		}
		applications = append(applications, a)
	}
	return applications, rows.Err()
}

// Decide implements leave.LeaveApplicationRepository.
func (r *leaveApplicationRepositoryImpl) Decide(ctx context.Context, id string, outcome approval.Outcome) (leave.LeaveApplication, error) {
	q := GetQuerier(ctx, r.db)

	a, err := scanLeaveApplication(q.QueryRow(ctx, `
		UPDATE leave_applications
		SET status = $2, approved_by = $3, decided_at = $4, rejection_reason = $5,
		    updated_by = $6, updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
		RETURNING `+leaveApplicationColumns,
		id, string(outcome.Status), outcome.ApprovedBy, outcome.DecidedAt, outcome.RejectionReason, outcome.ActorID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveApplication{}, approval.ErrAlreadyDecided
		}
		return leave.LeaveApplication{}, fmt.Errorf("failed to decide leave application: %w", err)
	}
	return a, nil
}
