package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/approval"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/overtime"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type overtimeRepository struct {
	db *database.DB
}

func NewOvertimeRepository(db *database.DB) overtime.OvertimeRepository {
	return &overtimeRepository{db: db}
}

const overtimeColumns = `
	id, employee_id, date, start_time, end_time, total_hours, rate, amount, reason, status,
	approved_by, approved_at, rejection_reason, created_by, updated_by, created_at, updated_at`

func scanOvertime(row pgx.Row) (overtime.Overtime, error) {
	var o overtime.Overtime
	var status string
	err := row.Scan(
		&o.ID, &o.EmployeeID, &o.Date, &o.StartTime, &o.EndTime, &o.TotalHours, &o.Rate, &o.Amount, &o.Reason, &status,
		&o.ApprovedBy, &o.ApprovedAt, &o.RejectionReason, &o.CreatedBy, &o.UpdatedBy, &o.CreatedAt, &o.UpdatedAt,
	)
	o.Status = approval.Status(status)
	return o, err
}

func (r *overtimeRepository) Create(ctx context.Context, o overtime.Overtime) (overtime.Overtime, error) {
	q := GetQuerier(ctx, r.db)

	created, err := scanOvertime(q.QueryRow(ctx, `
		INSERT INTO overtimes (
			id, employee_id, date, start_time, end_time, total_hours, rate, amount, reason, status, created_by, updated_by
		) VALUES (
			uuidv7(), $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10
		)
		RETURNING `+overtimeColumns,
		o.EmployeeID, o.Date, o.StartTime, o.EndTime, o.TotalHours, o.Rate, o.Amount, o.Reason, string(o.Status), o.CreatedBy,
	))
	if err != nil {
		return overtime.Overtime{}, fmt.Errorf("failed to create overtime: %w", err)
	}
	return created, nil
}

func (r *overtimeRepository) GetByID(ctx context.Context, id string) (overtime.Overtime, error) {
	q := GetQuerier(ctx, r.db)

	o, err := scanOvertime(q.QueryRow(ctx, `SELECT `+overtimeColumns+` FROM overtimes WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return overtime.Overtime{}, overtime.ErrOvertimeNotFound
		}
		return overtime.Overtime{}, fmt.Errorf("failed to get overtime: %w", err)
	}
	return o, nil
}

func (r *overtimeRepository) List(ctx context.Context, filter overtime.Filter) ([]overtime.Overtime, int64, error) {
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
		conditions = append(conditions, fmt.Sprintf("date >= $%d", argIndex))
		args = append(args, *filter.From)
		argIndex++
	}
	if filter.To != nil {
		conditions = append(conditions, fmt.Sprintf("date <= $%d", argIndex))
		args = append(args, *filter.To)
		argIndex++
	}
	whereClause := strings.Join(conditions, " AND ")

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM overtimes WHERE "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count overtimes: %w", err)
	}

	limit, offset := pagination(filter.Page, filter.PageSize)
	query := fmt.Sprintf(`
		SELECT %s FROM overtimes
		WHERE %s
		ORDER BY date DESC, created_at DESC
		LIMIT $%d OFFSET $%d
	`, overtimeColumns, whereClause, argIndex, argIndex+1)
	args = append(args, limit, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list overtimes: %w", err)
	}
	defer rows.Close()

	items := make([]overtime.Overtime, 0)
	for rows.Next() {
		o, err := scanOvertime(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, o)
	}
	return items, total, rows.Err()
}

func (r *overtimeRepository) Decide(ctx context.Context, id string, outcome approval.Outcome) (overtime.Overtime, error) {
	q := GetQuerier(ctx, r.db)

	o, err := scanOvertime(q.QueryRow(ctx, `
		UPDATE overtimes
		SET status = $2, approved_by = $3, approved_at = $4, rejection_reason = $5,
		    updated_by = $6, updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
		RETURNING `+overtimeColumns,
		id, string(outcome.Status), outcome.ApprovedBy, outcome.DecidedAt, outcome.RejectionReason, outcome.ActorID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return overtime.Overtime{}, approval.ErrAlreadyDecided
		}
		return overtime.Overtime{}, fmt.Errorf("failed to decide overtime: %w", err)
	}
	return o, nil
}
