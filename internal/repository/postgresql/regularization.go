package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/approval"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/regularization"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type regularizationRepository struct {
	db *database.DB
}

func NewRegularizationRepository(db *database.DB) regularization.RegularizationRepository {
	return &regularizationRepository{db: db}
}

const regularizationColumns = `
	id, employee_id, date, check_in, check_out, reason, status,
	approved_by, approved_at, rejection_reason, created_by, updated_by, created_at, updated_at`

func scanRegularization(row pgx.Row) (regularization.Regularization, error) {
	var reg regularization.Regularization
	var status string
	err := row.Scan(
		&reg.ID, &reg.EmployeeID, &reg.Date, &reg.CheckIn, &reg.CheckOut, &reg.Reason, &status,
		&reg.ApprovedBy, &reg.ApprovedAt, &reg.RejectionReason, &reg.CreatedBy, &reg.UpdatedBy, &reg.CreatedAt, &reg.UpdatedAt,
	)
	reg.Status = approval.Status(status)
	return reg, err
}

func (r *regularizationRepository) Create(ctx context.Context, reg regularization.Regularization) (regularization.Regularization, error) {
	q := GetQuerier(ctx, r.db)

	created, err := scanRegularization(q.QueryRow(ctx, `
		INSERT INTO attendance_regularizations (
			id, employee_id, date, check_in, check_out, reason, status, created_by, updated_by
		) VALUES (
			uuidv7(), $1, $2, $3, $4, $5, $6, $7, $7
		)
		RETURNING `+regularizationColumns,
		reg.EmployeeID, reg.Date, reg.CheckIn, reg.CheckOut, reg.Reason, string(reg.Status), reg.CreatedBy,
	))
	if err != nil {
		return regularization.Regularization{}, fmt.Errorf("failed to create regularization: %w", err)
	}
	return created, nil
}

func (r *regularizationRepository) GetByID(ctx context.Context, id string) (regularization.Regularization, error) {
	q := GetQuerier(ctx, r.db)

	reg, err := scanRegularization(q.QueryRow(ctx, `SELECT `+regularizationColumns+` FROM attendance_regularizations WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return regularization.Regularization{}, regularization.ErrRegularizationNotFound
		}
		return regularization.Regularization{}, fmt.Errorf("failed to get regularization: %w", err)
	}
	return reg, nil
}

func (r *regularizationRepository) List(ctx context.Context, filter regularization.Filter) ([]regularization.Regularization, int64, error) {
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
	whereClause := strings.Join(conditions, " AND ")

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM attendance_regularizations WHERE "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count regularizations: %w", err)
	}

	limit, offset := pagination(filter.Page, filter.PageSize)
	query := fmt.Sprintf(`
		SELECT %s FROM attendance_regularizations
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, regularizationColumns, whereClause, argIndex, argIndex+1)
	args = append(args, limit, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list regularizations: %w", err)
	}
	defer rows.Close()

	items := make([]regularization.Regularization, 0)
	for rows.Next() {
		reg, err := scanRegularization(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, reg)
	}
	return items, total, rows.Err()
}

func (r *regularizationRepository) Decide(ctx context.Context, id string, outcome approval.Outcome) (regularization.Regularization, error) {
	q := GetQuerier(ctx, r.db)

	reg, err := scanRegularization(q.QueryRow(ctx, `
		UPDATE attendance_regularizations
		SET status = $2, approved_by = $3, approved_at = $4, rejection_reason = $5,
		    updated_by = $6, updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
		RETURNING `+regularizationColumns,
		id, string(outcome.Status), outcome.ApprovedBy, outcome.DecidedAt, outcome.RejectionReason, outcome.ActorID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return regularization.Regularization{}, approval.ErrAlreadyDecided
		}
		return regularization.Regularization{}, fmt.Errorf("failed to decide regularization: %w", err)
	}
	return reg, nil
}
