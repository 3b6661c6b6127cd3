package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

const attendanceColumns = `
	id, employee_id, date, check_in, check_out, status, total_hours, notes,
	created_by, updated_by, created_at, updated_at`

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var att attendance.Attendance
	var status string
	err := row.Scan(
		&att.ID, &att.EmployeeID, &att.Date, &att.CheckIn, &att.CheckOut, &status, &att.TotalHours, &att.Notes,
		&att.CreatedBy, &att.UpdatedBy, &att.CreatedAt, &att.UpdatedAt,
	)
	att.Status = attendance.Status(status)
	return att, err
}

// Create implements attendance.AttendanceRepository.
func (a *attendanceRepository) Create(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendances (
			id, employee_id, date, check_in, check_out, status, total_hours, notes, created_by, updated_by
		) VALUES (
			uuidv7(), $1, $2, $3, $4, $5, $6, $7, $8, $8
		)
		RETURNING ` + attendanceColumns

	created, err := scanAttendance(q.QueryRow(ctx, query,
		att.EmployeeID, att.Date, att.CheckIn, att.CheckOut, string(att.Status), att.TotalHours, att.Notes, att.CreatedBy,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return attendance.Attendance{}, attendance.ErrDuplicateRecord
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}
	return created, nil
}

// GetByID implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	att, err := scanAttendance(q.QueryRow(ctx, `SELECT `+attendanceColumns+` FROM attendances WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	return att, nil
}

// GetByEmployeeDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByEmployeeDate(ctx context.Context, employeeID string, day time.Time) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	att, err := scanAttendance(q.QueryRow(ctx, `
		SELECT `+attendanceColumns+` FROM attendances WHERE employee_id = $1 AND date = $2
	`, employeeID, day))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	return att, nil
}

// Update implements attendance.AttendanceRepository.
func (a *attendanceRepository) Update(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	updated, err := scanAttendance(q.QueryRow(ctx, `
		UPDATE attendances
		SET check_in = $2, check_out = $3, status = $4, total_hours = $5, notes = $6,
		    updated_by = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING `+attendanceColumns,
		att.ID, att.CheckIn, att.CheckOut, string(att.Status), att.TotalHours, att.Notes, att.UpdatedBy,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to update attendance: %w", err)
	}
	return updated, nil
}

// UpsertCheckTimes implements attendance.CheckTimeWriter.
func (a *attendanceRepository) UpsertCheckTimes(ctx context.Context, employeeID string, day time.Time, checkIn, checkOut time.Time, actorID string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	hours := attendance.WorkedHours(&checkIn, &checkOut)

	att, err := scanAttendance(q.QueryRow(ctx, `
		INSERT INTO attendances (id, employee_id, date, check_in, check_out, status, total_hours, created_by, updated_by)
		VALUES (uuidv7(), $1, $2, $3, $4, 'present', $5, $6, $6)
		ON CONFLICT (employee_id, date) DO UPDATE
		SET check_in = EXCLUDED.check_in,
		    check_out = EXCLUDED.check_out,
		    total_hours = EXCLUDED.total_hours,
		    updated_by = EXCLUDED.updated_by,
		    updated_at = NOW()
		RETURNING `+attendanceColumns,
		employeeID, day, checkIn, checkOut, hours, actorID,
	))
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to upsert attendance check times: %w", err)
	}
	return att, nil
}

// List implements attendance.AttendanceRepository.
func (a *attendanceRepository) List(ctx context.Context, filter attendance.Filter) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, a.db)

	conditions := []string{"1=1"}
	args := []interface{}{}
	argIndex := 1

	if filter.EmployeeID != nil {
		conditions = append(conditions, fmt.Sprintf("employee_id = $%d", argIndex))
		args = append(args, *filter.EmployeeID)
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
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIndex))
		args = append(args, string(*filter.Status))
		argIndex++
	}
	whereClause := strings.Join(conditions, " AND ")

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM attendances WHERE "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendances: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM attendances WHERE %s ORDER BY date DESC, employee_id`, attendanceColumns, whereClause)
	// PageSize 0 returns the whole window.
	if filter.PageSize > 0 {
		limit, offset := pagination(filter.Page, filter.PageSize)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
		args = append(args, limit, offset)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendances: %w", err)
	}
	defer rows.Close()

	records := make([]attendance.Attendance, 0)
	for rows.Next() {
		att, err := scanAttendance(rows)
		if err != nil {
			return nil, 0, err
		}
		records = append(records, att)
	}
	return records, total, rows.Err()
}
