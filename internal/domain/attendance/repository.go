package attendance

import (
	"context"
	"time"
)

// CheckTimeWriter is the narrow write path used by the regularization
// workflow when a correction is approved.
type CheckTimeWriter interface {
	// UpsertCheckTimes sets the check times of the (employeeID, day) record,
	// creating it with status present when it does not exist yet.
	UpsertCheckTimes(ctx context.Context, employeeID string, day time.Time, checkIn, checkOut time.Time, actorID string) (Attendance, error)
}

// AttendanceRepository - interface for attendances table
type AttendanceRepository interface {
	CheckTimeWriter

	// Create inserts a record and returns ErrDuplicateRecord when one
	// already exists for the employee and date.
	Create(ctx context.Context, attendance Attendance) (Attendance, error)
	GetByID(ctx context.Context, id string) (Attendance, error)
	GetByEmployeeDate(ctx context.Context, employeeID string, day time.Time) (Attendance, error)
	Update(ctx context.Context, attendance Attendance) (Attendance, error)
	List(ctx context.Context, filter Filter) ([]Attendance, int64, error)
}
