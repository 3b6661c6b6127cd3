package attendance

import (
	"context"
	"time"
)

type AttendanceService interface {
	Mark(ctx context.Context, req MarkAttendanceRequest) (Attendance, error)
	Update(ctx context.Context, req UpdateAttendanceRequest) (Attendance, error)
	Get(ctx context.Context, id string) (Attendance, error)
	List(ctx context.Context, req ListAttendanceRequest) ([]Attendance, int64, error)
	MonthlyReport(ctx context.Context, req MonthlyReportRequest) (MonthlyReportResponse, error)
	// SyncOnLeave creates on_leave records for every approved leave covering
	// day that has no record yet and returns how many were created.
	SyncOnLeave(ctx context.Context, day time.Time) (int, error)
}
