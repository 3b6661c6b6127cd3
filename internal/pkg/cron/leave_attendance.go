package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/pkg/calendar"
)

const JobSyncOnLeaveAttendance = "sync_on_leave_attendance"

// LeaveAttendanceJobs keeps attendance in step with approved leave.
type LeaveAttendanceJobs struct {
	attendanceService attendance.AttendanceService
	now               func() time.Time
}

func NewLeaveAttendanceJobs(attendanceService attendance.AttendanceService) *LeaveAttendanceJobs {
	return &LeaveAttendanceJobs{
		attendanceService: attendanceService,
		now:               time.Now,
	}
}

func (j *LeaveAttendanceJobs) RegisterJobs(scheduler *Scheduler, interval time.Duration) {
	scheduler.AddJob(JobSyncOnLeaveAttendance, interval, j.SyncOnLeaveAttendance)
}

// SyncOnLeaveAttendance writes on_leave records for yesterday and today.
// Records that already exist are left alone, so repeated runs are no-ops.
func (j *LeaveAttendanceJobs) SyncOnLeaveAttendance(ctx context.Context) error {
	today := calendar.DateOnly(j.now().UTC())
	for _, day := range []time.Time{today.AddDate(0, 0, -1), today} {
		created, err := j.attendanceService.SyncOnLeave(ctx, day)
		if err != nil {
			return fmt.Errorf("failed to sync on-leave attendance for %s: %w", day.Format(calendar.DateLayout), err)
		}
		if created > 0 {
			slog.Info("Cron: on-leave attendance created", "date", day.Format(calendar.DateLayout), "count", created)
		}
	}
	return nil
}
