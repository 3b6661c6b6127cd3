package attendance

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/approval"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/notification"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/repository/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopEmitter struct {
	mu    sync.Mutex
	count int
}

func (e *nopEmitter) QueueNotification(context.Context, notification.CreateNotificationRequest) error {
	e.mu.Lock()
	e.count++
	e.mu.Unlock()
	return nil
}

func (e *nopEmitter) QueueBulkNotification(_ context.Context, reqs []notification.CreateNotificationRequest) error {
	e.mu.Lock()
	e.count += len(reqs)
	e.mu.Unlock()
	return nil
}

func setup(t *testing.T) (*memory.Store, attendance.AttendanceService, employee.Employee, *nopEmitter) {
	t.Helper()
	store := memory.NewStore()
	emp, err := store.PutEmployee(context.Background(), employee.Employee{UserID: "user-1", FullName: "Dewi", Role: user.RoleEmployee, IsActive: true})
	require.NoError(t, err)
	emitter := &nopEmitter{}
	svc := NewAttendanceService(store.Attendances(), store.LeaveApplications(), store.Employees(), emitter)
	return store, svc, emp, emitter
}

func approvedLeave(t *testing.T, store *memory.Store, employeeID, start, end string) leave.LeaveApplication {
	t.Helper()
	s, _ := calendar.ParseDate(start)
	e, _ := calendar.ParseDate(end)
	approver := "mgr-1"
	app, err := store.LeaveApplications().Create(context.Background(), leave.LeaveApplication{
		EmployeeID: employeeID, LeaveTypeID: "lt-1", StartDate: s, EndDate: e, Days: 1,
		Status: approval.StatusApproved, ApprovedBy: &approver,
	})
	require.NoError(t, err)
	return app
}

func strPtr(s string) *string { return &s }

func TestMark_DefaultsAndHours(t *testing.T) {
	_, svc, emp, _ := setup(t)

	rec, err := svc.Mark(context.Background(), attendance.MarkAttendanceRequest{
		EmployeeID: emp.ID, ActorID: emp.ID, Date: "2024-03-01", CheckIn: "09:00", CheckOut: strPtr("17:30"),
	})
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusPresent, rec.Status)
	require.NotNil(t, rec.CheckIn)
	assert.Equal(t, time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC), *rec.CheckIn)
	assert.True(t, rec.TotalHours.Decimal.Equal(decimal.RequireFromString("8.5")))
}

func TestMark_DuplicateLeavesOneRecord(t *testing.T) {
	_, svc, emp, _ := setup(t)
	ctx := context.Background()
	req := attendance.MarkAttendanceRequest{EmployeeID: emp.ID, ActorID: emp.ID, Date: "2024-03-01", CheckIn: "09:00"}

	var wg sync.WaitGroup
	errs := make([]error, 5)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Mark(ctx, req)
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, attendance.ErrDuplicateRecord)
	}
	assert.Equal(t, 1, ok)

	_, total, err := svc.List(ctx, attendance.ListAttendanceRequest{EmployeeID: &emp.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}

func TestMark_OnApprovedLeave(t *testing.T) {
	store, svc, emp, _ := setup(t)
	ctx := context.Background()
	approvedLeave(t, store, emp.ID, "2024-03-04", "2024-03-06")

	_, err := svc.Mark(ctx, attendance.MarkAttendanceRequest{EmployeeID: emp.ID, Date: "2024-03-05", CheckIn: "09:00"})
	assert.ErrorIs(t, err, attendance.ErrOnApprovedLeave)

	rec, err := svc.Mark(ctx, attendance.MarkAttendanceRequest{EmployeeID: emp.ID, Date: "2024-03-05", CheckIn: "09:00", Status: "on_leave"})
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusOnLeave, rec.Status)
}

func TestMark_InvalidRange(t *testing.T) {
	_, svc, emp, _ := setup(t)
	_, err := svc.Mark(context.Background(), attendance.MarkAttendanceRequest{
		EmployeeID: emp.ID, Date: "2024-03-01", CheckIn: "17:00", CheckOut: strPtr("09:00"),
	})
	assert.ErrorIs(t, err, calendar.ErrInvalidRange)
}

func TestUpdate_PartialFields(t *testing.T) {
	_, svc, emp, _ := setup(t)
	ctx := context.Background()

	rec, err := svc.Mark(ctx, attendance.MarkAttendanceRequest{EmployeeID: emp.ID, Date: "2024-03-01", CheckIn: "09:00"})
	require.NoError(t, err)
	assert.False(t, rec.TotalHours.Valid)

	updated, err := svc.Update(ctx, attendance.UpdateAttendanceRequest{ID: rec.ID, ActorID: "mgr-1", CheckOut: strPtr("13:00"), Status: strPtr("half_day")})
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusHalfDay, updated.Status)
	assert.True(t, updated.TotalHours.Decimal.Equal(decimal.NewFromInt(4)))
	assert.Equal(t, "mgr-1", updated.UpdatedBy)

	_, err = svc.Update(ctx, attendance.UpdateAttendanceRequest{ID: rec.ID, CheckIn: strPtr("14:00")})
	assert.ErrorIs(t, err, calendar.ErrInvalidRange)

	_, err = svc.Update(ctx, attendance.UpdateAttendanceRequest{ID: "missing", Notes: strPtr("x")})
	assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)
}

func TestMonthlyReport(t *testing.T) {
	_, svc, emp, _ := setup(t)
	ctx := context.Background()

	for _, m := range []attendance.MarkAttendanceRequest{
		{EmployeeID: emp.ID, Date: "2024-03-01", CheckIn: "09:00"},
		{EmployeeID: emp.ID, Date: "2024-03-04", CheckIn: "09:40", Status: "late"},
		{EmployeeID: emp.ID, Date: "2024-04-01", CheckIn: "09:00"},
	} {
		_, err := svc.Mark(ctx, m)
		require.NoError(t, err)
	}

	report, err := svc.MonthlyReport(ctx, attendance.MonthlyReportRequest{EmployeeID: &emp.ID, Year: 2024, Month: 3})
	require.NoError(t, err)
	assert.Len(t, report.Attendance, 2)
	assert.Equal(t, attendance.MonthlyStats{TotalDays: 2, Present: 1, Late: 1}, report.Stats)

	_, err = svc.MonthlyReport(ctx, attendance.MonthlyReportRequest{Year: 2024, Month: 13})
	assert.Error(t, err)
}

func TestSyncOnLeave(t *testing.T) {
	store, svc, emp, emitter := setup(t)
	ctx := context.Background()
	approvedLeave(t, store, emp.ID, "2024-03-04", "2024-03-06")

	day := time.Date(2024, 3, 5, 13, 0, 0, 0, time.UTC)
	created, err := svc.SyncOnLeave(ctx, day)
	require.NoError(t, err)
	assert.Equal(t, 1, created)
	assert.Equal(t, 1, emitter.count)

	again, err := svc.SyncOnLeave(ctx, day)
	require.NoError(t, err)
	assert.Zero(t, again)

	rec, err := store.Attendances().GetByEmployeeDate(ctx, emp.ID, calendar.DateOnly(day))
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusOnLeave, rec.Status)
	assert.Equal(t, "mgr-1", rec.CreatedBy)
}
