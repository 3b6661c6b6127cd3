package leave

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/approval"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/notification"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/pkg/validator"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/repository/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingEmitter struct {
	mu   sync.Mutex
	sent []notification.CreateNotificationRequest
	err  error
}

func (e *recordingEmitter) QueueNotification(_ context.Context, req notification.CreateNotificationRequest) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sent = append(e.sent, req)
	return e.err
}

func (e *recordingEmitter) QueueBulkNotification(_ context.Context, reqs []notification.CreateNotificationRequest) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sent = append(e.sent, reqs...)
	return e.err
}

func (e *recordingEmitter) types() []notification.NotificationType {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]notification.NotificationType, len(e.sent))
	for i, r := range e.sent {
		out[i] = r.Type
	}
	return out
}

type fixture struct {
	store     *memory.Store
	svc       leave.LeaveService
	emitter   *recordingEmitter
	staff     employee.Employee
	manager   employee.Employee
	leaveType leave.LeaveType
}

func newFixture(t *testing.T, allotment int) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	emitter := &recordingEmitter{}

	staff, err := store.PutEmployee(ctx, employee.Employee{UserID: "user-staff", FullName: "Rina", Role: user.RoleEmployee, MonthlySalary: decimal.NewFromInt(35200), IsActive: true})
	require.NoError(t, err)
	manager, err := store.PutEmployee(ctx, employee.Employee{UserID: "user-mgr", FullName: "Sari", Role: user.RoleManager, IsActive: true})
	require.NoError(t, err)

	svc := NewLeaveService(store, store.LeaveTypes(), store.LeaveBalances(), store.LeaveApplications(), store.Employees(), emitter)
	lt, err := svc.CreateLeaveType(ctx, leave.CreateLeaveTypeRequest{Name: "Annual", DefaultDays: allotment, ActorID: manager.ID})
	require.NoError(t, err)

	return &fixture{store: store, svc: svc, emitter: emitter, staff: staff, manager: manager, leaveType: lt}
}

func (f *fixture) apply(t *testing.T, start, end string) (leave.LeaveApplication, error) {
	t.Helper()
	return f.svc.Apply(context.Background(), leave.ApplyLeaveRequest{
		EmployeeID:  f.staff.ID,
		ActorID:     f.staff.ID,
		LeaveTypeID: f.leaveType.ID,
		StartDate:   start,
		EndDate:     end,
		Reason:      "family trip",
	})
}

func (f *fixture) balance(t *testing.T, year int) leave.LeaveBalance {
	t.Helper()
	b, err := f.store.LeaveBalances().Get(context.Background(), leave.BalanceKey{EmployeeID: f.staff.ID, LeaveTypeID: f.leaveType.ID, Year: year})
	require.NoError(t, err)
	require.True(t, b.Consistent(), "ledger invariant broken: %+v", b)
	return b
}

func TestApply_CreatesPendingWithoutDebit(t *testing.T) {
	f := newFixture(t, 12)

	app, err := f.apply(t, "2024-03-04", "2024-03-08")
	require.NoError(t, err)
	assert.Equal(t, approval.StatusPending, app.Status)
	assert.Equal(t, 5, app.Days)

	b := f.balance(t, 2024)
	assert.Equal(t, 12, b.TotalDays)
	assert.Zero(t, b.UsedDays)

	assert.Equal(t, []notification.NotificationType{notification.TypeLeaveRequest}, f.emitter.types())
	assert.Equal(t, "user-mgr", f.emitter.sent[0].RecipientID)
}

func TestApply_Validation(t *testing.T) {
	f := newFixture(t, 12)

	_, err := f.apply(t, "2024-03-08", "2024-03-04")
	assert.ErrorIs(t, err, calendar.ErrInvalidRange)

	_, err = f.apply(t, "08/03/2024", "2024-03-04")
	var verrs validator.ValidationErrors
	assert.True(t, errors.As(err, &verrs))

	_, err = f.svc.Apply(context.Background(), leave.ApplyLeaveRequest{
		EmployeeID: f.staff.ID, LeaveTypeID: "missing", StartDate: "2024-03-04", EndDate: "2024-03-04", Reason: "x",
	})
	assert.ErrorIs(t, err, leave.ErrLeaveTypeNotFound)

	require.NoError(t, f.svc.DisableLeaveType(context.Background(), f.leaveType.ID, f.manager.ID))
	_, err = f.apply(t, "2024-03-04", "2024-03-04")
	assert.ErrorIs(t, err, leave.ErrLeaveTypeInactive)
}

func TestApply_OverlapWithPendingAndApproved(t *testing.T) {
	f := newFixture(t, 12)
	ctx := context.Background()

	first, err := f.apply(t, "2024-03-04", "2024-03-06")
	require.NoError(t, err)

	_, err = f.apply(t, "2024-03-06", "2024-03-07")
	assert.ErrorIs(t, err, leave.ErrOverlappingApplication)

	_, err = f.svc.Decide(ctx, approval.DecideRequest{ID: first.ID, ActorID: f.manager.ID, Decision: "approved"})
	require.NoError(t, err)

	_, err = f.apply(t, "2024-03-01", "2024-03-04")
	assert.ErrorIs(t, err, leave.ErrOverlappingApplication)

	_, err = f.apply(t, "2024-03-07", "2024-03-07")
	assert.NoError(t, err, "adjacent day does not overlap")
}

func TestApply_ConcurrentOverlappingAppliesCreateOne(t *testing.T) {
	f := newFixture(t, 12)

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.apply(t, "2024-03-04", "2024-03-06")
		}(i)
	}
	wg.Wait()

	var created int
	for _, err := range errs {
		if err == nil {
			created++
			continue
		}
		assert.ErrorIs(t, err, leave.ErrOverlappingApplication)
	}
	assert.Equal(t, 1, created)

	_, total, err := f.svc.ListApplications(context.Background(), leave.ApplicationFilter{EmployeeID: &f.staff.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}

func TestDecide_ApproveDebitsLedger(t *testing.T) {
	f := newFixture(t, 12)
	ctx := context.Background()

	app, err := f.apply(t, "2024-03-04", "2024-03-06")
	require.NoError(t, err)

	decided, err := f.svc.Decide(ctx, approval.DecideRequest{ID: app.ID, ActorID: f.manager.ID, Decision: "approved"})
	require.NoError(t, err)
	assert.Equal(t, approval.StatusApproved, decided.Status)
	require.NotNil(t, decided.ApprovedBy)
	assert.Equal(t, f.manager.ID, *decided.ApprovedBy)

	b := f.balance(t, 2024)
	assert.Equal(t, 3, b.UsedDays)
	assert.Equal(t, 9, b.RemainingDays)

	assert.Contains(t, f.emitter.types(), notification.TypeLeaveApproved)
}

func TestDecide_RejectThenApprove(t *testing.T) {
	f := newFixture(t, 12)
	ctx := context.Background()

	app, err := f.apply(t, "2024-03-04", "2024-03-06")
	require.NoError(t, err)

	rejected, err := f.svc.Decide(ctx, approval.DecideRequest{ID: app.ID, ActorID: f.manager.ID, Decision: "rejected"})
	require.NoError(t, err)
	assert.Equal(t, approval.StatusRejected, rejected.Status)
	assert.Nil(t, rejected.ApprovedBy)
	require.NotNil(t, rejected.RejectionReason)
	assert.Empty(t, *rejected.RejectionReason)

	_, err = f.svc.Decide(ctx, approval.DecideRequest{ID: app.ID, ActorID: f.manager.ID, Decision: "approved"})
	assert.ErrorIs(t, err, approval.ErrAlreadyDecided)

	b := f.balance(t, 2024)
	assert.Zero(t, b.UsedDays)
	assert.Equal(t, 12, b.RemainingDays)

	_, err = f.svc.Decide(ctx, approval.DecideRequest{ID: "missing", ActorID: f.manager.ID, Decision: "approved"})
	assert.ErrorIs(t, err, leave.ErrLeaveApplicationNotFound)
}

func TestDecide_InsufficientBalanceLeavesPending(t *testing.T) {
	f := newFixture(t, 2)
	ctx := context.Background()

	app, err := f.apply(t, "2024-03-04", "2024-03-06")
	require.NoError(t, err)

	_, err = f.svc.Decide(ctx, approval.DecideRequest{ID: app.ID, ActorID: f.manager.ID, Decision: "approved"})
	assert.ErrorIs(t, err, leave.ErrInsufficientBalance)

	still, err := f.svc.GetApplication(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, approval.StatusPending, still.Status)
	assert.Zero(t, f.balance(t, 2024).UsedDays)
}

func TestDecide_ConcurrentApprovalsAgainstSmallBalance(t *testing.T) {
	f := newFixture(t, 5)
	ctx := context.Background()

	first, err := f.apply(t, "2024-03-04", "2024-03-06")
	require.NoError(t, err)
	second, err := f.apply(t, "2024-03-11", "2024-03-13")
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, id := range []string{first.ID, second.ID} {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			_, errs[i] = f.svc.Decide(ctx, approval.DecideRequest{ID: id, ActorID: f.manager.ID, Decision: "approved"})
		}(i, id)
	}
	wg.Wait()

	var succeeded int
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, leave.ErrInsufficientBalance)
	}
	assert.Equal(t, 1, succeeded)

	b := f.balance(t, 2024)
	assert.Equal(t, 3, b.UsedDays)
	assert.Equal(t, 2, b.RemainingDays)
}

func TestDecide_ConcurrentApprovalsOfOneApplication(t *testing.T) {
	f := newFixture(t, 12)
	ctx := context.Background()

	app, err := f.apply(t, "2024-03-04", "2024-03-06")
	require.NoError(t, err)

	const approvers = 8
	var wg sync.WaitGroup
	errs := make([]error, approvers)
	for i := 0; i < approvers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.Decide(ctx, approval.DecideRequest{ID: app.ID, ActorID: f.manager.ID, Decision: "approved"})
		}(i)
	}
	wg.Wait()

	var succeeded int
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, approval.ErrAlreadyDecided)
	}
	assert.Equal(t, 1, succeeded)

	b := f.balance(t, 2024)
	assert.Equal(t, 3, b.UsedDays)
	assert.Equal(t, 9, b.RemainingDays)
}

func TestDecide_RejectRecordsReason(t *testing.T) {
	f := newFixture(t, 12)
	ctx := context.Background()

	app, err := f.apply(t, "2024-03-04", "2024-03-06")
	require.NoError(t, err)

	rejected, err := f.svc.Decide(ctx, approval.DecideRequest{ID: app.ID, ActorID: f.manager.ID, Decision: "reject", RejectionReason: "peak season"})
	require.NoError(t, err)
	require.NotNil(t, rejected.RejectionReason)
	assert.Equal(t, "peak season", *rejected.RejectionReason)

	f.emitter.mu.Lock()
	last := f.emitter.sent[len(f.emitter.sent)-1]
	f.emitter.mu.Unlock()
	assert.Equal(t, notification.TypeLeaveRejected, last.Type)
	assert.Contains(t, last.Message, "was rejected: peak season")
}

func TestDecide_NotificationFailureDoesNotRollBack(t *testing.T) {
	f := newFixture(t, 12)
	ctx := context.Background()
	app, err := f.apply(t, "2024-03-04", "2024-03-04")
	require.NoError(t, err)

	f.emitter.err = errors.New("queue closed")
	decided, err := f.svc.Decide(ctx, approval.DecideRequest{ID: app.ID, ActorID: f.manager.ID, Decision: "approve"})
	require.NoError(t, err)
	assert.Equal(t, approval.StatusApproved, decided.Status)
	assert.Equal(t, 1, f.balance(t, 2024).UsedDays)
}

func TestBalancesHistoryAndTrend(t *testing.T) {
	f := newFixture(t, 12)
	ctx := context.Background()

	sick, err := f.svc.CreateLeaveType(ctx, leave.CreateLeaveTypeRequest{Name: "Sick", DefaultDays: 6, ActorID: f.manager.ID})
	require.NoError(t, err)

	jan, err := f.apply(t, "2024-01-15", "2024-01-16")
	require.NoError(t, err)
	_, err = f.svc.Decide(ctx, approval.DecideRequest{ID: jan.ID, ActorID: f.manager.ID, Decision: "approved"})
	require.NoError(t, err)
	_, err = f.apply(t, "2024-03-04", "2024-03-06")
	require.NoError(t, err)

	balances, err := f.svc.GetBalances(ctx, f.staff.ID, 2024)
	require.NoError(t, err)
	require.Len(t, balances, 2)
	byName := map[string]leave.LeaveBalanceResponse{}
	for _, b := range balances {
		byName[b.LeaveTypeName] = b
	}
	assert.Equal(t, 10, byName["Annual"].RemainingDays)
	assert.Equal(t, 6, byName["Sick"].RemainingDays)
	assert.Equal(t, sick.ID, byName["Sick"].LeaveTypeID)

	history, err := f.svc.GetHistory(ctx, leave.HistoryRequest{EmployeeID: f.staff.ID})
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "2024-03-04", history[0].Date)
	assert.Equal(t, "Annual", history[0].LeaveType)

	windowed, err := f.svc.GetHistory(ctx, leave.HistoryRequest{EmployeeID: f.staff.ID, StartDate: "2024-01-01", EndDate: "2024-01-31"})
	require.NoError(t, err)
	require.Len(t, windowed, 1)
	assert.Equal(t, "approved", windowed[0].Status)

	trend, err := f.svc.GetUsageTrend(ctx, f.staff.ID, 2024)
	require.NoError(t, err)
	require.Len(t, trend, 12)
	assert.Equal(t, leave.UsageTrendPoint{Month: "Jan", Days: 2}, trend[0])
	assert.Zero(t, trend[2].Days, "pending leave is not usage")
}

func TestLeaveTypeAdmin(t *testing.T) {
	f := newFixture(t, 12)
	ctx := context.Background()

	_, err := f.svc.CreateLeaveType(ctx, leave.CreateLeaveTypeRequest{Name: "Annual", DefaultDays: 3})
	assert.ErrorIs(t, err, leave.ErrLeaveTypeNameExists)

	days := 15
	updated, err := f.svc.UpdateLeaveType(ctx, leave.UpdateLeaveTypeRequest{ID: f.leaveType.ID, DefaultDays: &days, ActorID: f.manager.ID})
	require.NoError(t, err)
	assert.Equal(t, 15, updated.DefaultDays)

	require.NoError(t, f.svc.DisableLeaveType(ctx, f.leaveType.ID, f.manager.ID))
	active, err := f.svc.ListLeaveTypes(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := f.svc.ListLeaveTypes(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	assert.ErrorIs(t, f.svc.DisableLeaveType(ctx, "missing", f.manager.ID), leave.ErrLeaveTypeNotFound)
}

func TestListApplications_DefaultsPageSize(t *testing.T) {
	f := newFixture(t, 30)
	ctx := context.Background()

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 25; i++ {
		d := start.AddDate(0, 0, i).Format(calendar.DateLayout)
		_, err := f.apply(t, d, d)
		require.NoError(t, err)
	}

	rows, total, err := f.svc.ListApplications(ctx, leave.ApplicationFilter{EmployeeID: &f.staff.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 25, total)
	assert.Len(t, rows, 20)
}
