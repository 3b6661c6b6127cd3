package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/approval"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/leave"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_WithinTransactionRollsBack(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.WithinTransaction(ctx, func(ctx context.Context) error {
		_, err := s.LeaveTypes().Create(ctx, leave.LeaveType{Name: "Annual", DefaultDays: 12, IsActive: true})
		require.NoError(t, err)

		// nested call joins the outer transaction instead of deadlocking
		return s.WithinTransaction(ctx, func(ctx context.Context) error {
			return boom
		})
	})
	assert.ErrorIs(t, err, boom)

	types, err := s.LeaveTypes().List(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, types)
}

func TestStore_WithinTransactionCommits(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	err := s.WithinTransaction(ctx, func(ctx context.Context) error {
		_, err := s.LeaveTypes().Create(ctx, leave.LeaveType{Name: "Annual", DefaultDays: 12, IsActive: true})
		return err
	})
	require.NoError(t, err)

	types, err := s.LeaveTypes().List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, types, 1)
}

func TestLeaveBalanceRepository_ReserveIsAtomic(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	repo := s.LeaveBalances()
	key := leave.BalanceKey{EmployeeID: "emp-1", LeaveTypeID: "lt-1", Year: 2024}

	_, err := repo.GetOrCreate(ctx, key, 5)
	require.NoError(t, err)

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.Reserve(ctx, key, 3); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			} else {
				assert.ErrorIs(t, err, leave.ErrInsufficientBalance)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	b, err := repo.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, 3, b.UsedDays)
	assert.Equal(t, 2, b.RemainingDays)
	assert.True(t, b.Consistent())

	again, err := repo.GetOrCreate(ctx, key, 99)
	require.NoError(t, err)
	assert.Equal(t, 5, again.TotalDays, "existing row must not be reseeded")
}

func TestLeaveApplicationRepository_Decide(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	repo := s.LeaveApplications()

	start := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	app, err := repo.Create(ctx, leave.LeaveApplication{
		EmployeeID: "emp-1", LeaveTypeID: "lt-1",
		StartDate: start, EndDate: start.AddDate(0, 0, 2), Days: 3,
		Status: approval.StatusPending,
	})
	require.NoError(t, err)

	overlap, err := repo.HasOverlapping(ctx, "emp-1", start.AddDate(0, 0, 2), start.AddDate(0, 0, 5))
	require.NoError(t, err)
	assert.True(t, overlap)

	outcome, err := approval.Decide(approval.StatusPending, approval.DecisionReject, "mgr-1", "short staffed", time.Now())
	require.NoError(t, err)
	decided, err := repo.Decide(ctx, app.ID, outcome)
	require.NoError(t, err)
	assert.Equal(t, approval.StatusRejected, decided.Status)

	_, err = repo.Decide(ctx, app.ID, outcome)
	assert.ErrorIs(t, err, approval.ErrAlreadyDecided)

	overlap, err = repo.HasOverlapping(ctx, "emp-1", start, start)
	require.NoError(t, err)
	assert.False(t, overlap, "rejected applications do not block")
}

func TestAttendanceRepository_UniquePerDay(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	repo := s.Attendances()
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	_, err := repo.Create(ctx, attendance.Attendance{EmployeeID: "emp-1", Date: day, Status: attendance.StatusPresent})
	require.NoError(t, err)
	_, err = repo.Create(ctx, attendance.Attendance{EmployeeID: "emp-1", Date: day, Status: attendance.StatusLate})
	assert.ErrorIs(t, err, attendance.ErrDuplicateRecord)

	in := day.Add(8 * time.Hour)
	out := day.Add(12 * time.Hour)
	att, err := repo.UpsertCheckTimes(ctx, "emp-1", day, in, out, "mgr-1")
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusPresent, att.Status)
	assert.True(t, att.TotalHours.Decimal.Equal(decimal.NewFromInt(4)))

	created, err := repo.UpsertCheckTimes(ctx, "emp-2", day, in, out, "mgr-1")
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusPresent, created.Status)

	_, total, err := repo.List(ctx, attendance.Filter{From: &day, To: &day})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
}
