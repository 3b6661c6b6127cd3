package cron

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/attendance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type syncRecorder struct {
	attendance.AttendanceService
	mu   sync.Mutex
	days []time.Time
	err  error
}

func (s *syncRecorder) SyncOnLeave(_ context.Context, day time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.days = append(s.days, day)
	return 1, s.err
}

func TestSyncOnLeaveAttendance_YesterdayAndToday(t *testing.T) {
	rec := &syncRecorder{}
	jobs := NewLeaveAttendanceJobs(rec)
	jobs.now = func() time.Time { return time.Date(2024, 3, 1, 0, 30, 0, 0, time.UTC) }

	require.NoError(t, jobs.SyncOnLeaveAttendance(context.Background()))
	assert.Equal(t, []time.Time{
		time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}, rec.days)
}

func TestSyncOnLeaveAttendance_Error(t *testing.T) {
	rec := &syncRecorder{err: errors.New("db down")}
	jobs := NewLeaveAttendanceJobs(rec)

	err := jobs.SyncOnLeaveAttendance(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
	assert.Len(t, rec.days, 1)
}

func TestScheduler_RunOnceAndTrigger(t *testing.T) {
	s := NewScheduler()
	var a, b int32
	s.AddJob("a", time.Hour, func(context.Context) error { atomic.AddInt32(&a, 1); return nil })
	s.AddJob("b", time.Hour, func(context.Context) error { atomic.AddInt32(&b, 1); return errors.New("boom") })
	s.AddJob("never", 0, func(context.Context) error { t.Fatal("zero interval job registered"); return nil })

	err := s.RunOnce(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "b: boom")
	assert.EqualValues(t, 1, atomic.LoadInt32(&a))
	assert.EqualValues(t, 1, atomic.LoadInt32(&b))

	require.NoError(t, s.Trigger(context.Background(), "a"))
	assert.EqualValues(t, 2, atomic.LoadInt32(&a))
	assert.ErrorIs(t, s.Trigger(context.Background(), "missing"), ErrUnknownJob)
}

func TestScheduler_StartRunsImmediatelyAndStops(t *testing.T) {
	s := NewScheduler()
	ran := make(chan struct{}, 1)
	s.AddJob("tick", time.Hour, func(ctx context.Context) error {
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	})

	s.Start()
	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run on start")
	}
	s.Stop()
}
