package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/notification"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bulkRecorder struct {
	single []notification.CreateNotificationRequest
	bulk   [][]notification.CreateNotificationRequest
	err    error
}

func (r *bulkRecorder) QueueNotification(_ context.Context, req notification.CreateNotificationRequest) error {
	r.single = append(r.single, req)
	return r.err
}

func (r *bulkRecorder) QueueBulkNotification(_ context.Context, reqs []notification.CreateNotificationRequest) error {
	r.bulk = append(r.bulk, reqs)
	return r.err
}

func seed(t *testing.T) (*memory.Store, employee.Employee, employee.Employee, employee.Employee) {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	staff, err := store.PutEmployee(ctx, employee.Employee{UserID: "user-staff", FullName: "Rina", Role: user.RoleEmployee, IsActive: true})
	require.NoError(t, err)
	manager, err := store.PutEmployee(ctx, employee.Employee{UserID: "user-mgr", FullName: "Sari", Role: user.RoleManager, IsActive: true})
	require.NoError(t, err)
	owner, err := store.PutEmployee(ctx, employee.Employee{UserID: "user-owner", FullName: "Budi", Role: user.RoleOwner, IsActive: true})
	require.NoError(t, err)
	return store, staff, manager, owner
}

func request() notification.CreateNotificationRequest {
	return notification.CreateNotificationRequest{
		Type:    notification.TypeLeaveRequest,
		Title:   "New leave request",
		Message: "Annual leave awaits your approval",
	}
}

func TestToApprovers_QueuesOneBatch(t *testing.T) {
	store, staff, _, _ := seed(t)
	rec := &bulkRecorder{}

	NewDispatcher(store.Employees(), rec).ToApprovers(context.Background(), staff.ID, request())

	assert.Empty(t, rec.single)
	require.Len(t, rec.bulk, 1)

	var recipients []string
	for _, m := range rec.bulk[0] {
		recipients = append(recipients, m.RecipientID)
		require.NotNil(t, m.SenderID)
		assert.Equal(t, "user-staff", *m.SenderID)
	}
	assert.ElementsMatch(t, []string{"user-mgr", "user-owner"}, recipients)
}

func TestToApprovers_SkipsRequester(t *testing.T) {
	store, _, manager, _ := seed(t)
	rec := &bulkRecorder{}

	NewDispatcher(store.Employees(), rec).ToApprovers(context.Background(), manager.ID, request())

	require.Len(t, rec.bulk, 1)
	require.Len(t, rec.bulk[0], 1)
	assert.Equal(t, "user-owner", rec.bulk[0][0].RecipientID)
}

func TestToEmployee_SwallowsEmitterError(t *testing.T) {
	store, staff, manager, _ := seed(t)
	rec := &bulkRecorder{err: errors.New("queue closed")}

	d := NewDispatcher(store.Employees(), rec)
	d.ToEmployee(context.Background(), staff.ID, manager.ID, request())
	d.ToEmployee(context.Background(), "missing", manager.ID, request())

	require.Len(t, rec.single, 1)
	assert.Equal(t, "user-staff", rec.single[0].RecipientID)
}
