package leave

import (
	"context"

	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/approval"
)

type LeaveService interface {
	// Type
	CreateLeaveType(ctx context.Context, req CreateLeaveTypeRequest) (LeaveType, error)
	UpdateLeaveType(ctx context.Context, req UpdateLeaveTypeRequest) (LeaveType, error)
	ListLeaveTypes(ctx context.Context, activeOnly bool) ([]LeaveType, error)
	DisableLeaveType(ctx context.Context, id string, actorID string) error
	// Application
	Apply(ctx context.Context, req ApplyLeaveRequest) (LeaveApplication, error)
	Decide(ctx context.Context, req approval.DecideRequest) (LeaveApplication, error)
	GetApplication(ctx context.Context, id string) (LeaveApplication, error)
	ListApplications(ctx context.Context, filter ApplicationFilter) ([]LeaveApplication, int64, error)
	// Balance
	GetBalances(ctx context.Context, employeeID string, year int) ([]LeaveBalanceResponse, error)
	GetHistory(ctx context.Context, req HistoryRequest) ([]HistoryEntry, error)
	GetUsageTrend(ctx context.Context, employeeID string, year int) ([]UsageTrendPoint, error)
}
