package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/approval"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/notification"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/service/notify"
)

type LeaveServiceImpl struct {
	tx database.Transactor
	leave.LeaveTypeRepository
	leave.LeaveApplicationRepository
	employee.Directory
	ledger *Ledger
	notify *notify.Dispatcher
	now    func() time.Time
}

func NewLeaveService(
	tx database.Transactor,
	leaveTypeRepository leave.LeaveTypeRepository,
	leaveBalanceRepository leave.LeaveBalanceRepository,
	leaveApplicationRepository leave.LeaveApplicationRepository,
	directory employee.Directory,
	emitter notification.Emitter,
) leave.LeaveService {
	return &LeaveServiceImpl{
		tx:                         tx,
		LeaveTypeRepository:        leaveTypeRepository,
		LeaveApplicationRepository: leaveApplicationRepository,
		Directory:                  directory,
		ledger:                     NewLedger(leaveTypeRepository, leaveBalanceRepository),
		notify:                     notify.NewDispatcher(directory, emitter),
		now:                        time.Now,
	}
}

// CreateLeaveType implements leave.LeaveService.
func (l *LeaveServiceImpl) CreateLeaveType(ctx context.Context, req leave.CreateLeaveTypeRequest) (leave.LeaveType, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveType{}, err
	}

	isPaid := true
	if req.IsPaid != nil {
		isPaid = *req.IsPaid
	}

	created, err := l.LeaveTypeRepository.Create(ctx, leave.LeaveType{
		Name:        req.Name,
		Description: req.Description,
		DefaultDays: req.DefaultDays,
		IsPaid:      isPaid,
		IsActive:    true,
		CreatedBy:   &req.ActorID,
		UpdatedBy:   &req.ActorID,
	})
	if err != nil {
		if errors.Is(err, leave.ErrLeaveTypeNameExists) {
			return leave.LeaveType{}, err
		}
		return leave.LeaveType{}, fmt.Errorf("failed to create leave type: %w", err)
	}
	return created, nil
}

// UpdateLeaveType implements leave.LeaveService. Changing DefaultDays
// affects only balances created afterwards.
func (l *LeaveServiceImpl) UpdateLeaveType(ctx context.Context, req leave.UpdateLeaveTypeRequest) (leave.LeaveType, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveType{}, err
	}

	lt, err := l.LeaveTypeRepository.GetByID(ctx, req.ID)
	if err != nil {
		return leave.LeaveType{}, err
	}

	if req.Name != nil {
		lt.Name = *req.Name
	}
	if req.Description != nil {
		lt.Description = req.Description
	}
	if req.DefaultDays != nil {
		lt.DefaultDays = *req.DefaultDays
	}
	if req.IsPaid != nil {
		lt.IsPaid = *req.IsPaid
	}
	if req.IsActive != nil {
		lt.IsActive = *req.IsActive
	}
	lt.UpdatedBy = &req.ActorID

	updated, err := l.LeaveTypeRepository.Update(ctx, lt)
	if err != nil {
		if errors.Is(err, leave.ErrLeaveTypeNameExists) || errors.Is(err, leave.ErrLeaveTypeNotFound) {
			return leave.LeaveType{}, err
		}
		return leave.LeaveType{}, fmt.Errorf("failed to update leave type: %w", err)
	}
	return updated, nil
}

// ListLeaveTypes implements leave.LeaveService.
func (l *LeaveServiceImpl) ListLeaveTypes(ctx context.Context, activeOnly bool) ([]leave.LeaveType, error) {
	types, err := l.LeaveTypeRepository.List(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave types: %w", err)
	}
	return types, nil
}

// DisableLeaveType implements leave.LeaveService. Types are never deleted
// because applications and balances reference them.
func (l *LeaveServiceImpl) DisableLeaveType(ctx context.Context, id string, actorID string) error {
	lt, err := l.LeaveTypeRepository.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !lt.IsActive {
		return nil
	}

	lt.IsActive = false
	lt.UpdatedBy = &actorID
	if _, err := l.LeaveTypeRepository.Update(ctx, lt); err != nil {
		return fmt.Errorf("failed to disable leave type: %w", err)
	}
	return nil
}

// Apply implements leave.LeaveService. The balance row is created so the
// employee can see it, but nothing is debited until approval.
func (l *LeaveServiceImpl) Apply(ctx context.Context, req leave.ApplyLeaveRequest) (leave.LeaveApplication, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveApplication{}, err
	}

	startDate, err := calendar.ParseDate(req.StartDate)
	if err != nil {
		return leave.LeaveApplication{}, err
	}
	endDate, err := calendar.ParseDate(req.EndDate)
	if err != nil {
		return leave.LeaveApplication{}, err
	}
	days, err := calendar.DaysInclusive(startDate, endDate)
	if err != nil {
		return leave.LeaveApplication{}, err
	}

	if _, err := l.Directory.GetByID(ctx, req.EmployeeID); err != nil {
		return leave.LeaveApplication{}, err
	}

	leaveType, err := l.LeaveTypeRepository.GetByID(ctx, req.LeaveTypeID)
	if err != nil {
		return leave.LeaveApplication{}, err
	}
	if !leaveType.IsActive {
		return leave.LeaveApplication{}, leave.ErrLeaveTypeInactive
	}

	var created leave.LeaveApplication
	err = l.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		overlapping, err := l.LeaveApplicationRepository.HasOverlapping(ctx, req.EmployeeID, startDate, endDate)
		if err != nil {
			return fmt.Errorf("failed to check overlapping applications: %w", err)
		}
		if overlapping {
			return leave.ErrOverlappingApplication
		}

		application := leave.LeaveApplication{
			EmployeeID:  req.EmployeeID,
			LeaveTypeID: leaveType.ID,
			StartDate:   startDate,
			EndDate:     endDate,
			Days:        days,
			Reason:      req.Reason,
			Status:      approval.StatusPending,
			CreatedBy:   req.ActorID,
			UpdatedBy:   req.ActorID,
		}

		if _, err := l.ledger.Ensure(ctx, application.BalanceKey()); err != nil {
			return err
		}

		created, err = l.LeaveApplicationRepository.Create(ctx, application)
		if err != nil {
			return fmt.Errorf("failed to create leave application: %w", err)
		}
		return nil
	})
	if err != nil {
		return leave.LeaveApplication{}, err
	}

	slog.Info("leave application submitted",
		"application_id", created.ID,
		"employee_id", created.EmployeeID,
		"days", created.Days,
	)

	l.notify.ToApprovers(ctx, created.EmployeeID, notification.CreateNotificationRequest{
		Type:  notification.TypeLeaveRequest,
		Title: "New leave request",
		Message: fmt.Sprintf("%s leave from %s to %s (%d days) awaits your approval",
			leaveType.Name, req.StartDate, req.EndDate, days),
		Data: map[string]interface{}{
			"application_id": created.ID,
			"employee_id":    created.EmployeeID,
		},
	})

	return created, nil
}

// Decide implements leave.LeaveService. Approval transitions the
// application and debits the ledger in one transaction: if the balance
// cannot cover it the application stays pending.
func (l *LeaveServiceImpl) Decide(ctx context.Context, req approval.DecideRequest) (leave.LeaveApplication, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveApplication{}, err
	}

	current, err := l.LeaveApplicationRepository.GetByID(ctx, req.ID)
	if err != nil {
		return leave.LeaveApplication{}, err
	}

	outcome, err := approval.Decide(current.Status, req.ParsedDecision(), req.ActorID, req.RejectionReason, l.now())
	if err != nil {
		return leave.LeaveApplication{}, err
	}

	var decided leave.LeaveApplication
	err = l.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		decided, err = l.LeaveApplicationRepository.Decide(ctx, current.ID, outcome)
		if err != nil {
			return err
		}
		if outcome.Status != approval.StatusApproved {
			return nil
		}
		_, err = l.ledger.Reserve(ctx, decided.BalanceKey(), decided.Days)
		return err
	})
	if err != nil {
		return leave.LeaveApplication{}, err
	}

	slog.Info("leave application decided",
		"application_id", decided.ID,
		"status", decided.Status,
		"actor_id", req.ActorID,
	)

	msg := notification.CreateNotificationRequest{
		Type:    notification.TypeLeaveApproved,
		Title:   "Leave approved",
		Message: fmt.Sprintf("Your leave from %s to %s was approved", decided.StartDate.Format(calendar.DateLayout), decided.EndDate.Format(calendar.DateLayout)),
		Data:    map[string]interface{}{"application_id": decided.ID},
	}
	if decided.Status == approval.StatusRejected {
		msg.Type = notification.TypeLeaveRejected
		msg.Title = "Leave rejected"
		msg.Message = approval.RejectionMessage(fmt.Sprintf("Your leave from %s to %s was rejected", decided.StartDate.Format(calendar.DateLayout), decided.EndDate.Format(calendar.DateLayout)), req.RejectionReason)
	}
	l.notify.ToEmployee(ctx, decided.EmployeeID, req.ActorID, msg)

	return decided, nil
}

// GetApplication implements leave.LeaveService.
func (l *LeaveServiceImpl) GetApplication(ctx context.Context, id string) (leave.LeaveApplication, error) {
	return l.LeaveApplicationRepository.GetByID(ctx, id)
}

// ListApplications implements leave.LeaveService.
func (l *LeaveServiceImpl) ListApplications(ctx context.Context, filter leave.ApplicationFilter) ([]leave.LeaveApplication, int64, error) {
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	applications, total, err := l.LeaveApplicationRepository.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list leave applications: %w", err)
	}
	return applications, total, nil
}

// GetBalances implements leave.LeaveService.
func (l *LeaveServiceImpl) GetBalances(ctx context.Context, employeeID string, year int) ([]leave.LeaveBalanceResponse, error) {
	return l.ledger.Balances(ctx, employeeID, year)
}

// GetHistory implements leave.LeaveService.
func (l *LeaveServiceImpl) GetHistory(ctx context.Context, req leave.HistoryRequest) ([]leave.HistoryEntry, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	filter := leave.ApplicationFilter{EmployeeID: &req.EmployeeID}
	var from, to time.Time
	if req.StartDate != "" {
		var err error
		if from, err = calendar.ParseDate(req.StartDate); err != nil {
			return nil, err
		}
		if to, err = calendar.ParseDate(req.EndDate); err != nil {
			return nil, err
		}
		filter.From, filter.To = &from, &to
	}

	applications, _, err := l.LeaveApplicationRepository.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave history: %w", err)
	}

	names, err := l.typeNames(ctx)
	if err != nil {
		return nil, err
	}

	history := make([]leave.HistoryEntry, 0, len(applications))
	for _, a := range applications {
		// the window selects applications lying entirely inside it
		if filter.From != nil && (a.StartDate.Before(from) || a.EndDate.After(to)) {
			continue
		}
		history = append(history, leave.HistoryEntry{
			ApplicationID: a.ID,
			Date:          a.StartDate.Format(calendar.DateLayout),
			LeaveTypeID:   a.LeaveTypeID,
			LeaveType:     names[a.LeaveTypeID],
			Days:          a.Days,
			Status:        string(a.Status),
		})
	}
	return history, nil
}

// GetUsageTrend implements leave.LeaveService: approved days per month of
// year, bucketed by start month, for applications lying within the year.
func (l *LeaveServiceImpl) GetUsageTrend(ctx context.Context, employeeID string, year int) ([]leave.UsageTrendPoint, error) {
	from, to := calendar.YearWindow(year)
	approved := approval.StatusApproved

	applications, _, err := l.LeaveApplicationRepository.List(ctx, leave.ApplicationFilter{
		EmployeeID: &employeeID,
		Status:     &approved,
		From:       &from,
		To:         &to,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list approved applications: %w", err)
	}

	var monthly [12]int
	for _, a := range applications {
		if a.StartDate.Before(from) || a.EndDate.After(to) {
			continue
		}
		monthly[a.StartDate.Month()-1] += a.Days
	}

	trend := make([]leave.UsageTrendPoint, 12)
	for i, days := range monthly {
		trend[i] = leave.UsageTrendPoint{
			Month: time.Month(i + 1).String()[:3],
			Days:  days,
		}
	}
	return trend, nil
}

func (l *LeaveServiceImpl) typeNames(ctx context.Context) (map[string]string, error) {
	types, err := l.LeaveTypeRepository.List(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave types: %w", err)
	}
	names := make(map[string]string, len(types))
	for _, t := range types {
		names[t.ID] = t.Name
	}
	return names, nil
}
