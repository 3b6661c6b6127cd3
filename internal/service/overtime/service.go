package overtime

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/approval"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/notification"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/overtime"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/service/notify"
	"github.com/shopspring/decimal"
)

type OvertimeServiceImpl struct {
	tx database.Transactor
	overtime.OvertimeRepository
	employee.Directory
	multiplier decimal.Decimal
	notify     *notify.Dispatcher
	now        func() time.Time
}

// NewOvertimeService builds the overtime workflow. A zero multiplier falls
// back to overtime.DefaultMultiplier.
func NewOvertimeService(
	tx database.Transactor,
	overtimeRepository overtime.OvertimeRepository,
	directory employee.Directory,
	emitter notification.Emitter,
	multiplier decimal.Decimal,
) overtime.OvertimeService {
	if !multiplier.IsPositive() {
		multiplier = overtime.DefaultMultiplier
	}
	return &OvertimeServiceImpl{
		tx:                 tx,
		OvertimeRepository: overtimeRepository,
		Directory:          directory,
		multiplier:         multiplier,
		notify:             notify.NewDispatcher(directory, emitter),
		now:                time.Now,
	}
}

// Apply implements overtime.OvertimeService. The rate is fixed at
// application time from the employee's current salary.
func (s *OvertimeServiceImpl) Apply(ctx context.Context, req overtime.ApplyOvertimeRequest) (overtime.Overtime, error) {
	if err := req.Validate(); err != nil {
		return overtime.Overtime{}, err
	}

	day, err := calendar.ParseDate(req.Date)
	if err != nil {
		return overtime.Overtime{}, err
	}
	start, err := calendar.CombineClock(day, req.StartTime)
	if err != nil {
		return overtime.Overtime{}, err
	}
	end, err := calendar.CombineClock(day, req.EndTime)
	if err != nil {
		return overtime.Overtime{}, err
	}
	if !end.After(start) {
		return overtime.Overtime{}, calendar.ErrInvalidRange
	}

	emp, err := s.Directory.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return overtime.Overtime{}, err
	}

	rate := emp.HourlyRate()
	hours, amount := overtime.Compensation(start, end, rate, s.multiplier)

	created, err := s.OvertimeRepository.Create(ctx, overtime.Overtime{
		EmployeeID: emp.ID,
		Date:       day,
		StartTime:  start,
		EndTime:    end,
		TotalHours: hours,
		Rate:       rate,
		Amount:     amount,
		Reason:     req.Reason,
		Status:     approval.StatusPending,
		CreatedBy:  req.ActorID,
		UpdatedBy:  req.ActorID,
	})
	if err != nil {
		return overtime.Overtime{}, fmt.Errorf("failed to create overtime: %w", err)
	}

	s.notify.ToApprovers(ctx, created.EmployeeID, notification.CreateNotificationRequest{
		Type:    notification.TypeOvertimeRequest,
		Title:   "Overtime request",
		Message: fmt.Sprintf("%s hours of overtime on %s await your approval", hours.StringFixed(2), req.Date),
		Data: map[string]interface{}{
			"overtime_id": created.ID,
			"employee_id": created.EmployeeID,
			"amount":      amount.StringFixed(2),
		},
	})

	return created, nil
}

// Decide implements overtime.OvertimeService.
func (s *OvertimeServiceImpl) Decide(ctx context.Context, req approval.DecideRequest) (overtime.Overtime, error) {
	if err := req.Validate(); err != nil {
		return overtime.Overtime{}, err
	}

	current, err := s.OvertimeRepository.GetByID(ctx, req.ID)
	if err != nil {
		return overtime.Overtime{}, err
	}

	outcome, err := approval.Decide(current.Status, req.ParsedDecision(), req.ActorID, req.RejectionReason, s.now())
	if err != nil {
		return overtime.Overtime{}, err
	}

	var decided overtime.Overtime
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		decided, err = s.OvertimeRepository.Decide(ctx, current.ID, outcome)
		return err
	})
	if err != nil {
		return overtime.Overtime{}, err
	}

	slog.Info("overtime decided", "overtime_id", decided.ID, "status", decided.Status, "actor_id", req.ActorID)

	msg := notification.CreateNotificationRequest{
		Type:    notification.TypeOvertimeApproved,
		Title:   "Overtime approved",
		Message: fmt.Sprintf("Your overtime on %s was approved", decided.Date.Format(calendar.DateLayout)),
		Data:    map[string]interface{}{"overtime_id": decided.ID},
	}
	if decided.Status == approval.StatusRejected {
		msg.Type = notification.TypeOvertimeRejected
		msg.Title = "Overtime rejected"
		msg.Message = approval.RejectionMessage(fmt.Sprintf("Your overtime on %s was rejected", decided.Date.Format(calendar.DateLayout)), req.RejectionReason)
	}
	s.notify.ToEmployee(ctx, decided.EmployeeID, req.ActorID, msg)

	return decided, nil
}

func (s *OvertimeServiceImpl) Get(ctx context.Context, id string) (overtime.Overtime, error) {
	return s.OvertimeRepository.GetByID(ctx, id)
}

func (s *OvertimeServiceImpl) List(ctx context.Context, filter overtime.Filter) ([]overtime.Overtime, int64, error) {
	items, total, err := s.OvertimeRepository.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list overtime: %w", err)
	}
	return items, total, nil
}
