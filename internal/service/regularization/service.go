package regularization

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/approval"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/notification"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/regularization"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/service/notify"
)

type RegularizationServiceImpl struct {
	tx database.Transactor
	regularization.RegularizationRepository
	attendance.CheckTimeWriter
	employee.Directory
	notify *notify.Dispatcher
	now    func() time.Time
}

func NewRegularizationService(
	tx database.Transactor,
	regularizationRepository regularization.RegularizationRepository,
	checkTimeWriter attendance.CheckTimeWriter,
	directory employee.Directory,
	emitter notification.Emitter,
) regularization.RegularizationService {
	return &RegularizationServiceImpl{
		tx:                       tx,
		RegularizationRepository: regularizationRepository,
		CheckTimeWriter:          checkTimeWriter,
		Directory:                directory,
		notify:                   notify.NewDispatcher(directory, emitter),
		now:                      time.Now,
	}
}

// Apply implements regularization.RegularizationService.
func (s *RegularizationServiceImpl) Apply(ctx context.Context, req regularization.ApplyRegularizationRequest) (regularization.Regularization, error) {
	if err := req.Validate(); err != nil {
		return regularization.Regularization{}, err
	}

	day, err := calendar.ParseDate(req.Date)
	if err != nil {
		return regularization.Regularization{}, err
	}
	checkIn, err := calendar.CombineClock(day, req.CheckIn)
	if err != nil {
		return regularization.Regularization{}, err
	}
	checkOut, err := calendar.CombineClock(day, req.CheckOut)
	if err != nil {
		return regularization.Regularization{}, err
	}
	if !checkOut.After(checkIn) {
		return regularization.Regularization{}, calendar.ErrInvalidRange
	}

	if _, err := s.Directory.GetByID(ctx, req.EmployeeID); err != nil {
		return regularization.Regularization{}, err
	}

	created, err := s.RegularizationRepository.Create(ctx, regularization.Regularization{
		EmployeeID: req.EmployeeID,
		Date:       day,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Reason:     req.Reason,
		Status:     approval.StatusPending,
		CreatedBy:  req.ActorID,
		UpdatedBy:  req.ActorID,
	})
	if err != nil {
		return regularization.Regularization{}, fmt.Errorf("failed to create regularization: %w", err)
	}

	s.notify.ToApprovers(ctx, created.EmployeeID, notification.CreateNotificationRequest{
		Type:    notification.TypeRegularizationPending,
		Title:   "Attendance correction request",
		Message: fmt.Sprintf("Correction for %s (%s-%s) awaits your approval", req.Date, req.CheckIn, req.CheckOut),
		Data: map[string]interface{}{
			"regularization_id": created.ID,
			"employee_id":       created.EmployeeID,
		},
	})

	return created, nil
}

// Decide implements regularization.RegularizationService. An approval
// writes the corrected times to the attendance record in the same
// transaction as the status change.
func (s *RegularizationServiceImpl) Decide(ctx context.Context, req approval.DecideRequest) (regularization.Regularization, error) {
	if err := req.Validate(); err != nil {
		return regularization.Regularization{}, err
	}

	current, err := s.RegularizationRepository.GetByID(ctx, req.ID)
	if err != nil {
		return regularization.Regularization{}, err
	}

	outcome, err := approval.Decide(current.Status, req.ParsedDecision(), req.ActorID, req.RejectionReason, s.now())
	if err != nil {
		return regularization.Regularization{}, err
	}

	var decided regularization.Regularization
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		decided, err = s.RegularizationRepository.Decide(ctx, current.ID, outcome)
		if err != nil {
			return err
		}
		if outcome.Status != approval.StatusApproved {
			return nil
		}
		if _, err := s.CheckTimeWriter.UpsertCheckTimes(ctx, decided.EmployeeID, decided.Date, decided.CheckIn, decided.CheckOut, req.ActorID); err != nil {
			return fmt.Errorf("failed to apply corrected check times: %w", err)
		}
		return nil
	})
	if err != nil {
		return regularization.Regularization{}, err
	}

	slog.Info("regularization decided",
		"regularization_id", decided.ID,
		"status", decided.Status,
		"actor_id", req.ActorID,
	)

	msg := notification.CreateNotificationRequest{
		Type:    notification.TypeRegularizationApproved,
		Title:   "Attendance correction approved",
		Message: fmt.Sprintf("Your correction for %s was approved", decided.Date.Format(calendar.DateLayout)),
		Data:    map[string]interface{}{"regularization_id": decided.ID},
	}
	if decided.Status == approval.StatusRejected {
		msg.Type = notification.TypeRegularizationRejected
		msg.Title = "Attendance correction rejected"
		msg.Message = approval.RejectionMessage(fmt.Sprintf("Your correction for %s was rejected", decided.Date.Format(calendar.DateLayout)), req.RejectionReason)
	}
	s.notify.ToEmployee(ctx, decided.EmployeeID, req.ActorID, msg)

	return decided, nil
}

func (s *RegularizationServiceImpl) Get(ctx context.Context, id string) (regularization.Regularization, error) {
	return s.RegularizationRepository.GetByID(ctx, id)
}

func (s *RegularizationServiceImpl) List(ctx context.Context, filter regularization.Filter) ([]regularization.Regularization, int64, error) {
	items, total, err := s.RegularizationRepository.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list regularizations: %w", err)
	}
	return items, total, nil
}
