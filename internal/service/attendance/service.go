package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/notification"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/service/notify"
)

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	leave.LeaveApplicationRepository
	employee.Directory
	notify *notify.Dispatcher
}

func NewAttendanceService(
	attendanceRepository attendance.AttendanceRepository,
	leaveApplicationRepository leave.LeaveApplicationRepository,
	directory employee.Directory,
	emitter notification.Emitter,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		AttendanceRepository:       attendanceRepository,
		LeaveApplicationRepository: leaveApplicationRepository,
		Directory:                  directory,
		notify:                     notify.NewDispatcher(directory, emitter),
	}
}

// Mark implements attendance.AttendanceService. One record per employee and
// day; a second attempt fails with attendance.ErrDuplicateRecord.
func (s *AttendanceServiceImpl) Mark(ctx context.Context, req attendance.MarkAttendanceRequest) (attendance.Attendance, error) {
	if err := req.Validate(); err != nil {
		return attendance.Attendance{}, err
	}

	day, err := calendar.ParseDate(req.Date)
	if err != nil {
		return attendance.Attendance{}, err
	}
	checkIn, err := calendar.CombineClock(day, req.CheckIn)
	if err != nil {
		return attendance.Attendance{}, err
	}
	var checkOut *time.Time
	if req.CheckOut != nil {
		out, err := calendar.CombineClock(day, *req.CheckOut)
		if err != nil {
			return attendance.Attendance{}, err
		}
		if !out.After(checkIn) {
			return attendance.Attendance{}, calendar.ErrInvalidRange
		}
		checkOut = &out
	}

	if _, err := s.Directory.GetByID(ctx, req.EmployeeID); err != nil {
		return attendance.Attendance{}, err
	}

	status := req.EffectiveStatus()
	if status != attendance.StatusOnLeave {
		onLeave, err := s.LeaveApplicationRepository.HasApprovedCovering(ctx, req.EmployeeID, day)
		if err != nil {
			return attendance.Attendance{}, fmt.Errorf("failed to check approved leave: %w", err)
		}
		if onLeave {
			return attendance.Attendance{}, attendance.ErrOnApprovedLeave
		}
	}

	record := attendance.Attendance{
		EmployeeID: req.EmployeeID,
		Date:       day,
		CheckIn:    &checkIn,
		CheckOut:   checkOut,
		Status:     status,
		Notes:      req.Notes,
		CreatedBy:  req.ActorID,
		UpdatedBy:  req.ActorID,
	}
	record.RecomputeHours()

	created, err := s.AttendanceRepository.Create(ctx, record)
	if err != nil {
		if errors.Is(err, attendance.ErrDuplicateRecord) {
			return attendance.Attendance{}, err
		}
		return attendance.Attendance{}, fmt.Errorf("failed to mark attendance: %w", err)
	}
	return created, nil
}

// Update implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Update(ctx context.Context, req attendance.UpdateAttendanceRequest) (attendance.Attendance, error) {
	if err := req.Validate(); err != nil {
		return attendance.Attendance{}, err
	}

	record, err := s.AttendanceRepository.GetByID(ctx, req.ID)
	if err != nil {
		return attendance.Attendance{}, err
	}

	if req.CheckIn != nil {
		in, err := calendar.CombineClock(record.Date, *req.CheckIn)
		if err != nil {
			return attendance.Attendance{}, err
		}
		record.CheckIn = &in
	}
	if req.CheckOut != nil {
		out, err := calendar.CombineClock(record.Date, *req.CheckOut)
		if err != nil {
			return attendance.Attendance{}, err
		}
		record.CheckOut = &out
	}
	if record.CheckIn != nil && record.CheckOut != nil && !record.CheckOut.After(*record.CheckIn) {
		return attendance.Attendance{}, calendar.ErrInvalidRange
	}
	if req.Status != nil {
		status := attendance.Status(*req.Status)
		if !status.IsValid() {
			return attendance.Attendance{}, attendance.ErrInvalidStatus
		}
		record.Status = status
	}
	if req.Notes != nil {
		record.Notes = req.Notes
	}
	record.RecomputeHours()
	record.UpdatedBy = req.ActorID

	updated, err := s.AttendanceRepository.Update(ctx, record)
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.Attendance{}, err
		}
		return attendance.Attendance{}, fmt.Errorf("failed to update attendance: %w", err)
	}
	return updated, nil
}

// Get implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Get(ctx context.Context, id string) (attendance.Attendance, error) {
	return s.AttendanceRepository.GetByID(ctx, id)
}

// List implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) List(ctx context.Context, req attendance.ListAttendanceRequest) ([]attendance.Attendance, int64, error) {
	if err := req.Validate(); err != nil {
		return nil, 0, err
	}

	filter := attendance.Filter{
		EmployeeID: req.EmployeeID,
		Page:       req.Page,
		PageSize:   req.PageSize,
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if req.StartDate != "" {
		from, err := calendar.ParseDate(req.StartDate)
		if err != nil {
			return nil, 0, err
		}
		filter.From = &from
	}
	if req.EndDate != "" {
		to, err := calendar.ParseDate(req.EndDate)
		if err != nil {
			return nil, 0, err
		}
		filter.To = &to
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, 0, calendar.ErrInvalidRange
	}
	if req.Status != "" {
		status := attendance.Status(req.Status)
		filter.Status = &status
	}

	records, total, err := s.AttendanceRepository.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendance: %w", err)
	}
	return records, total, nil
}

// MonthlyReport implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) MonthlyReport(ctx context.Context, req attendance.MonthlyReportRequest) (attendance.MonthlyReportResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.MonthlyReportResponse{}, err
	}

	from, to := calendar.MonthWindow(req.Year, time.Month(req.Month))
	records, _, err := s.AttendanceRepository.List(ctx, attendance.Filter{
		EmployeeID: req.EmployeeID,
		From:       &from,
		To:         &to,
	})
	if err != nil {
		return attendance.MonthlyReportResponse{}, fmt.Errorf("failed to list monthly attendance: %w", err)
	}

	rows := make([]attendance.AttendanceResponse, len(records))
	for i, r := range records {
		rows[i] = attendance.NewAttendanceResponse(r)
	}

	return attendance.MonthlyReportResponse{
		Year:       req.Year,
		Month:      req.Month,
		Attendance: rows,
		Stats:      attendance.Tally(records),
	}, nil
}

// SyncOnLeave implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) SyncOnLeave(ctx context.Context, day time.Time) (int, error) {
	day = calendar.DateOnly(day)

	applications, err := s.LeaveApplicationRepository.ListApprovedCovering(ctx, day)
	if err != nil {
		return 0, fmt.Errorf("failed to list approved leave: %w", err)
	}

	created := 0
	for _, app := range applications {
		actor := app.EmployeeID
		if app.ApprovedBy != nil {
			actor = *app.ApprovedBy
		}

		_, err := s.AttendanceRepository.Create(ctx, attendance.Attendance{
			EmployeeID: app.EmployeeID,
			Date:       day,
			Status:     attendance.StatusOnLeave,
			CreatedBy:  actor,
			UpdatedBy:  actor,
		})
		if errors.Is(err, attendance.ErrDuplicateRecord) {
			continue
		}
		if err != nil {
			slog.Error("failed to record on-leave attendance",
				"employee_id", app.EmployeeID,
				"date", day.Format(calendar.DateLayout),
				"error", err,
			)
			continue
		}
		created++

		s.notify.ToEmployee(ctx, app.EmployeeID, actor, notification.CreateNotificationRequest{
			Type:    notification.TypeAttendanceOnLeave,
			Title:   "Attendance recorded as on leave",
			Message: fmt.Sprintf("Your attendance for %s was recorded from your approved leave", day.Format(calendar.DateLayout)),
			Data: map[string]interface{}{
				"application_id": app.ID,
				"date":           day.Format(calendar.DateLayout),
			},
		})
	}

	return created, nil
}
