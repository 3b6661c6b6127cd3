package memory

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/attendance"
)

type attendanceRepository struct {
	s *Store
}

func (s *Store) Attendances() attendance.AttendanceRepository {
	return &attendanceRepository{s: s}
}

func findAttendance(d *state, employeeID string, day time.Time) (attendance.Attendance, bool) {
	for _, a := range d.attendances {
		if a.EmployeeID == employeeID && a.Date.Equal(day) {
			return a, true
		}
	}
	return attendance.Attendance{}, false
}

func (r *attendanceRepository) Create(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	err := r.s.run(ctx, func(d *state) error {
		if _, exists := findAttendance(d, att.EmployeeID, att.Date); exists {
			return attendance.ErrDuplicateRecord
		}
		id, err := newID()
		if err != nil {
			return err
		}
		now := time.Now()
		att.ID = id
		att.UpdatedBy = att.CreatedBy
		att.CreatedAt = now
		att.UpdatedAt = now
		d.attendances[id] = att
		return nil
	})
	return att, err
}

func (r *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	var att attendance.Attendance
	err := r.s.run(ctx, func(d *state) error {
		found, ok := d.attendances[id]
		if !ok {
			return attendance.ErrAttendanceNotFound
		}
		att = found
		return nil
	})
	return att, err
}

func (r *attendanceRepository) GetByEmployeeDate(ctx context.Context, employeeID string, day time.Time) (attendance.Attendance, error) {
	var att attendance.Attendance
	err := r.s.run(ctx, func(d *state) error {
		found, ok := findAttendance(d, employeeID, day)
		if !ok {
			return attendance.ErrAttendanceNotFound
		}
		att = found
		return nil
	})
	return att, err
}

func (r *attendanceRepository) Update(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	err := r.s.run(ctx, func(d *state) error {
		existing, ok := d.attendances[att.ID]
		if !ok {
			return attendance.ErrAttendanceNotFound
		}
		existing.CheckIn = att.CheckIn
		existing.CheckOut = att.CheckOut
		existing.Status = att.Status
		existing.TotalHours = att.TotalHours
		existing.Notes = att.Notes
		existing.UpdatedBy = att.UpdatedBy
		existing.UpdatedAt = time.Now()
		d.attendances[att.ID] = existing
		att = existing
		return nil
	})
	return att, err
}

func (r *attendanceRepository) UpsertCheckTimes(ctx context.Context, employeeID string, day time.Time, checkIn, checkOut time.Time, actorID string) (attendance.Attendance, error) {
	var att attendance.Attendance
	err := r.s.run(ctx, func(d *state) error {
		now := time.Now()
		existing, ok := findAttendance(d, employeeID, day)
		if !ok {
			id, err := newID()
			if err != nil {
				return err
			}
			existing = attendance.Attendance{
				ID:         id,
				EmployeeID: employeeID,
				Date:       day,
				Status:     attendance.StatusPresent,
				CreatedBy:  actorID,
				CreatedAt:  now,
			}
		}
		in, out := checkIn, checkOut
		existing.CheckIn = &in
		existing.CheckOut = &out
		existing.RecomputeHours()
		existing.UpdatedBy = actorID
		existing.UpdatedAt = now
		d.attendances[existing.ID] = existing
		att = existing
		return nil
	})
	return att, err
}

func (r *attendanceRepository) List(ctx context.Context, filter attendance.Filter) ([]attendance.Attendance, int64, error) {
	matched := make([]attendance.Attendance, 0)
	err := r.s.run(ctx, func(d *state) error {
		for _, a := range d.attendances {
			if filter.EmployeeID != nil && a.EmployeeID != *filter.EmployeeID {
				continue
			}
			if filter.From != nil && a.Date.Before(*filter.From) {
				continue
			}
			if filter.To != nil && a.Date.After(*filter.To) {
				continue
			}
			if filter.Status != nil && a.Status != *filter.Status {
				continue
			}
			matched = append(matched, a)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].Date.Equal(matched[j].Date) {
			return matched[i].Date.After(matched[j].Date)
		}
		return matched[i].EmployeeID < matched[j].EmployeeID
	})
	return paginate(matched, filter.Page, filter.PageSize, true), int64(len(matched)), nil
}
