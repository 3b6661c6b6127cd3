package memory

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/employee"
)

type employeeDirectory struct {
	s *Store
}

func (s *Store) Employees() employee.Directory {
	return &employeeDirectory{s: s}
}

// PutEmployee inserts or replaces a directory entry. Employees are
// maintained outside this service, so this is the only write path.
func (s *Store) PutEmployee(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	err := s.run(ctx, func(d *state) error {
		if e.ID == "" {
			id, err := newID()
			if err != nil {
				return err
			}
			e.ID = id
		}
		now := time.Now()
		if e.CreatedAt.IsZero() {
			e.CreatedAt = now
		}
		e.UpdatedAt = now
		d.employees[e.ID] = e
		return nil
	})
	return e, err
}

func (r *employeeDirectory) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	var e employee.Employee
	err := r.s.run(ctx, func(d *state) error {
		found, ok := d.employees[id]
		if !ok {
			return employee.ErrEmployeeNotFound
		}
		e = found
		return nil
	})
	return e, err
}

func (r *employeeDirectory) GetByUserID(ctx context.Context, userID string) (employee.Employee, error) {
	var e employee.Employee
	err := r.s.run(ctx, func(d *state) error {
		for _, candidate := range d.employees {
			if candidate.UserID == userID {
				e = candidate
				return nil
			}
		}
		return employee.ErrEmployeeNotFound
	})
	return e, err
}

func (r *employeeDirectory) ListApprovers(ctx context.Context) ([]employee.Employee, error) {
	approvers := make([]employee.Employee, 0)
	err := r.s.run(ctx, func(d *state) error {
		for _, e := range d.employees {
			if e.IsActive && e.CanApprove() {
				approvers = append(approvers, e)
			}
		}
		return nil
	})
	sort.Slice(approvers, func(i, j int) bool { return approvers[i].FullName < approvers[j].FullName })
	return approvers, err
}
