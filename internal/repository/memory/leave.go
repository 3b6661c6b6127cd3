package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/approval"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/pkg/calendar"
)

type leaveTypeRepository struct {
	s *Store
}

func (s *Store) LeaveTypes() leave.LeaveTypeRepository {
	return &leaveTypeRepository{s: s}
}

func (r *leaveTypeRepository) Create(ctx context.Context, lt leave.LeaveType) (leave.LeaveType, error) {
	err := r.s.run(ctx, func(d *state) error {
		for _, existing := range d.leaveTypes {
			if strings.EqualFold(existing.Name, lt.Name) {
				return leave.ErrLeaveTypeNameExists
			}
		}
		id, err := newID()
		if err != nil {
			return err
		}
		now := time.Now()
		lt.ID = id
		lt.UpdatedBy = lt.CreatedBy
		lt.CreatedAt = now
		lt.UpdatedAt = now
		d.leaveTypes[id] = lt
		return nil
	})
	return lt, err
}

func (r *leaveTypeRepository) GetByID(ctx context.Context, id string) (leave.LeaveType, error) {
	var lt leave.LeaveType
	err := r.s.run(ctx, func(d *state) error {
		found, ok := d.leaveTypes[id]
		if !ok {
			return leave.ErrLeaveTypeNotFound
		}
		lt = found
		return nil
	})
	return lt, err
}

func (r *leaveTypeRepository) List(ctx context.Context, activeOnly bool) ([]leave.LeaveType, error) {
	types := make([]leave.LeaveType, 0)
	err := r.s.run(ctx, func(d *state) error {
		for _, lt := range d.leaveTypes {
			if activeOnly && !lt.IsActive {
				continue
			}
			types = append(types, lt)
		}
		return nil
	})
	sort.Slice(types, func(i, j int) bool { return types[i].Name < types[j].Name })
	return types, err
}

func (r *leaveTypeRepository) Update(ctx context.Context, lt leave.LeaveType) (leave.LeaveType, error) {
	err := r.s.run(ctx, func(d *state) error {
		existing, ok := d.leaveTypes[lt.ID]
		if !ok {
			return leave.ErrLeaveTypeNotFound
		}
		for id, other := range d.leaveTypes {
			if id != lt.ID && strings.EqualFold(other.Name, lt.Name) {
				return leave.ErrLeaveTypeNameExists
			}
		}
		lt.CreatedBy = existing.CreatedBy
		lt.CreatedAt = existing.CreatedAt
		lt.UpdatedAt = time.Now()
		d.leaveTypes[lt.ID] = lt
		return nil
	})
	return lt, err
}

type leaveBalanceRepository struct {
	s *Store
}

func (s *Store) LeaveBalances() leave.LeaveBalanceRepository {
	return &leaveBalanceRepository{s: s}
}

func (r *leaveBalanceRepository) GetOrCreate(ctx context.Context, key leave.BalanceKey, allotment int) (leave.LeaveBalance, error) {
	var b leave.LeaveBalance
	err := r.s.run(ctx, func(d *state) error {
		if existing, ok := d.balances[key]; ok {
			b = existing
			return nil
		}
		id, err := newID()
		if err != nil {
			return err
		}
		b = leave.NewLeaveBalance(key, allotment)
		b.ID = id
		b.CreatedAt = time.Now()
		b.UpdatedAt = b.CreatedAt
		d.balances[key] = b
		return nil
	})
	return b, err
}

func (r *leaveBalanceRepository) Get(ctx context.Context, key leave.BalanceKey) (leave.LeaveBalance, error) {
	var b leave.LeaveBalance
	err := r.s.run(ctx, func(d *state) error {
		found, ok := d.balances[key]
		if !ok {
			return leave.ErrLeaveBalanceNotFound
		}
		b = found
		return nil
	})
	return b, err
}

func (r *leaveBalanceRepository) ListByEmployeeYear(ctx context.Context, employeeID string, year int) ([]leave.LeaveBalance, error) {
	balances := make([]leave.LeaveBalance, 0)
	err := r.s.run(ctx, func(d *state) error {
		for key, b := range d.balances {
			if key.EmployeeID == employeeID && key.Year == year {
				balances = append(balances, b)
			}
		}
		return nil
	})
	sort.Slice(balances, func(i, j int) bool { return balances[i].LeaveTypeID < balances[j].LeaveTypeID })
	return balances, err
}

func (r *leaveBalanceRepository) Reserve(ctx context.Context, key leave.BalanceKey, days int) (leave.LeaveBalance, error) {
	var b leave.LeaveBalance
	err := r.s.run(ctx, func(d *state) error {
		found, ok := d.balances[key]
		if !ok {
			return leave.ErrLeaveBalanceNotFound
		}
		if found.RemainingDays < days {
			return leave.ErrInsufficientBalance
		}
		found.UsedDays += days
		found.RemainingDays -= days
		found.UpdatedAt = time.Now()
		d.balances[key] = found
		b = found
		return nil
	})
	return b, err
}

type leaveApplicationRepository struct {
	s *Store
}

func (s *Store) LeaveApplications() leave.LeaveApplicationRepository {
	return &leaveApplicationRepository{s: s}
}

func (r *leaveApplicationRepository) Create(ctx context.Context, a leave.LeaveApplication) (leave.LeaveApplication, error) {
	err := r.s.run(ctx, func(d *state) error {
		id, err := newID()
		if err != nil {
			return err
		}
		now := time.Now()
		a.ID = id
		a.CreatedAt = now
		a.UpdatedAt = now
		d.applications[id] = a
		return nil
	})
	return a, err
}

func (r *leaveApplicationRepository) GetByID(ctx context.Context, id string) (leave.LeaveApplication, error) {
	var a leave.LeaveApplication
	err := r.s.run(ctx, func(d *state) error {
		found, ok := d.applications[id]
		if !ok {
			return leave.ErrLeaveApplicationNotFound
		}
		a = found
		return nil
	})
	return a, err
}

func (r *leaveApplicationRepository) List(ctx context.Context, filter leave.ApplicationFilter) ([]leave.LeaveApplication, int64, error) {
	matched := make([]leave.LeaveApplication, 0)
	err := r.s.run(ctx, func(d *state) error {
		for _, a := range d.applications {
			if filter.EmployeeID != nil && a.EmployeeID != *filter.EmployeeID {
				continue
			}
			if filter.Status != nil && a.Status != *filter.Status {
				continue
			}
			if filter.From != nil && a.EndDate.Before(*filter.From) {
				continue
			}
			if filter.To != nil && a.StartDate.After(*filter.To) {
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
		if !matched[i].StartDate.Equal(matched[j].StartDate) {
			return matched[i].StartDate.After(matched[j].StartDate)
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return paginate(matched, filter.Page, filter.PageSize, true), int64(len(matched)), nil
}

func (r *leaveApplicationRepository) HasOverlapping(ctx context.Context, employeeID string, start, end time.Time) (bool, error) {
	var overlap bool
	err := r.s.run(ctx, func(d *state) error {
		for _, a := range d.applications {
			if a.EmployeeID == employeeID && a.Blocking() && calendar.Overlaps(a.StartDate, a.EndDate, start, end) {
				overlap = true
				return nil
			}
		}
		return nil
	})
	return overlap, err
}

func (r *leaveApplicationRepository) HasApprovedCovering(ctx context.Context, employeeID string, day time.Time) (bool, error) {
	var covered bool
	err := r.s.run(ctx, func(d *state) error {
		for _, a := range d.applications {
			if a.EmployeeID == employeeID && a.Status == approval.StatusApproved && calendar.Covers(a.StartDate, a.EndDate, day) {
				covered = true
				return nil
			}
		}
		return nil
	})
	return covered, err
}

func (r *leaveApplicationRepository) ListApprovedCovering(ctx context.Context, day time.Time) ([]leave.LeaveApplication, error) {
	covering := make([]leave.LeaveApplication, 0)
	err := r.s.run(ctx, func(d *state) error {
		for _, a := range d.applications {
			if a.Status == approval.StatusApproved && calendar.Covers(a.StartDate, a.EndDate, day) {
				covering = append(covering, a)
			}
		}
		return nil
	})
	sort.Slice(covering, func(i, j int) bool { return covering[i].EmployeeID < covering[j].EmployeeID })
	return covering, err
}

func (r *leaveApplicationRepository) Decide(ctx context.Context, id string, outcome approval.Outcome) (leave.LeaveApplication, error) {
	var a leave.LeaveApplication
	err := r.s.run(ctx, func(d *state) error {
		found, ok := d.applications[id]
		if !ok || found.Status != approval.StatusPending {
			return approval.ErrAlreadyDecided
		}
		decidedAt := outcome.DecidedAt
		found.Status = outcome.Status
		found.ApprovedBy = outcome.ApprovedBy
		found.DecidedAt = &decidedAt
		found.RejectionReason = outcome.RejectionReason
		found.UpdatedBy = outcome.ActorID
		found.UpdatedAt = time.Now()
		d.applications[id] = found
		a = found
		return nil
	})
	return a, err
}
