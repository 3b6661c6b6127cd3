package memory

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/approval"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/overtime"
)

type overtimeRepository struct {
	s *Store
}

func (s *Store) Overtimes() overtime.OvertimeRepository {
	return &overtimeRepository{s: s}
}

func (r *overtimeRepository) Create(ctx context.Context, o overtime.Overtime) (overtime.Overtime, error) {
	err := r.s.run(ctx, func(d *state) error {
		id, err := newID()
		if err != nil {
			return err
		}
		now := time.Now()
		o.ID = id
		o.UpdatedBy = o.CreatedBy
		o.CreatedAt = now
		o.UpdatedAt = now
		d.overtimes[id] = o
		return nil
	})
	return o, err
}

func (r *overtimeRepository) GetByID(ctx context.Context, id string) (overtime.Overtime, error) {
	var o overtime.Overtime
	err := r.s.run(ctx, func(d *state) error {
		found, ok := d.overtimes[id]
		if !ok {
			return overtime.ErrOvertimeNotFound
		}
		o = found
		return nil
	})
	return o, err
}

func (r *overtimeRepository) List(ctx context.Context, filter overtime.Filter) ([]overtime.Overtime, int64, error) {
	matched := make([]overtime.Overtime, 0)
	err := r.s.run(ctx, func(d *state) error {
		for _, o := range d.overtimes {
			if filter.EmployeeID != nil && o.EmployeeID != *filter.EmployeeID {
				continue
			}
			if filter.Status != nil && o.Status != *filter.Status {
				continue
			}
			if filter.From != nil && o.Date.Before(*filter.From) {
				continue
			}
			if filter.To != nil && o.Date.After(*filter.To) {
				continue
			}
			matched = append(matched, o)
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
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return paginate(matched, filter.Page, filter.PageSize, false), int64(len(matched)), nil
}

func (r *overtimeRepository) Decide(ctx context.Context, id string, outcome approval.Outcome) (overtime.Overtime, error) {
	var o overtime.Overtime
	err := r.s.run(ctx, func(d *state) error {
		found, ok := d.overtimes[id]
		if !ok || found.Status != approval.StatusPending {
			return approval.ErrAlreadyDecided
		}
		decidedAt := outcome.DecidedAt
		found.Status = outcome.Status
		found.ApprovedBy = outcome.ApprovedBy
		found.ApprovedAt = &decidedAt
		found.RejectionReason = outcome.RejectionReason
		found.UpdatedBy = outcome.ActorID
		found.UpdatedAt = time.Now()
		d.overtimes[id] = found
		o = found
		return nil
	})
	return o, err
}
