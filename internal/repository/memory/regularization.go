package memory

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/approval"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/regularization"
)

type regularizationRepository struct {
	s *Store
}

func (s *Store) Regularizations() regularization.RegularizationRepository {
	return &regularizationRepository{s: s}
}

func (r *regularizationRepository) Create(ctx context.Context, reg regularization.Regularization) (regularization.Regularization, error) {
	err := r.s.run(ctx, func(d *state) error {
		id, err := newID()
		if err != nil {
			return err
		}
		now := time.Now()
		reg.ID = id
		reg.UpdatedBy = reg.CreatedBy
		reg.CreatedAt = now
		reg.UpdatedAt = now
		d.regularizations[id] = reg
		return nil
	})
	return reg, err
}

func (r *regularizationRepository) GetByID(ctx context.Context, id string) (regularization.Regularization, error) {
	var reg regularization.Regularization
	err := r.s.run(ctx, func(d *state) error {
		found, ok := d.regularizations[id]
		if !ok {
			return regularization.ErrRegularizationNotFound
		}
		reg = found
		return nil
	})
	return reg, err
}

func (r *regularizationRepository) List(ctx context.Context, filter regularization.Filter) ([]regularization.Regularization, int64, error) {
	matched := make([]regularization.Regularization, 0)
	err := r.s.run(ctx, func(d *state) error {
		for _, reg := range d.regularizations {
			if filter.EmployeeID != nil && reg.EmployeeID != *filter.EmployeeID {
				continue
			}
			if filter.Status != nil && reg.Status != *filter.Status {
				continue
			}
			matched = append(matched, reg)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	return paginate(matched, filter.Page, filter.PageSize, false), int64(len(matched)), nil
}

func (r *regularizationRepository) Decide(ctx context.Context, id string, outcome approval.Outcome) (regularization.Regularization, error) {
	var reg regularization.Regularization
	err := r.s.run(ctx, func(d *state) error {
		found, ok := d.regularizations[id]
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
		d.regularizations[id] = found
		reg = found
		return nil
	})
	return reg, err
}
