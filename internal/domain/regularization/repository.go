package regularization

import (
	"context"

	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/approval"
)

// RegularizationRepository - interface for attendance_regularizations table
type RegularizationRepository interface {
	Create(ctx context.Context, r Regularization) (Regularization, error)
	GetByID(ctx context.Context, id string) (Regularization, error)
	List(ctx context.Context, filter Filter) ([]Regularization, int64, error)
	// Decide persists outcome only while the request is still pending.
	Decide(ctx context.Context, id string, outcome approval.Outcome) (Regularization, error)
}
