package regularization

import (
	"context"

	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/approval"
)

type RegularizationService interface {
	Apply(ctx context.Context, req ApplyRegularizationRequest) (Regularization, error)
	Decide(ctx context.Context, req approval.DecideRequest) (Regularization, error)
	Get(ctx context.Context, id string) (Regularization, error)
	List(ctx context.Context, filter Filter) ([]Regularization, int64, error)
}
