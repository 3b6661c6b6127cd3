package overtime

import (
	"context"

	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/approval"
)

type OvertimeService interface {
	Apply(ctx context.Context, req ApplyOvertimeRequest) (Overtime, error)
	Decide(ctx context.Context, req approval.DecideRequest) (Overtime, error)
	Get(ctx context.Context, id string) (Overtime, error)
	List(ctx context.Context, filter Filter) ([]Overtime, int64, error)
}
