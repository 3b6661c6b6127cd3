package overtime

import (
	"context"

	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/approval"
)

// OvertimeRepository - interface for overtimes table
type OvertimeRepository interface {
	Create(ctx context.Context, o Overtime) (Overtime, error)
	GetByID(ctx context.Context, id string) (Overtime, error)
	List(ctx context.Context, filter Filter) ([]Overtime, int64, error)
	// Decide persists outcome only while the request is still pending.
	Decide(ctx context.Context, id string, outcome approval.Outcome) (Overtime, error)
}
