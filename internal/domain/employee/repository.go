package employee

import "context"

// Directory is the employee lookup the workflows consume.
type Directory interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	GetByUserID(ctx context.Context, userID string) (Employee, error)
	// ListApprovers returns active managers and owners.
	ListApprovers(ctx context.Context) ([]Employee, error)
}
