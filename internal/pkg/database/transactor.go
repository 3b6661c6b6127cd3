package database

import "context"

// Transactor runs fn so that every repository call made with the context
// passed to fn joins the same unit of work. If fn returns an error nothing
// it wrote is kept.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
