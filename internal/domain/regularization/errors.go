package regularization

import "errors"

var (
	ErrRegularizationNotFound = errors.New("regularization request not found")
)
