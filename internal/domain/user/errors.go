package user

import "errors"

var (
	ErrInvalidToken            = errors.New("invalid or missing access token")
	ErrEmployeeIDRequired      = errors.New("employee ID not found in token")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
)
