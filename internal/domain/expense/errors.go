package expense

import "errors"

var (
	ErrNotFound        = errors.New("expense not found")
	ErrInvalidAmount   = errors.New("amount must be greater than zero")
	ErrInvalidCategory = errors.New("invalid expense category")
	ErrInvalidStatus   = errors.New("invalid expense status")
	ErrForbidden       = errors.New("not allowed to modify this expense")
)
