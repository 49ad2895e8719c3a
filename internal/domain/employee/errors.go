package employee

import "errors"

var (
	ErrNotFound  = errors.New("employee not found")
	ErrDuplicate = errors.New("employee code or email already in use")
)
