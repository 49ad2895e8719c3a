package leave

import "errors"

var (
	ErrInvalidRange        = errors.New("leave range contains no business days")
	ErrInvalidType         = errors.New("unknown leave type")
	ErrInvalidDecision     = errors.New("decision must be approved or rejected")
	ErrInsufficientBalance = errors.New("insufficient leave balance")
	ErrNotFound            = errors.New("leave request not found")
	ErrNotPending          = errors.New("leave request is not pending")
)
