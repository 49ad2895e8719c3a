package attendance

import "errors"

var (
	ErrAlreadyClockedIn  = errors.New("already clocked in for today")
	ErrNotClockedIn      = errors.New("must clock in first")
	ErrAlreadyClockedOut = errors.New("already clocked out for today")
	ErrNoLog             = errors.New("no time log for day")
)
