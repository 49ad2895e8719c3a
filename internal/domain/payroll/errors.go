package payroll

import "errors"

var (
	ErrInvalidPeriod = errors.New("invalid pay period")
	ErrNotFound      = errors.New("payslip not found")
)
