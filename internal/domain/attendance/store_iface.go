package attendance

import (
	"context"
	"time"
)

type StoreAPI interface {
	// CreateLog inserts a new day log. ErrAlreadyClockedIn when a log for the
	// same employee and day exists.
	CreateLog(ctx context.Context, log TimeLog) (TimeLog, error)
	// FindForDay returns the employee's log for the given day or ErrNoLog.
	FindForDay(ctx context.Context, employeeID string, day time.Time) (TimeLog, error)
	// CloseLog sets clock-out fields and locks the log. ErrAlreadyClockedOut
	// when the log is already locked.
	CloseLog(ctx context.Context, logID string, clockOut time.Time, totalHours float64, notes string) (TimeLog, error)
	List(ctx context.Context, employeeID string, day *time.Time, limit, offset int) ([]TimeLog, error)
}
