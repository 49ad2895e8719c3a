package attendance

import (
	"context"
	"time"
)

// Service implements clock-in/clock-out. Day uniqueness is enforced by the
// store's (employee, day) constraint, so concurrent clock-ins cannot create
// duplicate logs.
type Service struct {
	store    StoreAPI
	lateHour int
}

func NewService(store StoreAPI, lateHour int) *Service {
	return &Service{store: store, lateHour: lateHour}
}

func (s *Service) ClockIn(ctx context.Context, employeeID string, ts time.Time, notes string) (TimeLog, error) {
	return s.store.CreateLog(ctx, TimeLog{
		EmployeeID: employeeID,
		Date:       DayOf(ts),
		ClockIn:    &ts,
		Status:     StatusForClockIn(ts, s.lateHour),
		Notes:      notes,
	})
}

func (s *Service) ClockOut(ctx context.Context, employeeID string, ts time.Time, notes string) (TimeLog, error) {
	log, err := s.store.FindForDay(ctx, employeeID, DayOf(ts))
	if err == ErrNoLog {
		return TimeLog{}, ErrNotClockedIn
	}
	if err != nil {
		return TimeLog{}, err
	}
	if log.IsLocked || log.ClockOut != nil {
		return TimeLog{}, ErrAlreadyClockedOut
	}

	var total float64
	if log.ClockIn != nil {
		total = TotalHours(*log.ClockIn, ts)
	}
	return s.store.CloseLog(ctx, log.ID, ts, total, notes)
}

func (s *Service) Logs(ctx context.Context, employeeID string, day *time.Time, limit, offset int) ([]TimeLog, error) {
	return s.store.List(ctx, employeeID, day, limit, offset)
}
