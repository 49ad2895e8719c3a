package attendance

import "time"

const (
	StatusPresent = "present"
	StatusLate    = "late"
	StatusHalfDay = "half-day"
	StatusAbsent  = "absent"
)

type TimeLog struct {
	ID         string     `json:"id"`
	EmployeeID string     `json:"employeeId"`
	Date       time.Time  `json:"date"`
	ClockIn    *time.Time `json:"clockIn,omitempty"`
	ClockOut   *time.Time `json:"clockOut,omitempty"`
	TotalHours float64    `json:"totalHours"`
	Status     string     `json:"status"`
	IsLocked   bool       `json:"isLocked"`
	LockedAt   *time.Time `json:"lockedAt,omitempty"`
	Notes      string     `json:"notes,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}
