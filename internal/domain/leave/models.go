package leave

import "time"

const (
	TypeCasual = "casual"
	TypeSick   = "sick"
	TypeAnnual = "annual"
	TypeUnpaid = "unpaid"

	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"

	DecisionApprove = "approved"
	DecisionReject  = "rejected"
)

type Leave struct {
	ID             string     `json:"id"`
	EmployeeID     string     `json:"employeeId"`
	LeaveType      string     `json:"leaveType"`
	StartDate      time.Time  `json:"startDate"`
	EndDate        time.Time  `json:"endDate"`
	NumberOfDays   int        `json:"numberOfDays"`
	Reason         string     `json:"reason"`
	Status         string     `json:"status"`
	ReviewedBy     string     `json:"reviewedBy,omitempty"`
	ReviewedAt     *time.Time `json:"reviewedAt,omitempty"`
	ReviewComments string     `json:"reviewComments,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}

func ValidType(leaveType string) bool {
	switch leaveType {
	case TypeCasual, TypeSick, TypeAnnual, TypeUnpaid:
		return true
	}
	return false
}

// Paid reports whether the type draws down a balance counter.
func Paid(leaveType string) bool {
	return leaveType != TypeUnpaid
}
