package expense

import "time"

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"

	CategoryTravel        = "travel"
	CategoryFood          = "food"
	CategoryAccommodation = "accommodation"
	CategorySupplies      = "supplies"
	CategoryOther         = "other"
)

type Expense struct {
	ID              string    `json:"id"`
	EmployeeID      string    `json:"employeeId"`
	Amount          float64   `json:"amount"`
	Category        string    `json:"category"`
	Description     string    `json:"description"`
	Date            time.Time `json:"date"`
	ReceiptURL      string    `json:"receiptUrl,omitempty"`
	Status          string    `json:"status"`
	ApprovedBy      string    `json:"approvedBy,omitempty"`
	RejectionReason string    `json:"rejectionReason,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

func ValidCategory(category string) bool {
	switch category {
	case CategoryTravel, CategoryFood, CategoryAccommodation, CategorySupplies, CategoryOther:
		return true
	}
	return false
}

func ValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}
