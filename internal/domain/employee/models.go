package employee

import "time"

type Allowances struct {
	HRA       float64 `json:"hra"`
	Transport float64 `json:"transport"`
	Medical   float64 `json:"medical"`
	Other     float64 `json:"other"`
}

type Deductions struct {
	Tax           float64 `json:"tax"`
	ProvidentFund float64 `json:"providentFund"`
	Other         float64 `json:"other"`
}

type SalaryStructure struct {
	Basic      float64    `json:"basic"`
	Allowances Allowances `json:"allowances"`
	Deductions Deductions `json:"deductions"`
}

type LeaveBalance struct {
	Casual float64 `json:"casual"`
	Sick   float64 `json:"sick"`
	Annual float64 `json:"annual"`
}

type Employee struct {
	ID           string          `json:"id"`
	EmployeeCode string          `json:"employeeCode"`
	Email        string          `json:"email"`
	FirstName    string          `json:"firstName"`
	LastName     string          `json:"lastName"`
	Phone        string          `json:"phone,omitempty"`
	Role         string          `json:"role"`
	Department   string          `json:"department"`
	Position     string          `json:"position"`
	JoiningDate  time.Time       `json:"joiningDate"`
	ManagerID    string          `json:"managerId,omitempty"`
	Salary       SalaryStructure `json:"salary"`
	LeaveBalance LeaveBalance    `json:"leaveBalance"`
	IsActive     bool            `json:"isActive"`
	CreatedAt    time.Time       `json:"createdAt"`
}

type CreateInput struct {
	EmployeeCode string
	Email        string
	Password     string
	FirstName    string
	LastName     string
	Phone        string
	Role         string
	Department   string
	Position     string
	JoiningDate  time.Time
	ManagerID    string
	Salary       SalaryStructure
}

type UpdateInput struct {
	FirstName  string
	LastName   string
	Phone      string
	Role       string
	Department string
	Position   string
	ManagerID  string
	Salary     SalaryStructure
	IsActive   bool
}
