package payroll

import (
	"time"

	"ems/internal/domain/employee"
)

const (
	StatusGenerated = "generated"
	StatusPaid      = "paid"
)

type Payslip struct {
	ID          string              `json:"id"`
	EmployeeID  string              `json:"employeeId"`
	Month       int                 `json:"month"`
	Year        int                 `json:"year"`
	BasicSalary float64             `json:"basicSalary"`
	Allowances  employee.Allowances `json:"allowances"`
	Deductions  employee.Deductions `json:"deductions"`
	GrossSalary float64             `json:"grossSalary"`
	NetSalary   float64             `json:"netSalary"`
	Status      string              `json:"status"`
	PaidDate    *time.Time          `json:"paidDate,omitempty"`
	FilePath    string              `json:"-"`
	CreatedAt   time.Time           `json:"createdAt"`
}

// Period identifies one payroll cycle.
type Period struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

func (p Period) Valid() bool {
	return p.Month >= 1 && p.Month <= 12 && p.Year >= 2000 && p.Year <= 2100
}

// Target is the slice of an employee record payroll generation reads.
type Target struct {
	EmployeeID string
	Salary     employee.SalaryStructure
}

// Result reports one generation run. Skipped counts employees whose payslip
// for the period already existed.
type Result struct {
	Generated []Payslip `json:"generated"`
	Skipped   int       `json:"skipped"`
}
