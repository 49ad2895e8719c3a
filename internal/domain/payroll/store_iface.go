package payroll

import "context"

type StoreAPI interface {
	// Targets returns the employees in scope for a generation run: all active
	// employees, or just the named one.
	Targets(ctx context.Context, employeeID string) ([]Target, error)
	// InsertPayslip inserts idempotently on (employee, month, year). created
	// is false when a payslip for the period already existed; the existing
	// record is not modified.
	InsertPayslip(ctx context.Context, payslip Payslip) (Payslip, bool, error)
	GetPayslip(ctx context.Context, id string) (Payslip, error)
	List(ctx context.Context, employeeID string, period *Period, limit, offset int) ([]Payslip, error)
	UpdateFilePath(ctx context.Context, payslipID, filePath string) error
	PDFData(ctx context.Context, payslipID string) (PDFData, error)
}
