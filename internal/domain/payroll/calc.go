package payroll

import "ems/internal/domain/employee"

// Compute derives payslip totals from a salary structure. The amounts are a
// pure function of the structure at generation time; attendance and unpaid
// leave do not feed into the calculation.
func Compute(s employee.SalaryStructure) (gross, deductions, net float64) {
	gross = s.Basic + s.Allowances.HRA + s.Allowances.Transport + s.Allowances.Medical + s.Allowances.Other
	deductions = s.Deductions.Tax + s.Deductions.ProvidentFund + s.Deductions.Other
	net = gross - deductions
	return gross, deductions, net
}
