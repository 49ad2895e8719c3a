package payroll

import "context"

type Service struct {
	store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

// Generate creates payslips for the period, for all active employees or a
// single one. Employees who already have a payslip for the period are
// reported in Skipped; their existing payslips are never overwritten, so a
// repeated run is a no-op. Payslips are marked paid at generation time;
// there is no separate disbursement step.
func (s *Service) Generate(ctx context.Context, period Period, employeeID string) (Result, error) {
	if !period.Valid() {
		return Result{}, ErrInvalidPeriod
	}

	targets, err := s.store.Targets(ctx, employeeID)
	if err != nil {
		return Result{}, err
	}

	result := Result{Generated: []Payslip{}}
	for _, target := range targets {
		gross, _, net := Compute(target.Salary)
		payslip := Payslip{
			EmployeeID:  target.EmployeeID,
			Month:       period.Month,
			Year:        period.Year,
			BasicSalary: target.Salary.Basic,
			Allowances:  target.Salary.Allowances,
			Deductions:  target.Salary.Deductions,
			GrossSalary: gross,
			NetSalary:   net,
			Status:      StatusPaid,
		}
		created, inserted, err := s.store.InsertPayslip(ctx, payslip)
		if err != nil {
			return Result{}, err
		}
		if !inserted {
			result.Skipped++
			continue
		}
		result.Generated = append(result.Generated, created)
	}
	return result, nil
}

func (s *Service) Get(ctx context.Context, id string) (Payslip, error) {
	return s.store.GetPayslip(ctx, id)
}

func (s *Service) List(ctx context.Context, employeeID string, period *Period, limit, offset int) ([]Payslip, error) {
	return s.store.List(ctx, employeeID, period, limit, offset)
}
