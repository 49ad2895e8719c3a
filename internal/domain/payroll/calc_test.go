package payroll

import (
	"testing"

	"ems/internal/domain/employee"
)

func TestCompute(t *testing.T) {
	salary := employee.SalaryStructure{
		Basic: 45000,
		Allowances: employee.Allowances{
			HRA:       11000,
			Transport: 3000,
			Medical:   2000,
			Other:     1000,
		},
		Deductions: employee.Deductions{
			Tax:           8000,
			ProvidentFund: 4500,
			Other:         0,
		},
	}

	gross, deductions, net := Compute(salary)
	if gross != 62000 {
		t.Fatalf("expected gross 62000, got %v", gross)
	}
	if deductions != 12500 {
		t.Fatalf("expected deductions 12500, got %v", deductions)
	}
	if net != 49500 {
		t.Fatalf("expected net 49500, got %v", net)
	}
}

func TestComputeZeroStructure(t *testing.T) {
	gross, deductions, net := Compute(employee.SalaryStructure{})
	if gross != 0 || deductions != 0 || net != 0 {
		t.Fatalf("expected zeros, got %v/%v/%v", gross, deductions, net)
	}
}

func TestComputeDeductionsExceedGross(t *testing.T) {
	salary := employee.SalaryStructure{
		Basic:      1000,
		Deductions: employee.Deductions{Tax: 1500},
	}
	_, _, net := Compute(salary)
	if net != -500 {
		t.Fatalf("expected net -500, got %v", net)
	}
}
