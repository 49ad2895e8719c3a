package payroll

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"ems/internal/domain/employee"
)

type fakeStore struct {
	mu       sync.Mutex
	seq      int
	targets  []Target
	payslips map[string]Payslip // keyed by employeeID|month|year
}

func newFakeStore(targets ...Target) *fakeStore {
	return &fakeStore{targets: targets, payslips: map[string]Payslip{}}
}

func periodKey(employeeID string, month, year int) string {
	return fmt.Sprintf("%s|%d|%d", employeeID, month, year)
}

func (f *fakeStore) Targets(_ context.Context, employeeID string) ([]Target, error) {
	if employeeID == "" {
		return f.targets, nil
	}
	for _, t := range f.targets {
		if t.EmployeeID == employeeID {
			return []Target{t}, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) InsertPayslip(_ context.Context, payslip Payslip) (Payslip, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := periodKey(payslip.EmployeeID, payslip.Month, payslip.Year)
	if _, exists := f.payslips[k]; exists {
		return Payslip{}, false, nil
	}
	f.seq++
	payslip.ID = fmt.Sprintf("slip-%d", f.seq)
	f.payslips[k] = payslip
	return payslip, true, nil
}

func (f *fakeStore) GetPayslip(_ context.Context, id string) (Payslip, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.payslips {
		if p.ID == id {
			return p, nil
		}
	}
	return Payslip{}, ErrNotFound
}

func (f *fakeStore) List(_ context.Context, employeeID string, period *Period, limit, offset int) ([]Payslip, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Payslip
	for _, p := range f.payslips {
		if employeeID != "" && p.EmployeeID != employeeID {
			continue
		}
		if period != nil && (p.Month != period.Month || p.Year != period.Year) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeStore) UpdateFilePath(_ context.Context, payslipID, filePath string) error {
	return nil
}

func (f *fakeStore) PDFData(_ context.Context, payslipID string) (PDFData, error) {
	return PDFData{}, ErrNotFound
}

func sampleSalary() employee.SalaryStructure {
	return employee.SalaryStructure{
		Basic:      45000,
		Allowances: employee.Allowances{HRA: 11000, Transport: 3000, Medical: 2000, Other: 1000},
		Deductions: employee.Deductions{Tax: 8000, ProvidentFund: 4500},
	}
}

func TestGenerateForAllActive(t *testing.T) {
	store := newFakeStore(
		Target{EmployeeID: "emp-1", Salary: sampleSalary()},
		Target{EmployeeID: "emp-2", Salary: employee.SalaryStructure{Basic: 30000}},
	)
	svc := NewService(store)

	result, err := svc.Generate(context.Background(), Period{Month: 3, Year: 2025}, "")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if len(result.Generated) != 2 || result.Skipped != 0 {
		t.Fatalf("expected 2 generated / 0 skipped, got %d/%d", len(result.Generated), result.Skipped)
	}
	for _, p := range result.Generated {
		if p.Status != StatusPaid {
			t.Fatalf("expected status paid, got %s", p.Status)
		}
	}
}

func TestGenerateComputesTotals(t *testing.T) {
	store := newFakeStore(Target{EmployeeID: "emp-1", Salary: sampleSalary()})
	svc := NewService(store)

	result, err := svc.Generate(context.Background(), Period{Month: 3, Year: 2025}, "emp-1")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if len(result.Generated) != 1 {
		t.Fatalf("expected one payslip, got %d", len(result.Generated))
	}
	p := result.Generated[0]
	if p.GrossSalary != 62000 {
		t.Fatalf("expected gross 62000, got %v", p.GrossSalary)
	}
	if p.NetSalary != 49500 {
		t.Fatalf("expected net 49500, got %v", p.NetSalary)
	}
}

func TestGenerateTwiceIsIdempotent(t *testing.T) {
	store := newFakeStore(Target{EmployeeID: "emp-1", Salary: sampleSalary()})
	svc := NewService(store)
	ctx := context.Background()
	period := Period{Month: 3, Year: 2025}

	first, err := svc.Generate(ctx, period, "emp-1")
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	if len(first.Generated) != 1 || first.Skipped != 0 {
		t.Fatalf("unexpected first run: %+v", first)
	}

	second, err := svc.Generate(ctx, period, "emp-1")
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if len(second.Generated) != 0 || second.Skipped != 1 {
		t.Fatalf("expected second run skipped, got %+v", second)
	}

	slips, _ := svc.List(ctx, "emp-1", &period, 10, 0)
	if len(slips) != 1 {
		t.Fatalf("expected exactly one payslip, got %d", len(slips))
	}
}

func TestGenerateDifferentPeriodsCoexist(t *testing.T) {
	store := newFakeStore(Target{EmployeeID: "emp-1", Salary: sampleSalary()})
	svc := NewService(store)
	ctx := context.Background()

	if _, err := svc.Generate(ctx, Period{Month: 3, Year: 2025}, "emp-1"); err != nil {
		t.Fatalf("march failed: %v", err)
	}
	result, err := svc.Generate(ctx, Period{Month: 4, Year: 2025}, "emp-1")
	if err != nil {
		t.Fatalf("april failed: %v", err)
	}
	if len(result.Generated) != 1 {
		t.Fatalf("expected april payslip, got %+v", result)
	}
}

func TestGenerateInvalidPeriod(t *testing.T) {
	svc := NewService(newFakeStore())
	for _, period := range []Period{{Month: 0, Year: 2025}, {Month: 13, Year: 2025}, {Month: 3, Year: 1890}} {
		if _, err := svc.Generate(context.Background(), period, ""); err != ErrInvalidPeriod {
			t.Fatalf("expected ErrInvalidPeriod for %+v, got %v", period, err)
		}
	}
}

func TestGenerateConcurrentRunsProduceOnePayslip(t *testing.T) {
	store := newFakeStore(Target{EmployeeID: "emp-1", Salary: sampleSalary()})
	svc := NewService(store)
	period := Period{Month: 3, Year: 2025}

	var wg sync.WaitGroup
	results := make([]Result, 4)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = svc.Generate(context.Background(), period, "emp-1")
		}(i)
	}
	wg.Wait()

	generated := 0
	for _, r := range results {
		generated += len(r.Generated)
	}
	if generated != 1 {
		t.Fatalf("expected exactly one payslip across runs, got %d", generated)
	}
}
