package payroll

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const payslipColumns = `
  id, employee_id, month, year, basic_salary,
  allowance_hra, allowance_transport, allowance_medical, allowance_other,
  deduction_tax, deduction_pf, deduction_other,
  gross_salary, net_salary, status, paid_date, file_path, created_at
`

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) Targets(ctx context.Context, employeeID string) ([]Target, error) {
	query := `
    SELECT id, salary_basic, allowance_hra, allowance_transport, allowance_medical, allowance_other,
           deduction_tax, deduction_pf, deduction_other
    FROM employees
  `
	args := []any{}
	if employeeID != "" {
		query += " WHERE id = $1"
		args = append(args, employeeID)
	} else {
		query += " WHERE is_active = true"
	}

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Target
	for rows.Next() {
		var t Target
		if err := rows.Scan(&t.EmployeeID, &t.Salary.Basic,
			&t.Salary.Allowances.HRA, &t.Salary.Allowances.Transport,
			&t.Salary.Allowances.Medical, &t.Salary.Allowances.Other,
			&t.Salary.Deductions.Tax, &t.Salary.Deductions.ProvidentFund,
			&t.Salary.Deductions.Other); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// InsertPayslip relies on the (employee_id, month, year) unique constraint:
// a conflicting insert returns no row and the existing payslip stays as is.
func (s *Store) InsertPayslip(ctx context.Context, payslip Payslip) (Payslip, bool, error) {
	row := s.DB.QueryRow(ctx, `
    INSERT INTO payslips (
      employee_id, month, year, basic_salary,
      allowance_hra, allowance_transport, allowance_medical, allowance_other,
      deduction_tax, deduction_pf, deduction_other,
      gross_salary, net_salary, status, paid_date
    )
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,now())
    ON CONFLICT (employee_id, month, year) DO NOTHING
    RETURNING `+payslipColumns+`
  `, payslip.EmployeeID, payslip.Month, payslip.Year, payslip.BasicSalary,
		payslip.Allowances.HRA, payslip.Allowances.Transport, payslip.Allowances.Medical, payslip.Allowances.Other,
		payslip.Deductions.Tax, payslip.Deductions.ProvidentFund, payslip.Deductions.Other,
		payslip.GrossSalary, payslip.NetSalary, payslip.Status)
	created, err := scanPayslip(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Payslip{}, false, nil
	}
	if err != nil {
		return Payslip{}, false, err
	}
	return created, true, nil
}

func (s *Store) GetPayslip(ctx context.Context, id string) (Payslip, error) {
	row := s.DB.QueryRow(ctx, "SELECT "+payslipColumns+" FROM payslips WHERE id = $1", id)
	payslip, err := scanPayslip(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Payslip{}, ErrNotFound
	}
	return payslip, err
}

func (s *Store) List(ctx context.Context, employeeID string, period *Period, limit, offset int) ([]Payslip, error) {
	query := "SELECT " + payslipColumns + " FROM payslips WHERE 1=1"
	args := []any{}
	if employeeID != "" {
		args = append(args, employeeID)
		query += fmt.Sprintf(" AND employee_id = $%d", len(args))
	}
	if period != nil {
		args = append(args, period.Month, period.Year)
		query += fmt.Sprintf(" AND month = $%d AND year = $%d", len(args)-1, len(args))
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY year DESC, month DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Payslip
	for rows.Next() {
		payslip, err := scanPayslip(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, payslip)
	}
	return out, rows.Err()
}

func (s *Store) UpdateFilePath(ctx context.Context, payslipID, filePath string) error {
	tag, err := s.DB.Exec(ctx, "UPDATE payslips SET file_path = $2 WHERE id = $1", payslipID, filePath)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) PDFData(ctx context.Context, payslipID string) (PDFData, error) {
	var data PDFData
	err := s.DB.QueryRow(ctx, `
    SELECT e.first_name, e.last_name, e.email, e.employee_code, e.department, e."position",
           p.month, p.year, p.basic_salary,
           p.allowance_hra, p.allowance_transport, p.allowance_medical, p.allowance_other,
           p.deduction_tax, p.deduction_pf, p.deduction_other,
           p.gross_salary, p.net_salary
    FROM payslips p
    JOIN employees e ON p.employee_id = e.id
    WHERE p.id = $1
  `, payslipID).Scan(&data.FirstName, &data.LastName, &data.Email, &data.EmployeeCode,
		&data.Department, &data.Position, &data.Month, &data.Year, &data.BasicSalary,
		&data.Allowances.HRA, &data.Allowances.Transport, &data.Allowances.Medical, &data.Allowances.Other,
		&data.Deductions.Tax, &data.Deductions.ProvidentFund, &data.Deductions.Other,
		&data.GrossSalary, &data.NetSalary)
	if errors.Is(err, pgx.ErrNoRows) {
		return PDFData{}, ErrNotFound
	}
	return data, err
}

type row interface {
	Scan(dest ...any) error
}

func scanPayslip(r row) (Payslip, error) {
	var p Payslip
	err := r.Scan(&p.ID, &p.EmployeeID, &p.Month, &p.Year, &p.BasicSalary,
		&p.Allowances.HRA, &p.Allowances.Transport, &p.Allowances.Medical, &p.Allowances.Other,
		&p.Deductions.Tax, &p.Deductions.ProvidentFund, &p.Deductions.Other,
		&p.GrossSalary, &p.NetSalary, &p.Status, &p.PaidDate, &p.FilePath, &p.CreatedAt)
	return p, err
}
