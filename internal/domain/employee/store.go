package employee

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const employeeColumns = `
  id, employee_code, email, first_name, last_name, phone, role, department, "position",
  joining_date, COALESCE(manager_id::text, ''),
  salary_basic, allowance_hra, allowance_transport, allowance_medical, allowance_other,
  deduction_tax, deduction_pf, deduction_other,
  balance_casual, balance_sick, balance_annual,
  is_active, created_at
`

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) Create(ctx context.Context, passwordHash string, input CreateInput) (string, error) {
	var managerID any
	if input.ManagerID != "" {
		managerID = input.ManagerID
	}
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO employees (
      employee_code, email, password_hash, first_name, last_name, phone, role, department, "position",
      joining_date, manager_id,
      salary_basic, allowance_hra, allowance_transport, allowance_medical, allowance_other,
      deduction_tax, deduction_pf, deduction_other
    )
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
    RETURNING id
  `, input.EmployeeCode, input.Email, passwordHash, input.FirstName, input.LastName, input.Phone,
		input.Role, input.Department, input.Position, input.JoiningDate, managerID,
		input.Salary.Basic, input.Salary.Allowances.HRA, input.Salary.Allowances.Transport,
		input.Salary.Allowances.Medical, input.Salary.Allowances.Other,
		input.Salary.Deductions.Tax, input.Salary.Deductions.ProvidentFund, input.Salary.Deductions.Other,
	).Scan(&id)
	if isUniqueViolation(err) {
		return "", ErrDuplicate
	}
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) Get(ctx context.Context, id string) (Employee, error) {
	row := s.DB.QueryRow(ctx, "SELECT "+employeeColumns+" FROM employees WHERE id = $1", id)
	emp, err := scanEmployee(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, ErrNotFound
	}
	return emp, err
}

// List returns employees, optionally filtered by department or manager, most
// recently created first.
func (s *Store) List(ctx context.Context, department, managerID string, activeOnly bool, limit, offset int) ([]Employee, error) {
	query := "SELECT " + employeeColumns + " FROM employees WHERE 1=1"
	args := []any{}
	if department != "" {
		args = append(args, department)
		query += fmt.Sprintf(" AND department = $%d", len(args))
	}
	if managerID != "" {
		args = append(args, managerID)
		query += fmt.Sprintf(" AND manager_id = $%d", len(args))
	}
	if activeOnly {
		query += " AND is_active = true"
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, emp)
	}
	return out, rows.Err()
}

func (s *Store) Update(ctx context.Context, id string, input UpdateInput) error {
	var managerID any
	if input.ManagerID != "" {
		managerID = input.ManagerID
	}
	tag, err := s.DB.Exec(ctx, `
    UPDATE employees SET
      first_name = $1, last_name = $2, phone = $3, role = $4, department = $5, "position" = $6,
      manager_id = $7,
      salary_basic = $8, allowance_hra = $9, allowance_transport = $10, allowance_medical = $11,
      allowance_other = $12, deduction_tax = $13, deduction_pf = $14, deduction_other = $15,
      is_active = $16, updated_at = now()
    WHERE id = $17
  `, input.FirstName, input.LastName, input.Phone, input.Role, input.Department, input.Position,
		managerID,
		input.Salary.Basic, input.Salary.Allowances.HRA, input.Salary.Allowances.Transport,
		input.Salary.Allowances.Medical, input.Salary.Allowances.Other,
		input.Salary.Deductions.Tax, input.Salary.Deductions.ProvidentFund, input.Salary.Deductions.Other,
		input.IsActive, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Deactivate marks the employee inactive. Records are never deleted.
func (s *Store) Deactivate(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "UPDATE employees SET is_active = false, updated_at = now() WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) IsManagerOf(ctx context.Context, managerID, employeeID string) (bool, error) {
	var count int
	err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM employees WHERE id = $1 AND manager_id = $2", employeeID, managerID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

type row interface {
	Scan(dest ...any) error
}

func scanEmployee(r row) (Employee, error) {
	var emp Employee
	err := r.Scan(
		&emp.ID, &emp.EmployeeCode, &emp.Email, &emp.FirstName, &emp.LastName, &emp.Phone,
		&emp.Role, &emp.Department, &emp.Position, &emp.JoiningDate, &emp.ManagerID,
		&emp.Salary.Basic, &emp.Salary.Allowances.HRA, &emp.Salary.Allowances.Transport,
		&emp.Salary.Allowances.Medical, &emp.Salary.Allowances.Other,
		&emp.Salary.Deductions.Tax, &emp.Salary.Deductions.ProvidentFund, &emp.Salary.Deductions.Other,
		&emp.LeaveBalance.Casual, &emp.LeaveBalance.Sick, &emp.LeaveBalance.Annual,
		&emp.IsActive, &emp.CreatedAt,
	)
	return emp, err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
