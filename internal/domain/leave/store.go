package leave

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const leaveColumns = `
  id, employee_id, leave_type, start_date, end_date, number_of_days, reason, status,
  COALESCE(reviewed_by::text, ''), reviewed_at, review_comments, created_at
`

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) CreateLeave(ctx context.Context, leave Leave) (Leave, error) {
	row := s.DB.QueryRow(ctx, `
    INSERT INTO leaves (employee_id, leave_type, start_date, end_date, number_of_days, reason)
    VALUES ($1,$2,$3,$4,$5,$6)
    RETURNING `+leaveColumns+`
  `, leave.EmployeeID, leave.LeaveType, leave.StartDate, leave.EndDate, leave.NumberOfDays, leave.Reason)
	return scanLeave(row)
}

func (s *Store) GetLeave(ctx context.Context, id string) (Leave, error) {
	row := s.DB.QueryRow(ctx, "SELECT "+leaveColumns+" FROM leaves WHERE id = $1", id)
	leave, err := scanLeave(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Leave{}, ErrNotFound
	}
	return leave, err
}

func (s *Store) List(ctx context.Context, employeeID, status string, limit, offset int) ([]Leave, error) {
	query := "SELECT " + leaveColumns + " FROM leaves WHERE 1=1"
	args := []any{}
	if employeeID != "" {
		args = append(args, employeeID)
		query += fmt.Sprintf(" AND employee_id = $%d", len(args))
	}
	if status != "" {
		args = append(args, status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Leave
	for rows.Next() {
		leave, err := scanLeave(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, leave)
	}
	return out, rows.Err()
}

func (s *Store) BalanceForType(ctx context.Context, employeeID, leaveType string) (float64, error) {
	column, err := balanceColumn(leaveType)
	if err != nil {
		return 0, err
	}
	var balance float64
	err = s.DB.QueryRow(ctx, "SELECT "+column+" FROM employees WHERE id = $1", employeeID).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrNotFound
	}
	return balance, err
}

func (s *Store) Approve(ctx context.Context, leaveID, reviewerID, comments string) (Leave, error) {
	return s.review(ctx, leaveID, reviewerID, comments, StatusApproved)
}

func (s *Store) Reject(ctx context.Context, leaveID, reviewerID, comments string) (Leave, error) {
	return s.review(ctx, leaveID, reviewerID, comments, StatusRejected)
}

// review runs the full decision in one transaction. The request row is locked
// first, so concurrent reviews of the same request serialize; the balance
// deduction is a conditional update, so concurrent approvals for the same
// employee can never both pass the sufficiency check.
func (s *Store) review(ctx context.Context, leaveID, reviewerID, comments, decision string) (Leave, error) {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Leave{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var employeeID, leaveType, status string
	var days int
	err = tx.QueryRow(ctx, `
    SELECT employee_id, leave_type, number_of_days, status
    FROM leaves
    WHERE id = $1
    FOR UPDATE
  `, leaveID).Scan(&employeeID, &leaveType, &days, &status)
	if errors.Is(err, pgx.ErrNoRows) {
		return Leave{}, ErrNotFound
	}
	if err != nil {
		return Leave{}, err
	}
	if !CanTransition(status, decision) {
		return Leave{}, ErrNotPending
	}

	if decision == StatusApproved && Paid(leaveType) {
		column, err := balanceColumn(leaveType)
		if err != nil {
			return Leave{}, err
		}
		tag, err := tx.Exec(ctx,
			"UPDATE employees SET "+column+" = "+column+" - $1, updated_at = now() WHERE id = $2 AND "+column+" >= $1",
			days, employeeID)
		if err != nil {
			return Leave{}, err
		}
		if tag.RowsAffected() == 0 {
			return Leave{}, ErrInsufficientBalance
		}
	}

	row := tx.QueryRow(ctx, `
    UPDATE leaves
    SET status = $2, reviewed_by = $3, reviewed_at = now(), review_comments = $4, updated_at = now()
    WHERE id = $1
    RETURNING `+leaveColumns+`
  `, leaveID, decision, reviewerID, comments)
	leave, err := scanLeave(row)
	if err != nil {
		return Leave{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Leave{}, err
	}
	return leave, nil
}

func balanceColumn(leaveType string) (string, error) {
	switch leaveType {
	case TypeCasual:
		return "balance_casual", nil
	case TypeSick:
		return "balance_sick", nil
	case TypeAnnual:
		return "balance_annual", nil
	}
	return "", ErrInvalidType
}

type row interface {
	Scan(dest ...any) error
}

func scanLeave(r row) (Leave, error) {
	var leave Leave
	err := r.Scan(&leave.ID, &leave.EmployeeID, &leave.LeaveType, &leave.StartDate, &leave.EndDate,
		&leave.NumberOfDays, &leave.Reason, &leave.Status, &leave.ReviewedBy, &leave.ReviewedAt,
		&leave.ReviewComments, &leave.CreatedAt)
	return leave, err
}
