package expense

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

const expenseColumns = `id, employee_id, amount, category, description, expense_date,
	coalesce(receipt_url, ''), status, coalesce(approved_by::text, ''), coalesce(rejection_reason, ''), created_at`

func (s *Store) Create(ctx context.Context, e Expense) (Expense, error) {
	query := `INSERT INTO expenses (employee_id, amount, category, description, expense_date, receipt_url, status)
		VALUES ($1, $2, $3, $4, $5, nullif($6, ''), $7)
		RETURNING ` + expenseColumns

	row := s.db.QueryRow(ctx, query, e.EmployeeID, e.Amount, e.Category, e.Description, e.Date, e.ReceiptURL, StatusPending)
	return scanExpense(row)
}

func (s *Store) Get(ctx context.Context, id string) (Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE id = $1`

	e, err := scanExpense(s.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Expense{}, ErrNotFound
	}
	return e, err
}

type Filter struct {
	EmployeeID string
	Status     string
	Category   string
}

func (s *Store) List(ctx context.Context, f Filter) ([]Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses
		WHERE ($1 = '' OR employee_id::text = $1)
		  AND ($2 = '' OR status = $2)
		  AND ($3 = '' OR category = $3)
		ORDER BY expense_date DESC, created_at DESC`

	rows, err := s.db.Query(ctx, query, f.EmployeeID, f.Status, f.Category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

type UpdateInput struct {
	Amount      *float64
	Category    *string
	Description *string
	Date        *time.Time
	ReceiptURL  *string
}

func (s *Store) Update(ctx context.Context, id string, in UpdateInput) (Expense, error) {
	query := `UPDATE expenses SET
			amount = coalesce($2, amount),
			category = coalesce($3, category),
			description = coalesce($4, description),
			expense_date = coalesce($5, expense_date),
			receipt_url = coalesce($6, receipt_url)
		WHERE id = $1
		RETURNING ` + expenseColumns

	e, err := scanExpense(s.db.QueryRow(ctx, query, id, in.Amount, in.Category, in.Description, in.Date, in.ReceiptURL))
	if errors.Is(err, pgx.ErrNoRows) {
		return Expense{}, ErrNotFound
	}
	return e, err
}

func (s *Store) SetStatus(ctx context.Context, id, status, reviewerID, reason string) (Expense, error) {
	query := `UPDATE expenses SET
			status = $2,
			approved_by = $3,
			rejection_reason = nullif($4, '')
		WHERE id = $1
		RETURNING ` + expenseColumns

	e, err := scanExpense(s.db.QueryRow(ctx, query, id, status, reviewerID, reason))
	if errors.Is(err, pgx.ErrNoRows) {
		return Expense{}, ErrNotFound
	}
	return e, err
}

func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

type row interface {
	Scan(dest ...any) error
}

func scanExpense(r row) (Expense, error) {
	var e Expense
	err := r.Scan(&e.ID, &e.EmployeeID, &e.Amount, &e.Category, &e.Description, &e.Date,
		&e.ReceiptURL, &e.Status, &e.ApprovedBy, &e.RejectionReason, &e.CreatedAt)
	return e, err
}
