package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const logColumns = "id, employee_id, log_date, clock_in, clock_out, total_hours, status, is_locked, locked_at, notes, created_at"

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) CreateLog(ctx context.Context, log TimeLog) (TimeLog, error) {
	row := s.DB.QueryRow(ctx, `
    INSERT INTO time_logs (employee_id, log_date, clock_in, status, notes)
    VALUES ($1,$2,$3,$4,$5)
    RETURNING `+logColumns+`
  `, log.EmployeeID, log.Date, log.ClockIn, log.Status, log.Notes)
	created, err := scanLog(row)
	if isUniqueViolation(err) {
		return TimeLog{}, ErrAlreadyClockedIn
	}
	if err != nil {
		return TimeLog{}, err
	}
	return created, nil
}

func (s *Store) FindForDay(ctx context.Context, employeeID string, day time.Time) (TimeLog, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT `+logColumns+`
    FROM time_logs
    WHERE employee_id = $1 AND log_date = $2
  `, employeeID, day)
	log, err := scanLog(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return TimeLog{}, ErrNoLog
	}
	return log, err
}

func (s *Store) CloseLog(ctx context.Context, logID string, clockOut time.Time, totalHours float64, notes string) (TimeLog, error) {
	query := `
    UPDATE time_logs
    SET clock_out = $2, total_hours = $3, is_locked = true, locked_at = $2, updated_at = now()
  `
	args := []any{logID, clockOut, totalHours}
	if notes != "" {
		query += ", notes = $4"
		args = append(args, notes)
	}
	query += " WHERE id = $1 AND is_locked = false RETURNING " + logColumns

	row := s.DB.QueryRow(ctx, query, args...)
	log, err := scanLog(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return TimeLog{}, ErrAlreadyClockedOut
	}
	return log, err
}

func (s *Store) List(ctx context.Context, employeeID string, day *time.Time, limit, offset int) ([]TimeLog, error) {
	query := "SELECT " + logColumns + " FROM time_logs WHERE 1=1"
	args := []any{}
	if employeeID != "" {
		args = append(args, employeeID)
		query += fmt.Sprintf(" AND employee_id = $%d", len(args))
	}
	if day != nil {
		args = append(args, *day)
		query += fmt.Sprintf(" AND log_date = $%d", len(args))
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY log_date DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TimeLog
	for rows.Next() {
		log, err := scanLog(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, log)
	}
	return out, rows.Err()
}

type row interface {
	Scan(dest ...any) error
}

func scanLog(r row) (TimeLog, error) {
	var log TimeLog
	err := r.Scan(&log.ID, &log.EmployeeID, &log.Date, &log.ClockIn, &log.ClockOut,
		&log.TotalHours, &log.Status, &log.IsLocked, &log.LockedAt, &log.Notes, &log.CreatedAt)
	return log, err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
