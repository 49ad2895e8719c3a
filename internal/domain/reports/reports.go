package reports

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Overview feeds the admin/manager dashboard.
type Overview struct {
	Headcount        int            `json:"headcount"`
	PresentToday     int            `json:"presentToday"`
	LateToday        int            `json:"lateToday"`
	PendingLeaves    int            `json:"pendingLeaves"`
	PendingExpenses  int            `json:"pendingExpenses"`
	ProjectsByStatus map[string]int `json:"projectsByStatus"`
	TasksByStatus    map[string]int `json:"tasksByStatus"`
}

// Personal feeds the employee dashboard.
type Personal struct {
	ClockedInToday  bool    `json:"clockedInToday"`
	HoursThisMonth  float64 `json:"hoursThisMonth"`
	PendingLeaves   int     `json:"pendingLeaves"`
	PendingExpenses int     `json:"pendingExpenses"`
	OpenTasks       int     `json:"openTasks"`
	UnreadMessages  int     `json:"unreadMessages"`
}

type Service struct {
	DB *pgxpool.Pool
}

func New(db *pgxpool.Pool) *Service {
	return &Service{DB: db}
}

func (s *Service) Overview(ctx context.Context, day time.Time) (Overview, error) {
	out := Overview{
		ProjectsByStatus: map[string]int{},
		TasksByStatus:    map[string]int{},
	}
	date := day.Format("2006-01-02")

	query := `SELECT
		(SELECT COUNT(1) FROM employees WHERE is_active = true),
		(SELECT COUNT(1) FROM time_logs WHERE log_date = $1),
		(SELECT COUNT(1) FROM time_logs WHERE log_date = $1 AND status = 'late'),
		(SELECT COUNT(1) FROM leaves WHERE status = 'pending'),
		(SELECT COUNT(1) FROM expenses WHERE status = 'pending')`

	err := s.DB.QueryRow(ctx, query, date).Scan(
		&out.Headcount, &out.PresentToday, &out.LateToday, &out.PendingLeaves, &out.PendingExpenses)
	if err != nil {
		return Overview{}, err
	}

	if out.ProjectsByStatus, err = s.countByStatus(ctx, "projects"); err != nil {
		return Overview{}, err
	}
	if out.TasksByStatus, err = s.countByStatus(ctx, "tasks"); err != nil {
		return Overview{}, err
	}
	return out, nil
}

func (s *Service) Personal(ctx context.Context, employeeID string, day time.Time) (Personal, error) {
	var out Personal
	date := day.Format("2006-01-02")
	monthStart := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC).Format("2006-01-02")

	query := `SELECT
		EXISTS (SELECT 1 FROM time_logs WHERE employee_id::text = $1 AND log_date = $2),
		coalesce((SELECT SUM(total_hours) FROM time_logs WHERE employee_id::text = $1 AND log_date >= $3), 0),
		(SELECT COUNT(1) FROM leaves WHERE employee_id::text = $1 AND status = 'pending'),
		(SELECT COUNT(1) FROM expenses WHERE employee_id::text = $1 AND status = 'pending'),
		(SELECT COUNT(1) FROM tasks t JOIN task_assignees ta ON ta.task_id = t.id
			WHERE ta.employee_id::text = $1 AND t.status <> 'done'),
		(SELECT COUNT(1) FROM notifications WHERE recipient_id::text = $1 AND is_read = false)`

	err := s.DB.QueryRow(ctx, query, employeeID, date, monthStart).Scan(
		&out.ClockedInToday, &out.HoursThisMonth, &out.PendingLeaves,
		&out.PendingExpenses, &out.OpenTasks, &out.UnreadMessages)
	if err != nil {
		return Personal{}, err
	}
	return out, nil
}

// countByStatus groups one of the status-bearing tables. The table name is
// fixed by the caller, never user input.
func (s *Service) countByStatus(ctx context.Context, table string) (map[string]int, error) {
	rows, err := s.DB.Query(ctx, `SELECT status, COUNT(1) FROM `+table+` GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]int{}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		out[status] = count
	}
	return out, rows.Err()
}
