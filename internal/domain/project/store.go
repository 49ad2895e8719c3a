package project

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

const projectColumns = `id, name, description, manager_id, start_date, end_date, status, priority, created_at, updated_at`

func (s *Store) CreateProject(ctx context.Context, p Project) (Project, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return Project{}, err
	}
	defer tx.Rollback(ctx)

	query := `INSERT INTO projects (name, description, manager_id, start_date, end_date, status, priority)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + projectColumns

	created, err := scanProject(tx.QueryRow(ctx, query, p.Name, p.Description, p.ManagerID, p.StartDate, p.EndDate, p.Status, p.Priority))
	if err != nil {
		return Project{}, err
	}
	for _, memberID := range p.MemberIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO project_members (project_id, employee_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			created.ID, memberID); err != nil {
			return Project{}, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return Project{}, err
	}
	created.MemberIDs = p.MemberIDs
	return created, nil
}

func (s *Store) GetProject(ctx context.Context, id string) (Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`

	p, err := scanProject(s.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Project{}, ErrProjectNotFound
	}
	if err != nil {
		return Project{}, err
	}
	p.MemberIDs, err = s.memberIDs(ctx, id)
	return p, err
}

func (s *Store) ListProjects(ctx context.Context, status, memberID string) ([]Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects
		WHERE ($1 = '' OR status = $1)
		  AND ($2 = '' OR manager_id::text = $2 OR id IN (
			SELECT project_id FROM project_members WHERE employee_id::text = $2))
		ORDER BY created_at DESC`

	rows, err := s.db.Query(ctx, query, status, memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		out[i].MemberIDs, err = s.memberIDs(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

type ProjectUpdate struct {
	Name        *string
	Description *string
	EndDate     *time.Time
	Status      *string
	Priority    *string
	MemberIDs   []string
}

func (s *Store) UpdateProject(ctx context.Context, id string, in ProjectUpdate) (Project, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return Project{}, err
	}
	defer tx.Rollback(ctx)

	query := `UPDATE projects SET
			name = coalesce($2, name),
			description = coalesce($3, description),
			end_date = coalesce($4, end_date),
			status = coalesce($5, status),
			priority = coalesce($6, priority),
			updated_at = now()
		WHERE id = $1
		RETURNING ` + projectColumns

	p, err := scanProject(tx.QueryRow(ctx, query, id, in.Name, in.Description, in.EndDate, in.Status, in.Priority))
	if errors.Is(err, pgx.ErrNoRows) {
		return Project{}, ErrProjectNotFound
	}
	if err != nil {
		return Project{}, err
	}
	if in.MemberIDs != nil {
		if _, err := tx.Exec(ctx, `DELETE FROM project_members WHERE project_id = $1`, id); err != nil {
			return Project{}, err
		}
		for _, memberID := range in.MemberIDs {
			if _, err := tx.Exec(ctx,
				`INSERT INTO project_members (project_id, employee_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
				id, memberID); err != nil {
				return Project{}, err
			}
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return Project{}, err
	}
	p.MemberIDs, err = s.memberIDs(ctx, id)
	return p, err
}

// DeleteProject relies on ON DELETE CASCADE to remove the project's tasks and
// memberships in the same statement.
func (s *Store) DeleteProject(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProjectNotFound
	}
	return nil
}

func (s *Store) memberIDs(ctx context.Context, projectID string) ([]string, error) {
	rows, err := s.db.Query(ctx,
		`SELECT employee_id FROM project_members WHERE project_id = $1 ORDER BY employee_id`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

const taskColumns = `id, project_id, title, description, status, priority, due_date, created_by, created_at, updated_at`

func (s *Store) CreateTask(ctx context.Context, t Task) (Task, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return Task{}, err
	}
	defer tx.Rollback(ctx)

	query := `INSERT INTO tasks (project_id, title, description, status, priority, due_date, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + taskColumns

	created, err := scanTask(tx.QueryRow(ctx, query, t.ProjectID, t.Title, t.Description, t.Status, t.Priority, t.DueDate, t.CreatedBy))
	if err != nil {
		return Task{}, err
	}
	for _, assigneeID := range t.AssigneeIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO task_assignees (task_id, employee_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			created.ID, assigneeID); err != nil {
			return Task{}, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return Task{}, err
	}
	created.AssigneeIDs = t.AssigneeIDs
	return created, nil
}

func (s *Store) GetTask(ctx context.Context, id string) (Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	t, err := scanTask(s.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Task{}, ErrTaskNotFound
	}
	if err != nil {
		return Task{}, err
	}
	t.AssigneeIDs, err = s.assigneeIDs(ctx, id)
	return t, err
}

func (s *Store) ListTasks(ctx context.Context, projectID, status, assigneeID string) ([]Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks
		WHERE ($1 = '' OR project_id::text = $1)
		  AND ($2 = '' OR status = $2)
		  AND ($3 = '' OR id IN (SELECT task_id FROM task_assignees WHERE employee_id::text = $3))
		ORDER BY created_at DESC`

	rows, err := s.db.Query(ctx, query, projectID, status, assigneeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		out[i].AssigneeIDs, err = s.assigneeIDs(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

type TaskUpdate struct {
	Title       *string
	Description *string
	Status      *string
	Priority    *string
	DueDate     *time.Time
	AssigneeIDs []string
}

func (s *Store) UpdateTask(ctx context.Context, id string, in TaskUpdate) (Task, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return Task{}, err
	}
	defer tx.Rollback(ctx)

	query := `UPDATE tasks SET
			title = coalesce($2, title),
			description = coalesce($3, description),
			status = coalesce($4, status),
			priority = coalesce($5, priority),
			due_date = coalesce($6, due_date),
			updated_at = now()
		WHERE id = $1
		RETURNING ` + taskColumns

	t, err := scanTask(tx.QueryRow(ctx, query, id, in.Title, in.Description, in.Status, in.Priority, in.DueDate))
	if errors.Is(err, pgx.ErrNoRows) {
		return Task{}, ErrTaskNotFound
	}
	if err != nil {
		return Task{}, err
	}
	if in.AssigneeIDs != nil {
		if _, err := tx.Exec(ctx, `DELETE FROM task_assignees WHERE task_id = $1`, id); err != nil {
			return Task{}, err
		}
		for _, assigneeID := range in.AssigneeIDs {
			if _, err := tx.Exec(ctx,
				`INSERT INTO task_assignees (task_id, employee_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
				id, assigneeID); err != nil {
				return Task{}, err
			}
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return Task{}, err
	}
	t.AssigneeIDs, err = s.assigneeIDs(ctx, id)
	return t, err
}

func (s *Store) MoveTask(ctx context.Context, id, status string) (Task, error) {
	query := `UPDATE tasks SET status = $2, updated_at = now() WHERE id = $1
		RETURNING ` + taskColumns

	t, err := scanTask(s.db.QueryRow(ctx, query, id, status))
	if errors.Is(err, pgx.ErrNoRows) {
		return Task{}, ErrTaskNotFound
	}
	if err != nil {
		return Task{}, err
	}
	t.AssigneeIDs, err = s.assigneeIDs(ctx, id)
	return t, err
}

func (s *Store) DeleteTask(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTaskNotFound
	}
	return nil
}

func (s *Store) assigneeIDs(ctx context.Context, taskID string) ([]string, error) {
	rows, err := s.db.Query(ctx,
		`SELECT employee_id FROM task_assignees WHERE task_id = $1 ORDER BY employee_id`, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

type row interface {
	Scan(dest ...any) error
}

func scanProject(r row) (Project, error) {
	var p Project
	err := r.Scan(&p.ID, &p.Name, &p.Description, &p.ManagerID, &p.StartDate, &p.EndDate,
		&p.Status, &p.Priority, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func scanTask(r row) (Task, error) {
	var t Task
	err := r.Scan(&t.ID, &t.ProjectID, &t.Title, &t.Description, &t.Status, &t.Priority,
		&t.DueDate, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}
