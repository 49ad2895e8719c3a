package project

import "context"

type StoreAPI interface {
	CreateProject(ctx context.Context, p Project) (Project, error)
	GetProject(ctx context.Context, id string) (Project, error)
	ListProjects(ctx context.Context, status, memberID string) ([]Project, error)
	UpdateProject(ctx context.Context, id string, in ProjectUpdate) (Project, error)
	DeleteProject(ctx context.Context, id string) error

	CreateTask(ctx context.Context, t Task) (Task, error)
	GetTask(ctx context.Context, id string) (Task, error)
	ListTasks(ctx context.Context, projectID, status, assigneeID string) ([]Task, error)
	UpdateTask(ctx context.Context, id string, in TaskUpdate) (Task, error)
	MoveTask(ctx context.Context, id, status string) (Task, error)
	DeleteTask(ctx context.Context, id string) error
}

var _ StoreAPI = (*Store)(nil)
