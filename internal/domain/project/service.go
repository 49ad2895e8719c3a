package project

import (
	"context"
	"time"

	"ems/internal/domain/auth"
)

type Service struct {
	store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

type CreateProjectInput struct {
	Name        string
	Description string
	ManagerID   string
	StartDate   time.Time
	EndDate     *time.Time
	Priority    string
	MemberIDs   []string
}

func (s *Service) CreateProject(ctx context.Context, p auth.Principal, in CreateProjectInput) (Project, error) {
	if !auth.CanReview(p.Role) {
		return Project{}, ErrForbidden
	}
	if in.Priority == "" {
		in.Priority = PriorityMedium
	}
	if !ValidPriority(in.Priority) {
		return Project{}, ErrInvalidPriority
	}
	managerID := in.ManagerID
	if managerID == "" {
		managerID = p.UserID
	}
	return s.store.CreateProject(ctx, Project{
		Name:        in.Name,
		Description: in.Description,
		ManagerID:   managerID,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		Status:      ProjectActive,
		Priority:    in.Priority,
		MemberIDs:   in.MemberIDs,
	})
}

func (s *Service) GetProject(ctx context.Context, id string) (Project, error) {
	return s.store.GetProject(ctx, id)
}

func (s *Service) ListProjects(ctx context.Context, status, memberID string) ([]Project, error) {
	if status != "" && !ValidProjectStatus(status) {
		return nil, ErrInvalidStatus
	}
	return s.store.ListProjects(ctx, status, memberID)
}

func (s *Service) UpdateProject(ctx context.Context, id string, p auth.Principal, in ProjectUpdate) (Project, error) {
	if !auth.CanReview(p.Role) {
		return Project{}, ErrForbidden
	}
	if in.Status != nil && !ValidProjectStatus(*in.Status) {
		return Project{}, ErrInvalidStatus
	}
	if in.Priority != nil && !ValidPriority(*in.Priority) {
		return Project{}, ErrInvalidPriority
	}
	return s.store.UpdateProject(ctx, id, in)
}

func (s *Service) DeleteProject(ctx context.Context, id string, p auth.Principal) error {
	if !auth.CanReview(p.Role) {
		return ErrForbidden
	}
	return s.store.DeleteProject(ctx, id)
}

type CreateTaskInput struct {
	ProjectID   string
	Title       string
	Description string
	Priority    string
	DueDate     *time.Time
	AssigneeIDs []string
}

func (s *Service) CreateTask(ctx context.Context, creatorID string, in CreateTaskInput) (Task, error) {
	if in.Priority == "" {
		in.Priority = PriorityMedium
	}
	if !ValidPriority(in.Priority) {
		return Task{}, ErrInvalidPriority
	}
	if _, err := s.store.GetProject(ctx, in.ProjectID); err != nil {
		return Task{}, err
	}
	return s.store.CreateTask(ctx, Task{
		ProjectID:   in.ProjectID,
		Title:       in.Title,
		Description: in.Description,
		Status:      TaskTodo,
		Priority:    in.Priority,
		DueDate:     in.DueDate,
		CreatedBy:   creatorID,
		AssigneeIDs: in.AssigneeIDs,
	})
}

func (s *Service) GetTask(ctx context.Context, id string) (Task, error) {
	return s.store.GetTask(ctx, id)
}

func (s *Service) ListTasks(ctx context.Context, projectID, status, assigneeID string) ([]Task, error) {
	if status != "" && !ValidTaskStatus(status) {
		return nil, ErrInvalidStatus
	}
	return s.store.ListTasks(ctx, projectID, status, assigneeID)
}

func (s *Service) UpdateTask(ctx context.Context, id string, in TaskUpdate) (Task, error) {
	if in.Status != nil && !ValidTaskStatus(*in.Status) {
		return Task{}, ErrInvalidStatus
	}
	if in.Priority != nil && !ValidPriority(*in.Priority) {
		return Task{}, ErrInvalidPriority
	}
	return s.store.UpdateTask(ctx, id, in)
}

// MoveTask places the task in any column of the board. The only check is that
// the status is a known enum value.
func (s *Service) MoveTask(ctx context.Context, id, status string) (Task, error) {
	if !ValidTaskStatus(status) {
		return Task{}, ErrInvalidStatus
	}
	return s.store.MoveTask(ctx, id, status)
}

func (s *Service) DeleteTask(ctx context.Context, id string, p auth.Principal) error {
	if !auth.CanReview(p.Role) {
		return ErrForbidden
	}
	return s.store.DeleteTask(ctx, id)
}
