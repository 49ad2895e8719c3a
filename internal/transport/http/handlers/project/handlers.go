package projecthandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"ems/internal/domain/activity"
	"ems/internal/domain/auth"
	"ems/internal/domain/project"
	"ems/internal/transport/http/api"
	"ems/internal/transport/http/middleware"
	"ems/internal/transport/http/shared"
)

type Handler struct {
	Service  *project.Service
	Activity *activity.Service
}

func NewHandler(service *project.Service, activitySvc *activity.Service) *Handler {
	return &Handler{Service: service, Activity: activitySvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/projects", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/", h.handleCreateProject)
		r.Get("/", h.handleListProjects)
		r.Get("/{projectID}", h.handleGetProject)
		r.Put("/{projectID}", h.handleUpdateProject)
		r.Delete("/{projectID}", h.handleDeleteProject)
		r.Post("/{projectID}/tasks", h.handleCreateTask)
		r.Get("/{projectID}/tasks", h.handleListProjectTasks)
	})
	r.Route("/tasks", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/", h.handleListTasks)
		r.Get("/{taskID}", h.handleGetTask)
		r.Put("/{taskID}", h.handleUpdateTask)
		r.Patch("/{taskID}/move", h.handleMoveTask)
		r.Delete("/{taskID}", h.handleDeleteTask)
	})
}

type projectPayload struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	ManagerID   string   `json:"managerId"`
	StartDate   string   `json:"startDate"`
	EndDate     string   `json:"endDate"`
	Priority    string   `json:"priority"`
	MemberIDs   []string `json:"memberIds"`
}

func (h *Handler) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	var payload projectPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	v := shared.NewValidator()
	v.Required("name", payload.Name, "is required")
	startDate, _ := v.Date("startDate", payload.StartDate)
	var endDate *time.Time
	if payload.EndDate != "" {
		parsed, ok := v.Date("endDate", payload.EndDate)
		if ok {
			v.DateOrder("startDate", startDate, "endDate", parsed)
			endDate = &parsed
		}
	}
	if v.Reject(w, requestID) {
		return
	}

	created, err := h.Service.CreateProject(r.Context(), user, project.CreateProjectInput{
		Name:        payload.Name,
		Description: payload.Description,
		ManagerID:   payload.ManagerID,
		StartDate:   startDate,
		EndDate:     endDate,
		Priority:    payload.Priority,
		MemberIDs:   payload.MemberIDs,
	})
	switch {
	case errors.Is(err, project.ErrForbidden):
		api.Fail(w, http.StatusForbidden, "forbidden", "manager or admin role required", requestID)
	case errors.Is(err, project.ErrInvalidPriority):
		api.Fail(w, http.StatusBadRequest, "invalid_priority", "priority must be low, medium or high", requestID)
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "project_create_failed", "failed to create project", requestID)
	default:
		api.Created(w, created, requestID)
	}
}

func (h *Handler) handleListProjects(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	memberID := r.URL.Query().Get("memberId")
	if user.Role == auth.RoleEmployee {
		// Employees only see boards they belong to.
		memberID = user.UserID
	}

	projects, err := h.Service.ListProjects(r.Context(), r.URL.Query().Get("status"), memberID)
	if errors.Is(err, project.ErrInvalidStatus) {
		api.Fail(w, http.StatusBadRequest, "invalid_status", "unknown project status", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "project_list_failed", "failed to list projects", requestID)
		return
	}
	api.Success(w, projects, requestID)
}

func (h *Handler) handleGetProject(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	found, err := h.Service.GetProject(r.Context(), chi.URLParam(r, "projectID"))
	if errors.Is(err, project.ErrProjectNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "project not found", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "project_get_failed", "failed to load project", requestID)
		return
	}
	api.Success(w, found, requestID)
}

type projectUpdatePayload struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	EndDate     *string  `json:"endDate"`
	Status      *string  `json:"status"`
	Priority    *string  `json:"priority"`
	MemberIDs   []string `json:"memberIds"`
}

func (h *Handler) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	var payload projectUpdatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	input := project.ProjectUpdate{
		Name:        payload.Name,
		Description: payload.Description,
		Status:      payload.Status,
		Priority:    payload.Priority,
		MemberIDs:   payload.MemberIDs,
	}
	if payload.EndDate != nil {
		parsed, err := shared.ParseDate(*payload.EndDate)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "validation_error", "endDate must be YYYY-MM-DD", requestID)
			return
		}
		input.EndDate = &parsed
	}

	updated, err := h.Service.UpdateProject(r.Context(), chi.URLParam(r, "projectID"), user, input)
	switch {
	case errors.Is(err, project.ErrProjectNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "project not found", requestID)
	case errors.Is(err, project.ErrForbidden):
		api.Fail(w, http.StatusForbidden, "forbidden", "manager or admin role required", requestID)
	case errors.Is(err, project.ErrInvalidStatus):
		api.Fail(w, http.StatusBadRequest, "invalid_status", "unknown project status", requestID)
	case errors.Is(err, project.ErrInvalidPriority):
		api.Fail(w, http.StatusBadRequest, "invalid_priority", "priority must be low, medium or high", requestID)
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "project_update_failed", "failed to update project", requestID)
	default:
		api.Success(w, updated, requestID)
	}
}

func (h *Handler) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	projectID := chi.URLParam(r, "projectID")

	err := h.Service.DeleteProject(r.Context(), projectID, user)
	switch {
	case errors.Is(err, project.ErrProjectNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "project not found", requestID)
	case errors.Is(err, project.ErrForbidden):
		api.Fail(w, http.StatusForbidden, "forbidden", "manager or admin role required", requestID)
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "project_delete_failed", "failed to delete project", requestID)
	default:
		if err := h.Activity.Record(r.Context(), user.UserID, "project.delete", "project", projectID, "", requestID, shared.ClientIP(r)); err != nil {
			slog.Warn("activity project.delete failed", "err", err)
		}
		api.Success(w, map[string]string{"id": projectID}, requestID)
	}
}

type taskPayload struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    string   `json:"priority"`
	DueDate     string   `json:"dueDate"`
	AssigneeIDs []string `json:"assigneeIds"`
}

func (h *Handler) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	var payload taskPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	v := shared.NewValidator()
	v.Required("title", payload.Title, "is required")
	var dueDate *time.Time
	if payload.DueDate != "" {
		parsed, ok := v.Date("dueDate", payload.DueDate)
		if ok {
			dueDate = &parsed
		}
	}
	if v.Reject(w, requestID) {
		return
	}

	created, err := h.Service.CreateTask(r.Context(), user.UserID, project.CreateTaskInput{
		ProjectID:   chi.URLParam(r, "projectID"),
		Title:       payload.Title,
		Description: payload.Description,
		Priority:    payload.Priority,
		DueDate:     dueDate,
		AssigneeIDs: payload.AssigneeIDs,
	})
	switch {
	case errors.Is(err, project.ErrProjectNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "project not found", requestID)
	case errors.Is(err, project.ErrInvalidPriority):
		api.Fail(w, http.StatusBadRequest, "invalid_priority", "priority must be low, medium or high", requestID)
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "task_create_failed", "failed to create task", requestID)
	default:
		api.Created(w, created, requestID)
	}
}

func (h *Handler) handleListProjectTasks(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	tasks, err := h.Service.ListTasks(r.Context(), chi.URLParam(r, "projectID"), r.URL.Query().Get("status"), r.URL.Query().Get("assigneeId"))
	if errors.Is(err, project.ErrInvalidStatus) {
		api.Fail(w, http.StatusBadRequest, "invalid_status", "unknown task status", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "task_list_failed", "failed to list tasks", requestID)
		return
	}
	api.Success(w, tasks, requestID)
}

func (h *Handler) handleListTasks(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	assigneeID := r.URL.Query().Get("assigneeId")
	if user.Role == auth.RoleEmployee {
		assigneeID = user.UserID
	}

	tasks, err := h.Service.ListTasks(r.Context(), r.URL.Query().Get("projectId"), r.URL.Query().Get("status"), assigneeID)
	if errors.Is(err, project.ErrInvalidStatus) {
		api.Fail(w, http.StatusBadRequest, "invalid_status", "unknown task status", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "task_list_failed", "failed to list tasks", requestID)
		return
	}
	api.Success(w, tasks, requestID)
}

func (h *Handler) handleGetTask(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	found, err := h.Service.GetTask(r.Context(), chi.URLParam(r, "taskID"))
	if errors.Is(err, project.ErrTaskNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "task not found", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "task_get_failed", "failed to load task", requestID)
		return
	}
	api.Success(w, found, requestID)
}

type taskUpdatePayload struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Status      *string  `json:"status"`
	Priority    *string  `json:"priority"`
	DueDate     *string  `json:"dueDate"`
	AssigneeIDs []string `json:"assigneeIds"`
}

func (h *Handler) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var payload taskUpdatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	input := project.TaskUpdate{
		Title:       payload.Title,
		Description: payload.Description,
		Status:      payload.Status,
		Priority:    payload.Priority,
		AssigneeIDs: payload.AssigneeIDs,
	}
	if payload.DueDate != nil {
		parsed, err := shared.ParseDate(*payload.DueDate)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "validation_error", "dueDate must be YYYY-MM-DD", requestID)
			return
		}
		input.DueDate = &parsed
	}

	updated, err := h.Service.UpdateTask(r.Context(), chi.URLParam(r, "taskID"), input)
	switch {
	case errors.Is(err, project.ErrTaskNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "task not found", requestID)
	case errors.Is(err, project.ErrInvalidStatus):
		api.Fail(w, http.StatusBadRequest, "invalid_status", "unknown task status", requestID)
	case errors.Is(err, project.ErrInvalidPriority):
		api.Fail(w, http.StatusBadRequest, "invalid_priority", "priority must be low, medium or high", requestID)
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "task_update_failed", "failed to update task", requestID)
	default:
		api.Success(w, updated, requestID)
	}
}

type movePayload struct {
	Status string `json:"status"`
}

func (h *Handler) handleMoveTask(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var payload movePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	moved, err := h.Service.MoveTask(r.Context(), chi.URLParam(r, "taskID"), payload.Status)
	switch {
	case errors.Is(err, project.ErrTaskNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "task not found", requestID)
	case errors.Is(err, project.ErrInvalidStatus):
		api.Fail(w, http.StatusBadRequest, "invalid_status", "status must be todo, in-progress, review or done", requestID)
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "task_move_failed", "failed to move task", requestID)
	default:
		api.Success(w, moved, requestID)
	}
}

func (h *Handler) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	taskID := chi.URLParam(r, "taskID")

	err := h.Service.DeleteTask(r.Context(), taskID, user)
	switch {
	case errors.Is(err, project.ErrTaskNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "task not found", requestID)
	case errors.Is(err, project.ErrForbidden):
		api.Fail(w, http.StatusForbidden, "forbidden", "manager or admin role required", requestID)
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "task_delete_failed", "failed to delete task", requestID)
	default:
		api.Success(w, map[string]string{"id": taskID}, requestID)
	}
}
