package employeehandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"ems/internal/domain/activity"
	"ems/internal/domain/auth"
	"ems/internal/domain/employee"
	"ems/internal/transport/http/api"
	"ems/internal/transport/http/middleware"
	"ems/internal/transport/http/shared"
)

type Handler struct {
	Store    *employee.Store
	Activity *activity.Service
}

func NewHandler(store *employee.Store, activitySvc *activity.Service) *Handler {
	return &Handler{Store: store, Activity: activitySvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/employees", func(r chi.Router) {
		r.With(middleware.RequireRole(auth.RoleAdmin)).Post("/", h.handleCreate)
		r.With(middleware.RequireRole(auth.RoleAdmin, auth.RoleManager)).Get("/", h.handleList)
		r.With(middleware.RequireAuth).Get("/{employeeID}", h.handleGet)
		r.With(middleware.RequireRole(auth.RoleAdmin)).Put("/{employeeID}", h.handleUpdate)
		r.With(middleware.RequireRole(auth.RoleAdmin)).Delete("/{employeeID}", h.handleDeactivate)
	})
}

type createPayload struct {
	EmployeeCode string                   `json:"employeeCode"`
	Email        string                   `json:"email"`
	Password     string                   `json:"password"`
	FirstName    string                   `json:"firstName"`
	LastName     string                   `json:"lastName"`
	Phone        string                   `json:"phone"`
	Role         string                   `json:"role"`
	Department   string                   `json:"department"`
	Position     string                   `json:"position"`
	JoiningDate  string                   `json:"joiningDate"`
	ManagerID    string                   `json:"managerId"`
	Salary       employee.SalaryStructure `json:"salary"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	var payload createPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	v := shared.NewValidator()
	v.Required("employeeCode", payload.EmployeeCode, "is required")
	v.Required("email", payload.Email, "is required")
	v.Required("firstName", payload.FirstName, "is required")
	v.Required("lastName", payload.LastName, "is required")
	if len(payload.Password) < 8 {
		v.Add("password", "must be at least 8 characters")
	}
	if payload.Role == "" {
		payload.Role = auth.RoleEmployee
	}
	if !auth.ValidRole(payload.Role) {
		v.Add("role", "must be admin, manager or employee")
	}
	joiningDate, _ := v.Date("joiningDate", payload.JoiningDate)
	if v.Reject(w, requestID) {
		return
	}

	hash, err := auth.HashPassword(payload.Password)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_create_failed", "failed to create employee", requestID)
		return
	}

	id, err := h.Store.Create(r.Context(), hash, employee.CreateInput{
		EmployeeCode: strings.TrimSpace(payload.EmployeeCode),
		Email:        strings.TrimSpace(payload.Email),
		FirstName:    payload.FirstName,
		LastName:     payload.LastName,
		Phone:        payload.Phone,
		Role:         payload.Role,
		Department:   payload.Department,
		Position:     payload.Position,
		JoiningDate:  joiningDate,
		ManagerID:    payload.ManagerID,
		Salary:       payload.Salary,
	})
	if errors.Is(err, employee.ErrDuplicate) {
		api.Fail(w, http.StatusConflict, "duplicate_employee", "employee code or email already exists", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_create_failed", "failed to create employee", requestID)
		return
	}

	if err := h.Activity.Record(r.Context(), user.UserID, "employee.create", "employee", id, payload.Email, requestID, shared.ClientIP(r)); err != nil {
		slog.Warn("activity employee.create failed", "err", err)
	}
	api.Created(w, map[string]string{"id": id}, requestID)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	q := r.URL.Query()
	managerID := q.Get("managerId")
	if user.Role == auth.RoleManager {
		// Managers only see their own reports.
		managerID = user.UserID
	}
	page := shared.ParsePagination(r, 50, 200)

	employees, err := h.Store.List(r.Context(), q.Get("department"), managerID, q.Get("includeInactive") != "true", page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_list_failed", "failed to list employees", requestID)
		return
	}
	api.Success(w, employees, requestID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	employeeID := chi.URLParam(r, "employeeID")

	if !h.canAccess(r, user, employeeID) {
		api.Fail(w, http.StatusForbidden, "forbidden", "cannot view this employee", requestID)
		return
	}

	emp, err := h.Store.Get(r.Context(), employeeID)
	if errors.Is(err, employee.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_get_failed", "failed to load employee", requestID)
		return
	}
	api.Success(w, emp, requestID)
}

func (h *Handler) canAccess(r *http.Request, user auth.Principal, employeeID string) bool {
	if user.Role == auth.RoleAdmin || user.UserID == employeeID {
		return true
	}
	if user.Role != auth.RoleManager {
		return false
	}
	ok, err := h.Store.IsManagerOf(r.Context(), user.UserID, employeeID)
	if err != nil {
		slog.Warn("manager check failed", "err", err)
		return false
	}
	return ok
}

type updatePayload struct {
	FirstName  string                   `json:"firstName"`
	LastName   string                   `json:"lastName"`
	Phone      string                   `json:"phone"`
	Role       string                   `json:"role"`
	Department string                   `json:"department"`
	Position   string                   `json:"position"`
	ManagerID  string                   `json:"managerId"`
	Salary     employee.SalaryStructure `json:"salary"`
	IsActive   *bool                    `json:"isActive"`
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	employeeID := chi.URLParam(r, "employeeID")

	var payload updatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	if payload.Role != "" && !auth.ValidRole(payload.Role) {
		api.Fail(w, http.StatusBadRequest, "validation_error", "role must be admin, manager or employee", requestID)
		return
	}

	current, err := h.Store.Get(r.Context(), employeeID)
	if errors.Is(err, employee.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_update_failed", "failed to update employee", requestID)
		return
	}

	input := employee.UpdateInput{
		FirstName:  firstNonEmpty(payload.FirstName, current.FirstName),
		LastName:   firstNonEmpty(payload.LastName, current.LastName),
		Phone:      firstNonEmpty(payload.Phone, current.Phone),
		Role:       firstNonEmpty(payload.Role, current.Role),
		Department: firstNonEmpty(payload.Department, current.Department),
		Position:   firstNonEmpty(payload.Position, current.Position),
		ManagerID:  firstNonEmpty(payload.ManagerID, current.ManagerID),
		Salary:     current.Salary,
		IsActive:   current.IsActive,
	}
	if payload.Salary != (employee.SalaryStructure{}) {
		input.Salary = payload.Salary
	}
	if payload.IsActive != nil {
		input.IsActive = *payload.IsActive
	}

	if err := h.Store.Update(r.Context(), employeeID, input); err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_update_failed", "failed to update employee", requestID)
		return
	}

	if err := h.Activity.Record(r.Context(), user.UserID, "employee.update", "employee", employeeID, "", requestID, shared.ClientIP(r)); err != nil {
		slog.Warn("activity employee.update failed", "err", err)
	}

	updated, err := h.Store.Get(r.Context(), employeeID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_update_failed", "failed to load employee", requestID)
		return
	}
	api.Success(w, updated, requestID)
}

func (h *Handler) handleDeactivate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	employeeID := chi.URLParam(r, "employeeID")

	err := h.Store.Deactivate(r.Context(), employeeID)
	if errors.Is(err, employee.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_deactivate_failed", "failed to deactivate employee", requestID)
		return
	}

	if err := h.Activity.Record(r.Context(), user.UserID, "employee.deactivate", "employee", employeeID, "", requestID, shared.ClientIP(r)); err != nil {
		slog.Warn("activity employee.deactivate failed", "err", err)
	}
	api.Success(w, map[string]any{"id": employeeID, "isActive": false, "deactivatedAt": time.Now().UTC()}, requestID)
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}
