package leavehandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ems/internal/domain/activity"
	"ems/internal/domain/auth"
	"ems/internal/domain/leave"
	"ems/internal/transport/http/api"
	"ems/internal/transport/http/middleware"
	"ems/internal/transport/http/shared"
)

type Handler struct {
	Service  *leave.Service
	Activity *activity.Service
}

func NewHandler(service *leave.Service, activitySvc *activity.Service) *Handler {
	return &Handler{Service: service, Activity: activitySvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/leaves", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/", h.handleApply)
		r.Get("/", h.handleList)
		r.Get("/{leaveID}", h.handleGet)
		r.With(middleware.RequireRole(auth.RoleAdmin, auth.RoleManager)).Post("/{leaveID}/approve", h.handleApprove)
		r.With(middleware.RequireRole(auth.RoleAdmin, auth.RoleManager)).Post("/{leaveID}/reject", h.handleReject)
	})
}

type applyPayload struct {
	LeaveType string `json:"leaveType"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Reason    string `json:"reason"`
}

func (h *Handler) handleApply(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	var payload applyPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	v := shared.NewValidator()
	v.Required("leaveType", payload.LeaveType, "is required")
	v.Required("reason", payload.Reason, "is required")
	startDate, _ := v.Date("startDate", payload.StartDate)
	endDate, _ := v.Date("endDate", payload.EndDate)
	if v.Reject(w, requestID) {
		return
	}

	created, err := h.Service.Apply(r.Context(), user.UserID, payload.LeaveType, startDate, endDate, payload.Reason)
	switch {
	case errors.Is(err, leave.ErrInvalidType):
		api.Fail(w, http.StatusBadRequest, "invalid_leave_type", "unknown leave type", requestID)
	case errors.Is(err, leave.ErrInvalidRange):
		api.Fail(w, http.StatusBadRequest, "invalid_range", "range must contain at least one business day", requestID)
	case errors.Is(err, leave.ErrInsufficientBalance):
		api.Fail(w, http.StatusBadRequest, "insufficient_balance", "not enough leave balance for this request", requestID)
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "leave_apply_failed", "failed to submit leave request", requestID)
	default:
		api.Created(w, created, requestID)
	}
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	employeeID := r.URL.Query().Get("employeeId")
	if !auth.CanReview(user.Role) {
		employeeID = user.UserID
	}
	page := shared.ParsePagination(r, 50, 200)

	leaves, err := h.Service.List(r.Context(), employeeID, r.URL.Query().Get("status"), page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "leave_list_failed", "failed to list leave requests", requestID)
		return
	}
	api.Success(w, leaves, requestID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	found, err := h.Service.Get(r.Context(), chi.URLParam(r, "leaveID"))
	if errors.Is(err, leave.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "leave request not found", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "leave_get_failed", "failed to load leave request", requestID)
		return
	}
	if found.EmployeeID != user.UserID && !auth.CanReview(user.Role) {
		api.Fail(w, http.StatusForbidden, "forbidden", "cannot view this leave request", requestID)
		return
	}
	api.Success(w, found, requestID)
}

type reviewPayload struct {
	Comments string `json:"comments"`
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, leave.DecisionApprove)
}

func (h *Handler) handleReject(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, leave.DecisionReject)
}

func (h *Handler) review(w http.ResponseWriter, r *http.Request, decision string) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	leaveID := chi.URLParam(r, "leaveID")

	var payload reviewPayload
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
			return
		}
	}

	reviewed, err := h.Service.Review(r.Context(), leaveID, user.UserID, decision, payload.Comments)
	switch {
	case errors.Is(err, leave.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "leave request not found", requestID)
	case errors.Is(err, leave.ErrNotPending):
		api.Fail(w, http.StatusConflict, "not_pending", "leave request was already reviewed", requestID)
	case errors.Is(err, leave.ErrInsufficientBalance):
		api.Fail(w, http.StatusBadRequest, "insufficient_balance", "employee does not have enough balance", requestID)
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "leave_review_failed", "failed to review leave request", requestID)
	default:
		if err := h.Activity.Record(r.Context(), user.UserID, "leave."+decision, "leave", leaveID, payload.Comments, requestID, shared.ClientIP(r)); err != nil {
			slog.Warn("activity leave review failed", "err", err)
		}
		api.Success(w, reviewed, requestID)
	}
}
