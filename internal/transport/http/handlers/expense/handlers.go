package expensehandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ems/internal/domain/activity"
	"ems/internal/domain/auth"
	"ems/internal/domain/expense"
	"ems/internal/transport/http/api"
	"ems/internal/transport/http/middleware"
	"ems/internal/transport/http/shared"
)

type Handler struct {
	Service  *expense.Service
	Activity *activity.Service
}

func NewHandler(service *expense.Service, activitySvc *activity.Service) *Handler {
	return &Handler{Service: service, Activity: activitySvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/expenses", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/", h.handleSubmit)
		r.Get("/", h.handleList)
		r.Get("/{expenseID}", h.handleGet)
		r.Put("/{expenseID}", h.handleEdit)
		r.Delete("/{expenseID}", h.handleDelete)
		r.With(middleware.RequireRole(auth.RoleAdmin, auth.RoleManager)).Post("/{expenseID}/review", h.handleReview)
	})
}

type submitPayload struct {
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Date        string  `json:"date"`
	ReceiptURL  string  `json:"receiptUrl"`
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	var payload submitPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	v := shared.NewValidator()
	v.Required("category", payload.Category, "is required")
	date, _ := v.Date("date", payload.Date)
	if v.Reject(w, requestID) {
		return
	}

	created, err := h.Service.Submit(r.Context(), user.UserID, expense.SubmitInput{
		Amount:      payload.Amount,
		Category:    payload.Category,
		Description: payload.Description,
		Date:        date,
		ReceiptURL:  payload.ReceiptURL,
	})
	switch {
	case errors.Is(err, expense.ErrInvalidAmount):
		api.Fail(w, http.StatusBadRequest, "invalid_amount", "amount must be greater than zero", requestID)
	case errors.Is(err, expense.ErrInvalidCategory):
		api.Fail(w, http.StatusBadRequest, "invalid_category", "unknown expense category", requestID)
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "expense_submit_failed", "failed to submit expense", requestID)
	default:
		api.Created(w, created, requestID)
	}
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	filter := expense.Filter{
		EmployeeID: r.URL.Query().Get("employeeId"),
		Status:     r.URL.Query().Get("status"),
		Category:   r.URL.Query().Get("category"),
	}
	if !auth.CanReview(user.Role) {
		filter.EmployeeID = user.UserID
	}

	expenses, err := h.Service.List(r.Context(), filter)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "expense_list_failed", "failed to list expenses", requestID)
		return
	}
	api.Success(w, expenses, requestID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	found, err := h.Service.Get(r.Context(), chi.URLParam(r, "expenseID"))
	if errors.Is(err, expense.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "expense not found", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "expense_get_failed", "failed to load expense", requestID)
		return
	}
	if found.EmployeeID != user.UserID && !auth.CanReview(user.Role) {
		api.Fail(w, http.StatusForbidden, "forbidden", "cannot view this expense", requestID)
		return
	}
	api.Success(w, found, requestID)
}

type editPayload struct {
	Amount      *float64 `json:"amount"`
	Category    *string  `json:"category"`
	Description *string  `json:"description"`
	Date        *string  `json:"date"`
	ReceiptURL  *string  `json:"receiptUrl"`
}

func (h *Handler) handleEdit(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	var payload editPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	input := expense.UpdateInput{
		Amount:      payload.Amount,
		Category:    payload.Category,
		Description: payload.Description,
		ReceiptURL:  payload.ReceiptURL,
	}
	if payload.Date != nil {
		parsed, err := shared.ParseDate(*payload.Date)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "validation_error", "date must be YYYY-MM-DD", requestID)
			return
		}
		input.Date = &parsed
	}

	updated, err := h.Service.Edit(r.Context(), chi.URLParam(r, "expenseID"), user, input)
	switch {
	case errors.Is(err, expense.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "expense not found", requestID)
	case errors.Is(err, expense.ErrForbidden):
		api.Fail(w, http.StatusForbidden, "forbidden", "only pending expenses can be edited by their owner", requestID)
	case errors.Is(err, expense.ErrInvalidAmount):
		api.Fail(w, http.StatusBadRequest, "invalid_amount", "amount must be greater than zero", requestID)
	case errors.Is(err, expense.ErrInvalidCategory):
		api.Fail(w, http.StatusBadRequest, "invalid_category", "unknown expense category", requestID)
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "expense_edit_failed", "failed to edit expense", requestID)
	default:
		api.Success(w, updated, requestID)
	}
}

type reviewPayload struct {
	Status          string `json:"status"`
	RejectionReason string `json:"rejectionReason"`
}

func (h *Handler) handleReview(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	expenseID := chi.URLParam(r, "expenseID")

	var payload reviewPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	reviewed, err := h.Service.Review(r.Context(), expenseID, user, payload.Status, payload.RejectionReason)
	switch {
	case errors.Is(err, expense.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "expense not found", requestID)
	case errors.Is(err, expense.ErrInvalidStatus):
		api.Fail(w, http.StatusBadRequest, "invalid_status", "status must be approved or rejected", requestID)
	case errors.Is(err, expense.ErrForbidden):
		api.Fail(w, http.StatusForbidden, "forbidden", "reviewer role required", requestID)
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "expense_review_failed", "failed to review expense", requestID)
	default:
		if err := h.Activity.Record(r.Context(), user.UserID, "expense."+payload.Status, "expense", expenseID, payload.RejectionReason, requestID, shared.ClientIP(r)); err != nil {
			slog.Warn("activity expense review failed", "err", err)
		}
		api.Success(w, reviewed, requestID)
	}
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	expenseID := chi.URLParam(r, "expenseID")

	err := h.Service.Delete(r.Context(), expenseID, user)
	switch {
	case errors.Is(err, expense.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "expense not found", requestID)
	case errors.Is(err, expense.ErrForbidden):
		api.Fail(w, http.StatusForbidden, "forbidden", "only pending expenses can be deleted by their owner", requestID)
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "expense_delete_failed", "failed to delete expense", requestID)
	default:
		api.Success(w, map[string]string{"id": expenseID}, requestID)
	}
}
