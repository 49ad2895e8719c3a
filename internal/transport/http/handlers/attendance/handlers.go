package attendancehandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"ems/internal/domain/attendance"
	"ems/internal/domain/auth"
	"ems/internal/transport/http/api"
	"ems/internal/transport/http/middleware"
	"ems/internal/transport/http/shared"
)

type Handler struct {
	Service *attendance.Service
}

func NewHandler(service *attendance.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/attendance", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/clock-in", h.handleClockIn)
		r.Post("/clock-out", h.handleClockOut)
		r.Get("/logs", h.handleLogs)
	})
}

type clockPayload struct {
	Notes string `json:"notes"`
}

func (h *Handler) handleClockIn(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	var payload clockPayload
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
			return
		}
	}

	log, err := h.Service.ClockIn(r.Context(), user.UserID, time.Now(), payload.Notes)
	if errors.Is(err, attendance.ErrAlreadyClockedIn) {
		api.Fail(w, http.StatusConflict, "already_clocked_in", "already clocked in today", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "clock_in_failed", "failed to clock in", requestID)
		return
	}
	api.Created(w, log, requestID)
}

func (h *Handler) handleClockOut(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	var payload clockPayload
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
			return
		}
	}

	log, err := h.Service.ClockOut(r.Context(), user.UserID, time.Now(), payload.Notes)
	switch {
	case errors.Is(err, attendance.ErrNotClockedIn):
		api.Fail(w, http.StatusBadRequest, "not_clocked_in", "no open attendance log for today", requestID)
	case errors.Is(err, attendance.ErrAlreadyClockedOut):
		api.Fail(w, http.StatusConflict, "already_clocked_out", "today's log is already closed", requestID)
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "clock_out_failed", "failed to clock out", requestID)
	default:
		api.Success(w, log, requestID)
	}
}

func (h *Handler) handleLogs(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	employeeID := user.UserID
	if requested := r.URL.Query().Get("employeeId"); requested != "" && requested != user.UserID {
		if !auth.CanReview(user.Role) {
			api.Fail(w, http.StatusForbidden, "forbidden", "cannot view another employee's logs", requestID)
			return
		}
		employeeID = requested
	}

	var day *time.Time
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := shared.ParseDate(raw)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "validation_error", "date must be YYYY-MM-DD", requestID)
			return
		}
		day = &parsed
	}
	page := shared.ParsePagination(r, 31, 100)

	logs, err := h.Service.Logs(r.Context(), employeeID, day, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "logs_failed", "failed to list attendance logs", requestID)
		return
	}
	api.Success(w, logs, requestID)
}
