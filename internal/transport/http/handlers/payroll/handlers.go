package payrollhandler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"ems/internal/domain/activity"
	"ems/internal/domain/auth"
	"ems/internal/domain/payroll"
	"ems/internal/transport/http/api"
	"ems/internal/transport/http/middleware"
	"ems/internal/transport/http/shared"
)

type Handler struct {
	Service    *payroll.Service
	Activity   *activity.Service
	PayslipDir string
}

func NewHandler(service *payroll.Service, activitySvc *activity.Service, payslipDir string) *Handler {
	return &Handler{Service: service, Activity: activitySvc, PayslipDir: payslipDir}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/payroll", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.With(middleware.RequireRole(auth.RoleAdmin)).Post("/generate", h.handleGenerate)
		r.Get("/payslips", h.handleList)
		r.Get("/payslips/{payslipID}", h.handleGet)
		r.Get("/payslips/{payslipID}/pdf", h.handleDownloadPDF)
	})
}

type generatePayload struct {
	Month      int    `json:"month"`
	Year       int    `json:"year"`
	EmployeeID string `json:"employeeId"`
}

func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	var payload generatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	period := payroll.Period{Month: payload.Month, Year: payload.Year}
	result, err := h.Service.Generate(r.Context(), period, payload.EmployeeID)
	if errors.Is(err, payroll.ErrInvalidPeriod) {
		api.Fail(w, http.StatusBadRequest, "invalid_period", "month must be 1-12 and year within range", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payroll_generate_failed", "failed to generate payroll", requestID)
		return
	}

	detail := fmt.Sprintf("%d/%d generated=%d skipped=%d", payload.Month, payload.Year, len(result.Generated), result.Skipped)
	if err := h.Activity.Record(r.Context(), user.UserID, "payroll.generate", "payslip", "", detail, requestID, shared.ClientIP(r)); err != nil {
		slog.Warn("activity payroll.generate failed", "err", err)
	}
	api.Success(w, result, requestID)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	employeeID := r.URL.Query().Get("employeeId")
	if user.Role != auth.RoleAdmin {
		employeeID = user.UserID
	}

	var period *payroll.Period
	if rawMonth := r.URL.Query().Get("month"); rawMonth != "" {
		month, errMonth := strconv.Atoi(rawMonth)
		year, errYear := strconv.Atoi(r.URL.Query().Get("year"))
		if errMonth != nil || errYear != nil {
			api.Fail(w, http.StatusBadRequest, "validation_error", "month and year must be numbers", requestID)
			return
		}
		period = &payroll.Period{Month: month, Year: year}
		if !period.Valid() {
			api.Fail(w, http.StatusBadRequest, "invalid_period", "month must be 1-12 and year within range", requestID)
			return
		}
	}
	page := shared.ParsePagination(r, 24, 100)

	payslips, err := h.Service.List(r.Context(), employeeID, period, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payslip_list_failed", "failed to list payslips", requestID)
		return
	}
	api.Success(w, payslips, requestID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	payslip, ok := h.loadAuthorized(w, r)
	if !ok {
		return
	}
	api.Success(w, payslip, requestID)
}

func (h *Handler) handleDownloadPDF(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	payslip, ok := h.loadAuthorized(w, r)
	if !ok {
		return
	}

	path := payslip.FilePath
	if path == "" {
		var err error
		path, err = h.Service.ExportPDF(r.Context(), payslip.ID, h.PayslipDir)
		if err != nil {
			api.Fail(w, http.StatusInternalServerError, "payslip_pdf_failed", "failed to render payslip pdf", requestID)
			return
		}
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("payslip-%d-%d.pdf", payslip.Year, payslip.Month)))
	http.ServeFile(w, r, path)
}

// loadAuthorized fetches the payslip and enforces that non-admins only see
// their own. It writes the error response itself.
func (h *Handler) loadAuthorized(w http.ResponseWriter, r *http.Request) (payroll.Payslip, bool) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	payslip, err := h.Service.Get(r.Context(), chi.URLParam(r, "payslipID"))
	if errors.Is(err, payroll.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "payslip not found", requestID)
		return payroll.Payslip{}, false
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payslip_get_failed", "failed to load payslip", requestID)
		return payroll.Payslip{}, false
	}
	if user.Role != auth.RoleAdmin && payslip.EmployeeID != user.UserID {
		api.Fail(w, http.StatusForbidden, "forbidden", "cannot view this payslip", requestID)
		return payroll.Payslip{}, false
	}
	return payslip, true
}
