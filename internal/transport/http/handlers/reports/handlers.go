package reportshandler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"ems/internal/domain/activity"
	"ems/internal/domain/auth"
	"ems/internal/domain/reports"
	"ems/internal/transport/http/api"
	"ems/internal/transport/http/middleware"
	"ems/internal/transport/http/shared"
)

type Handler struct {
	Service  *reports.Service
	Activity *activity.Service
}

func NewHandler(service *reports.Service, activitySvc *activity.Service) *Handler {
	return &Handler{Service: service, Activity: activitySvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/reports", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.With(middleware.RequireRole(auth.RoleAdmin, auth.RoleManager)).Get("/overview", h.handleOverview)
		r.Get("/me", h.handlePersonal)
		r.With(middleware.RequireRole(auth.RoleAdmin)).Get("/activity", h.handleActivity)
	})
}

func (h *Handler) handleOverview(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	overview, err := h.Service.Overview(r.Context(), time.Now().UTC())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "overview_failed", "failed to build dashboard overview", requestID)
		return
	}
	api.Success(w, overview, requestID)
}

func (h *Handler) handlePersonal(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	personal, err := h.Service.Personal(r.Context(), user.UserID, time.Now().UTC())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "dashboard_failed", "failed to build dashboard", requestID)
		return
	}
	api.Success(w, personal, requestID)
}

func (h *Handler) handleActivity(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	filter := activity.Filter{
		Action:       r.URL.Query().Get("action"),
		ResourceType: r.URL.Query().Get("resourceType"),
		ActorID:      r.URL.Query().Get("actorId"),
	}
	page := shared.ParsePagination(r, 50, 200)

	total, err := h.Activity.Count(r.Context(), filter)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "activity_list_failed", "failed to count activity", requestID)
		return
	}
	entries, err := h.Activity.List(r.Context(), filter, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "activity_list_failed", "failed to list activity", requestID)
		return
	}
	api.Success(w, map[string]any{"total": total, "entries": entries}, requestID)
}
