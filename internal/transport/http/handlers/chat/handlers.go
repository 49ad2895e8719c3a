package chathandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"ems/internal/domain/chat"
	"ems/internal/transport/http/api"
	"ems/internal/transport/http/middleware"
)

type Handler struct {
	Service *chat.Service
}

func NewHandler(service *chat.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/chat", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/channels", h.handleListChannels)
		r.Post("/channels", h.handleCreateChannel)
		r.Get("/channels/{channelID}/messages", h.handleChannelMessages)
		r.Post("/messages", h.handleSend)
		r.Get("/messages/general", h.handleGeneralMessages)
		r.Get("/messages/direct/{userID}", h.handleDirectMessages)
		r.Get("/notifications", h.handleNotifications)
		r.Post("/notifications/{notificationID}/read", h.handleMarkRead)
		r.Post("/notifications/read-all", h.handleMarkAllRead)
	})
}

type channelPayload struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *Handler) handleCreateChannel(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	var payload channelPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	created, err := h.Service.CreateChannel(r.Context(), user.UserID, payload.Name, payload.Description)
	switch {
	case errors.Is(err, chat.ErrEmptyMessage):
		api.Fail(w, http.StatusBadRequest, "validation_error", "channel name is required", requestID)
	case errors.Is(err, chat.ErrDuplicateChannel):
		api.Fail(w, http.StatusConflict, "duplicate_channel", "channel name already taken", requestID)
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "channel_create_failed", "failed to create channel", requestID)
	default:
		api.Created(w, created, requestID)
	}
}

func (h *Handler) handleListChannels(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	channels, err := h.Service.ListChannels(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "channel_list_failed", "failed to list channels", requestID)
		return
	}
	api.Success(w, channels, requestID)
}

type sendPayload struct {
	ChannelID   string `json:"channelId"`
	RecipientID string `json:"recipientId"`
	Content     string `json:"content"`
}

func (h *Handler) handleSend(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	var payload sendPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	sent, err := h.Service.Send(r.Context(), user.UserID, chat.Message{
		ChannelID:   payload.ChannelID,
		RecipientID: payload.RecipientID,
		Content:     payload.Content,
	})
	switch {
	case errors.Is(err, chat.ErrEmptyMessage):
		api.Fail(w, http.StatusBadRequest, "validation_error", "message content is required", requestID)
	case errors.Is(err, chat.ErrAmbiguousTarget):
		api.Fail(w, http.StatusBadRequest, "validation_error", "message cannot target both a channel and a recipient", requestID)
	case errors.Is(err, chat.ErrChannelNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "channel not found", requestID)
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "message_send_failed", "failed to send message", requestID)
	default:
		api.Created(w, sent, requestID)
	}
}

func (h *Handler) handleChannelMessages(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	messages, err := h.Service.ChannelMessages(r.Context(), chi.URLParam(r, "channelID"), queryLimit(r))
	if errors.Is(err, chat.ErrChannelNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "channel not found", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "message_list_failed", "failed to list messages", requestID)
		return
	}
	api.Success(w, messages, requestID)
}

func (h *Handler) handleGeneralMessages(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	messages, err := h.Service.GeneralMessages(r.Context(), queryLimit(r))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "message_list_failed", "failed to list messages", requestID)
		return
	}
	api.Success(w, messages, requestID)
}

func (h *Handler) handleDirectMessages(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	messages, err := h.Service.DirectMessages(r.Context(), user.UserID, chi.URLParam(r, "userID"), queryLimit(r))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "message_list_failed", "failed to list messages", requestID)
		return
	}
	api.Success(w, messages, requestID)
}

func (h *Handler) handleNotifications(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	notifications, err := h.Service.Notifications(r.Context(), user.UserID, r.URL.Query().Get("unread") == "true")
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "notification_list_failed", "failed to list notifications", requestID)
		return
	}
	api.Success(w, notifications, requestID)
}

func (h *Handler) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	notificationID := chi.URLParam(r, "notificationID")

	err := h.Service.MarkRead(r.Context(), notificationID, user.UserID)
	if errors.Is(err, chat.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "notification not found", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "notification_read_failed", "failed to mark notification read", requestID)
		return
	}
	api.Success(w, map[string]any{"id": notificationID, "isRead": true}, requestID)
}

func (h *Handler) handleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	if err := h.Service.MarkAllRead(r.Context(), user.UserID); err != nil {
		api.Fail(w, http.StatusInternalServerError, "notification_read_failed", "failed to mark notifications read", requestID)
		return
	}
	api.Success(w, map[string]any{"read": "all"}, requestID)
}

func queryLimit(r *http.Request) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return limit
}
