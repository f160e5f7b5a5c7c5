package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pujakart/promotion-service/internal/models"
	"github.com/pujakart/promotion-service/internal/repository"
	"github.com/pujakart/promotion-service/internal/service"
)

type BroadcastRequest struct {
	UserIDs []string `json:"user_ids"`
	Title   string   `json:"title"`
	Message string   `json:"message"`
	Type    string   `json:"type"`
}

type NotificationHandler struct {
	service *service.NotificationService
}

func NewNotificationHandler(svc *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: svc}
}

// Broadcast handles POST /admin/notifications/broadcast.
func (h *NotificationHandler) Broadcast(w http.ResponseWriter, r *http.Request) {
	var req BroadcastRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}

	sent, err := h.service.Broadcast(r.Context(), req.UserIDs, req.Title, req.Message, req.Type)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoRecipients), errors.Is(err, service.ErrTitleEmpty):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed_broadcast")
		}
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int{"recipients": sent})
}

// ListForUser handles GET /notifications/user/{userID}.
func (h *NotificationHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	notifications, err := h.service.ListForUser(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed_list_notifications")
		return
	}
	if notifications == nil {
		notifications = []models.Notification{}
	}
	writeJSON(w, http.StatusOK, notifications)
}

// MarkRead handles PATCH /notifications/{id}/read.
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	if err := h.service.MarkRead(r.Context(), chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed_mark_read")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"read": true})
}
