package api

import (
	"net/http"

	"github.com/fundlane/backend/internal/apperr"
	"github.com/fundlane/backend/internal/notification"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type NotificationHandler struct {
	notifications *notification.Repository
}

func NewNotificationHandler(notifications *notification.Repository) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

func notificationID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		return uuid.Nil, apperr.Validation("invalid notification id")
	}
	return id, nil
}

func requireUserID(r *http.Request) (string, error) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		return "", apperr.Validation("userId is required")
	}
	return userID, nil
}

func (h *NotificationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req notification.CreateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err, "Failed to create notification")
		return
	}

	n, err := h.notifications.Create(r.Context(), req)
	if err != nil {
		writeError(w, err, "Failed to create notification")
		return
	}
	writeJSON(w, http.StatusCreated, "Notification created successfully", n)
}

func (h *NotificationHandler) CreateBulk(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Notifications []notification.CreateRequest `json:"notifications"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err, "Failed to create notifications")
		return
	}
	if len(body.Notifications) == 0 {
		writeError(w, apperr.Validation("notifications array is required"), "Failed to create notifications")
		return
	}

	created, err := h.notifications.CreateBulk(r.Context(), body.Notifications)
	if err != nil {
		writeError(w, err, "Failed to create notifications")
		return
	}
	writeJSON(w, http.StatusCreated, "Notifications created successfully", created)
}

func (h *NotificationHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUserID(r)
	if err != nil {
		writeError(w, err, "Failed to retrieve notifications")
		return
	}

	limit := queryInt(r, "limit", 50)
	skip := queryInt(r, "skip", 0)
	results, err := h.notifications.ListByUser(r.Context(), userID, limit, skip)
	if err != nil {
		writeError(w, err, "Failed to retrieve notifications")
		return
	}
	writeJSON(w, http.StatusOK, "Notifications retrieved successfully", results)
}

func (h *NotificationHandler) ListByType(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUserID(r)
	if err != nil {
		writeError(w, err, "Failed to retrieve notifications")
		return
	}

	results, err := h.notifications.ListByType(r.Context(), userID, mux.Vars(r)["type"])
	if err != nil {
		writeError(w, err, "Failed to retrieve notifications")
		return
	}
	writeJSON(w, http.StatusOK, "Notifications retrieved successfully", results)
}

func (h *NotificationHandler) ListUnread(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUserID(r)
	if err != nil {
		writeError(w, err, "Failed to retrieve notifications")
		return
	}

	results, err := h.notifications.ListUnread(r.Context(), userID)
	if err != nil {
		writeError(w, err, "Failed to retrieve notifications")
		return
	}
	writeJSON(w, http.StatusOK, "Unread notifications retrieved successfully", results)
}

func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUserID(r)
	if err != nil {
		writeError(w, err, "Failed to count notifications")
		return
	}

	count, err := h.notifications.UnreadCount(r.Context(), userID)
	if err != nil {
		writeError(w, err, "Failed to count notifications")
		return
	}
	writeJSON(w, http.StatusOK, "Unread count retrieved successfully", map[string]int{"count": count})
}

func (h *NotificationHandler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	id, err := notificationID(r)
	if err != nil {
		writeError(w, err, "Failed to mark notification as read")
		return
	}

	var body struct {
		UserID string `json:"userId"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err, "Failed to mark notification as read")
		return
	}

	n, err := h.notifications.MarkAsRead(r.Context(), id, body.UserID)
	if err != nil {
		writeError(w, err, "Failed to mark notification as read")
		return
	}
	writeJSON(w, http.StatusOK, "Notification marked as read", n)
}

func (h *NotificationHandler) MarkAllAsRead(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUserID(r)
	if err != nil {
		writeError(w, err, "Failed to mark notifications as read")
		return
	}

	updated, err := h.notifications.MarkAllAsRead(r.Context(), userID)
	if err != nil {
		writeError(w, err, "Failed to mark notifications as read")
		return
	}
	writeJSON(w, http.StatusOK, "All notifications marked as read", map[string]int{"updated": updated})
}

func (h *NotificationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := notificationID(r)
	if err != nil {
		writeError(w, err, "Failed to delete notification")
		return
	}

	var body struct {
		UserID string `json:"userId"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err, "Failed to delete notification")
		return
	}

	if err := h.notifications.Delete(r.Context(), id, body.UserID); err != nil {
		writeError(w, err, "Failed to delete notification")
		return
	}
	writeJSON(w, http.StatusOK, "Notification deleted successfully", nil)
}

func (h *NotificationHandler) DeleteAllRead(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUserID(r)
	if err != nil {
		writeError(w, err, "Failed to delete notifications")
		return
	}

	deleted, err := h.notifications.DeleteAllRead(r.Context(), userID)
	if err != nil {
		writeError(w, err, "Failed to delete notifications")
		return
	}
	writeJSON(w, http.StatusOK, "Read notifications deleted successfully", map[string]int{"deleted": deleted})
}
