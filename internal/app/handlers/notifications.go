package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/gelios02/HardwareStore/internal/auth/authmiddleware"
	"github.com/gelios02/HardwareStore/internal/service"
)

// UnreadCountResponse - счётчик непрочитанных уведомлений для шапки страницы.
type UnreadCountResponse struct {
	Count int `json:"count"`
}

// ListNotificationsHandler обрабатывает запрос GET /api/notifications
func ListNotificationsHandler(log *slog.Logger, notificationService service.NotificationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ListNotificationsHandler"
		logger := log.With(slog.String("op", op))

		identity, ok := authmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("identity not found in context")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		notifications, err := notificationService.List(r.Context(), identity.UserID)
		if err != nil {
			logger.Error("failed to list notifications", slog.Any("error", err))
			writeError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(notifications); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
	}
}

// UnreadCountHandler обрабатывает запрос GET /api/notifications/unread-count
func UnreadCountHandler(log *slog.Logger, notificationService service.NotificationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.UnreadCountHandler"
		logger := log.With(slog.String("op", op))

		identity, ok := authmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("identity not found in context")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		count, err := notificationService.UnreadCount(r.Context(), identity.UserID)
		if err != nil {
			logger.Error("failed to count unread notifications", slog.Any("error", err))
			writeError(w, err)
			return
		}

		resp := UnreadCountResponse{Count: count}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
	}
}

// MarkNotificationReadHandler обрабатывает запрос POST /api/notifications/{id}/read.
// Пометить можно только своё уведомление.
func MarkNotificationReadHandler(log *slog.Logger, notificationService service.NotificationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.MarkNotificationReadHandler"
		logger := log.With(slog.String("op", op))

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			logger.Error("invalid notification id", slog.Any("error", err))
			http.Error(w, "invalid notification id", http.StatusBadRequest)
			return
		}

		identity, ok := authmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("identity not found in context")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if err := notificationService.MarkRead(r.Context(), identity.UserID, id); err != nil {
			logger.Error("failed to mark notification read", slog.Any("error", err))
			writeError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
