package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gelios02/HardwareStore/internal/auth/authmiddleware"
	"github.com/gelios02/HardwareStore/internal/service"
)

// ListOrdersHandler обрабатывает запрос GET /api/orders
func ListOrdersHandler(log *slog.Logger, orderService service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ListOrdersHandler"
		logger := log.With(slog.String("op", op))

		identity, ok := authmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("identity not found in context")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		orders, err := orderService.ListByUser(r.Context(), identity.UserID)
		if err != nil {
			logger.Error("failed to list orders", slog.Any("error", err))
			writeError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(orders); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
	}
}

// PurchaseHistoryHandler обрабатывает запрос GET /api/orders/history:
// выкупленные заказы пользователя (статус sold)
func PurchaseHistoryHandler(log *slog.Logger, orderService service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.PurchaseHistoryHandler"
		logger := log.With(slog.String("op", op))

		identity, ok := authmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("identity not found in context")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		orders, err := orderService.PurchaseHistory(r.Context(), identity.UserID)
		if err != nil {
			logger.Error("failed to get purchase history", slog.Any("error", err))
			writeError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(orders); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
	}
}
