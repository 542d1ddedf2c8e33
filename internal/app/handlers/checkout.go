package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gelios02/HardwareStore/internal/auth/authmiddleware"
	"github.com/gelios02/HardwareStore/internal/service"
)

// CheckoutResponse - структура ответа при успешном оформлении заказа.
// OrdersURL подсказывает клиенту, где смотреть созданный заказ.
type CheckoutResponse struct {
	OrderID   int64  `json:"order_id"`
	Message   string `json:"message"`
	OrdersURL string `json:"orders_url"`
}

// CheckoutHandler обрабатывает запрос POST /api/checkout: оформляет текущую
// корзину пользователя целиком. При нехватке товара ничего не меняется и
// корзина остаётся как была - пользователь может поправить количество и
// повторить запрос.
func CheckoutHandler(log *slog.Logger, checkoutService service.CheckoutService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CheckoutHandler"
		logger := log.With(slog.String("op", op))

		identity, ok := authmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("identity not found in context")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		orderID, err := checkoutService.Checkout(r.Context(), identity.UserID)
		if err != nil {
			logger.Error("checkout failed", slog.Any("error", err))
			writeError(w, err)
			return
		}

		resp := CheckoutResponse{
			OrderID:   orderID,
			Message:   "Order placed, awaiting confirmation",
			OrdersURL: "/api/orders",
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
		}
	}
}
