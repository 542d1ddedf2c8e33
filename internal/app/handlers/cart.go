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

// AddCartItemRequest представляет входной JSON для добавления в корзину.
type AddCartItemRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int   `json:"quantity" validate:"required,gt=0"`
}

// UpdateCartItemRequest представляет входной JSON для изменения количества.
// Нулевое или отрицательное количество удаляет позицию.
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// CartMessageResponse - структура ответа при изменении корзины.
type CartMessageResponse struct {
	Message string `json:"message"`
}

// GetCartHandler обрабатывает запрос GET /api/cart
func GetCartHandler(log *slog.Logger, cartService service.CartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.GetCartHandler"
		logger := log.With(slog.String("op", op))

		identity, ok := authmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("identity not found in context")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		view, err := cartService.View(r.Context(), identity.UserID)
		if err != nil {
			logger.Error("failed to get cart", slog.Any("error", err))
			writeError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(view); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
	}
}

// AddCartItemHandler обрабатывает запрос POST /api/cart/items
func AddCartItemHandler(log *slog.Logger, cartService service.CartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.AddCartItemHandler"
		logger := log.With(slog.String("op", op))

		var req AddCartItemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		if err := validate.Struct(req); err != nil {
			logger.Error("invalid request: validation error", slog.Any("error", err))
			http.Error(w, "validation error", http.StatusBadRequest)
			return
		}

		identity, ok := authmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("identity not found in context")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if err := cartService.Add(r.Context(), identity.UserID, req.ProductID, req.Quantity); err != nil {
			logger.Error("failed to add product to cart", slog.Any("error", err))
			writeError(w, err)
			return
		}

		resp := CartMessageResponse{Message: "Product added to cart"}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
	}
}

// UpdateCartItemHandler обрабатывает запрос PUT /api/cart/items/{productID}
func UpdateCartItemHandler(log *slog.Logger, cartService service.CartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.UpdateCartItemHandler"
		logger := log.With(slog.String("op", op))

		productID, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
		if err != nil {
			logger.Error("invalid product id", slog.Any("error", err))
			http.Error(w, "invalid product id", http.StatusBadRequest)
			return
		}

		var req UpdateCartItemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		identity, ok := authmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("identity not found in context")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if err := cartService.Update(r.Context(), identity.UserID, productID, req.Quantity); err != nil {
			logger.Error("failed to update cart", slog.Any("error", err))
			writeError(w, err)
			return
		}

		resp := CartMessageResponse{Message: "Cart updated"}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
	}
}

// RemoveCartItemHandler обрабатывает запрос DELETE /api/cart/items/{productID}
func RemoveCartItemHandler(log *slog.Logger, cartService service.CartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.RemoveCartItemHandler"
		logger := log.With(slog.String("op", op))

		productID, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
		if err != nil {
			logger.Error("invalid product id", slog.Any("error", err))
			http.Error(w, "invalid product id", http.StatusBadRequest)
			return
		}

		identity, ok := authmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("identity not found in context")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if err := cartService.Remove(r.Context(), identity.UserID, productID); err != nil {
			logger.Error("failed to remove product from cart", slog.Any("error", err))
			writeError(w, err)
			return
		}

		resp := CartMessageResponse{Message: "Product removed from cart"}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
	}
}
