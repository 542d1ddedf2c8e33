package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/gelios02/HardwareStore/internal/domain/models"
	"github.com/gelios02/HardwareStore/internal/service"
)

// Админские обработчики. Проверка роли выполняется одним middleware
// (RequireRole) на всей группе маршрутов до любой другой валидации,
// поэтому здесь роль уже не перепроверяется.

// UpdateOrderStatusRequest представляет входной JSON смены статуса заказа.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// ProductRequest представляет входной JSON создания/правки товара.
type ProductRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description" validate:"required"`
	Price       float64 `json:"price" validate:"gte=0"`
	Quantity    int     `json:"quantity" validate:"gte=0"`
	CategoryID  int64   `json:"category_id" validate:"required,gt=0"`
}

// AdminMessageResponse - структура ответа админских операций.
type AdminMessageResponse struct {
	Message string `json:"message"`
}

// AdminListOrdersHandler обрабатывает запрос GET /api/admin/orders
func AdminListOrdersHandler(log *slog.Logger, orderService service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.AdminListOrdersHandler"
		logger := log.With(slog.String("op", op))

		orders, err := orderService.ListAll(r.Context())
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

// AdminUpdateOrderStatusHandler обрабатывает запрос PUT /api/admin/orders/{id}/status
func AdminUpdateOrderStatusHandler(log *slog.Logger, orderService service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.AdminUpdateOrderStatusHandler"
		logger := log.With(slog.String("op", op))

		orderID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			logger.Error("invalid order id", slog.Any("error", err))
			http.Error(w, "invalid order id", http.StatusBadRequest)
			return
		}

		var req UpdateOrderStatusRequest
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

		if err := orderService.UpdateStatus(r.Context(), orderID, models.OrderStatus(req.Status)); err != nil {
			logger.Error("failed to update order status", slog.Any("error", err))
			writeError(w, err)
			return
		}

		resp := AdminMessageResponse{Message: "Order status updated"}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
	}
}

// AdminCreateProductHandler обрабатывает запрос POST /api/admin/products
func AdminCreateProductHandler(log *slog.Logger, productService service.ProductAdminService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.AdminCreateProductHandler"
		logger := log.With(slog.String("op", op))

		var req ProductRequest
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

		product := &models.Product{
			Name:        req.Name,
			Description: req.Description,
			Price:       req.Price,
			Quantity:    req.Quantity,
			CategoryID:  req.CategoryID,
		}
		created, err := productService.Create(r.Context(), product)
		if err != nil {
			logger.Error("failed to create product", slog.Any("error", err))
			writeError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		if err := json.NewEncoder(w).Encode(created); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
		}
	}
}

// AdminUpdateProductHandler обрабатывает запрос PUT /api/admin/products/{id}
func AdminUpdateProductHandler(log *slog.Logger, productService service.ProductAdminService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.AdminUpdateProductHandler"
		logger := log.With(slog.String("op", op))

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			logger.Error("invalid product id", slog.Any("error", err))
			http.Error(w, "invalid product id", http.StatusBadRequest)
			return
		}

		var req ProductRequest
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

		product := &models.Product{
			ID:          id,
			Name:        req.Name,
			Description: req.Description,
			Price:       req.Price,
			Quantity:    req.Quantity,
			CategoryID:  req.CategoryID,
		}
		if err := productService.Update(r.Context(), product); err != nil {
			logger.Error("failed to update product", slog.Any("error", err))
			writeError(w, err)
			return
		}

		resp := AdminMessageResponse{Message: "Product updated"}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
	}
}

// AdminDeleteProductHandler обрабатывает запрос DELETE /api/admin/products/{id}
func AdminDeleteProductHandler(log *slog.Logger, productService service.ProductAdminService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.AdminDeleteProductHandler"
		logger := log.With(slog.String("op", op))

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			logger.Error("invalid product id", slog.Any("error", err))
			http.Error(w, "invalid product id", http.StatusBadRequest)
			return
		}

		if err := productService.Delete(r.Context(), id); err != nil {
			logger.Error("failed to delete product", slog.Any("error", err))
			writeError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
