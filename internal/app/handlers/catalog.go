package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/gelios02/HardwareStore/internal/service"
)

// ListProductsHandler обрабатывает запрос GET /api/products.
// Поддерживает поиск по подстроке имени (?q=) и фильтр по категории (?category=).
func ListProductsHandler(log *slog.Logger, catalogService service.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ListProductsHandler"
		logger := log.With(slog.String("op", op))

		query := r.URL.Query().Get("q")

		var categoryID int64
		if raw := r.URL.Query().Get("category"); raw != "" {
			parsed, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				logger.Error("invalid category parameter", slog.String("category", raw))
				http.Error(w, "invalid category parameter", http.StatusBadRequest)
				return
			}
			categoryID = parsed
		}

		products, err := catalogService.ListProducts(r.Context(), query, categoryID)
		if err != nil {
			logger.Error("failed to list products", slog.Any("error", err))
			writeError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(products); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
	}
}

// GetProductHandler обрабатывает запрос GET /api/products/{id}
func GetProductHandler(log *slog.Logger, catalogService service.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.GetProductHandler"
		logger := log.With(slog.String("op", op))

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			logger.Error("invalid product id", slog.Any("error", err))
			http.Error(w, "invalid product id", http.StatusBadRequest)
			return
		}

		product, err := catalogService.GetProduct(r.Context(), id)
		if err != nil {
			logger.Error("failed to get product", slog.Any("error", err))
			writeError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(product); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
	}
}

// ListCategoriesHandler обрабатывает запрос GET /api/categories
func ListCategoriesHandler(log *slog.Logger, catalogService service.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ListCategoriesHandler"
		logger := log.With(slog.String("op", op))

		categories, err := catalogService.ListCategories(r.Context())
		if err != nil {
			logger.Error("failed to list categories", slog.Any("error", err))
			writeError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(categories); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
	}
}
