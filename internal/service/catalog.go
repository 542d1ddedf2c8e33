package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gelios02/HardwareStore/internal/domain/models"
	"github.com/gelios02/HardwareStore/internal/storage"
)

// CatalogService - читающая сторона каталога: список товаров с поиском и
// фильтром по категории, карточка товара, список категорий.
type CatalogService interface {
	ListProducts(ctx context.Context, query string, categoryID int64) ([]*models.Product, error)
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
	ListCategories(ctx context.Context) ([]*models.Category, error)
}

type catalogService struct {
	log          *slog.Logger
	productRepo  storage.ProductStorage
	categoryRepo storage.CategoryStorage
}

func NewCatalogService(log *slog.Logger, productRepo storage.ProductStorage, categoryRepo storage.CategoryStorage) CatalogService {
	return &catalogService{
		log:          log,
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
	}
}

func (s *catalogService) ListProducts(ctx context.Context, query string, categoryID int64) ([]*models.Product, error) {
	const op = "service.CatalogService.ListProducts"

	products, err := s.productRepo.ListProducts(ctx, query, categoryID)
	if err != nil {
		s.log.Error("failed to list products", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to list products: %w", op, err)
	}
	return products, nil
}

func (s *catalogService) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	const op = "service.CatalogService.GetProduct"

	product, err := s.productRepo.GetProductByID(ctx, id)
	if err != nil {
		s.log.Error("failed to get product", slog.String("op", op), slog.Int64("productID", id), slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get product: %w", op, err)
	}
	return product, nil
}

func (s *catalogService) ListCategories(ctx context.Context) ([]*models.Category, error) {
	const op = "service.CatalogService.ListCategories"

	categories, err := s.categoryRepo.ListCategories(ctx)
	if err != nil {
		s.log.Error("failed to list categories", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to list categories: %w", op, err)
	}
	return categories, nil
}
