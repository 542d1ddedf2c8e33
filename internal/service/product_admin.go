package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gelios02/HardwareStore/internal/domain/models"
	"github.com/gelios02/HardwareStore/internal/storage"
)

// ProductAdminService - административная правка каталога. Вместе с
// оформлением заказа это единственный путь изменения остатков.
type ProductAdminService interface {
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id int64) error
}

type productAdminService struct {
	log         *slog.Logger
	productRepo storage.ProductStorage
}

func NewProductAdminService(log *slog.Logger, productRepo storage.ProductStorage) ProductAdminService {
	return &productAdminService{
		log:         log,
		productRepo: productRepo,
	}
}

func (s *productAdminService) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	const op = "service.ProductAdminService.Create"
	logger := s.log.With(slog.String("op", op), slog.String("name", product.Name))

	if product.Price < 0 || product.Quantity < 0 {
		logger.Warn("negative price or quantity")
		return nil, fmt.Errorf("%s: price and quantity must be non-negative: %w", op, ErrInvalidInput)
	}

	created, err := s.productRepo.CreateProduct(ctx, product)
	if err != nil {
		logger.Error("failed to create product", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to create product: %w", op, err)
	}

	logger.Info("product created", slog.Int64("productID", created.ID))
	return created, nil
}

func (s *productAdminService) Update(ctx context.Context, product *models.Product) error {
	const op = "service.ProductAdminService.Update"
	logger := s.log.With(slog.String("op", op), slog.Int64("productID", product.ID))

	if product.Price < 0 || product.Quantity < 0 {
		logger.Warn("negative price or quantity")
		return fmt.Errorf("%s: price and quantity must be non-negative: %w", op, ErrInvalidInput)
	}

	if err := s.productRepo.UpdateProduct(ctx, product); err != nil {
		logger.Error("failed to update product", slog.Any("error", err))
		return fmt.Errorf("%s: failed to update product: %w", op, err)
	}

	logger.Info("product updated")
	return nil
}

func (s *productAdminService) Delete(ctx context.Context, id int64) error {
	const op = "service.ProductAdminService.Delete"
	logger := s.log.With(slog.String("op", op), slog.Int64("productID", id))

	if err := s.productRepo.DeleteProduct(ctx, id); err != nil {
		logger.Error("failed to delete product", slog.Any("error", err))
		return fmt.Errorf("%s: failed to delete product: %w", op, err)
	}

	logger.Info("product deleted")
	return nil
}
