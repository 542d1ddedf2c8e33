package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gelios02/HardwareStore/internal/cart"
	"github.com/gelios02/HardwareStore/internal/domain/models"
	"github.com/gelios02/HardwareStore/internal/storage"
)

// CartService управляет корзиной текущей сессии.
type CartService interface {
	// Add кладёт товар в корзину; товар без остатка не добавляется.
	Add(ctx context.Context, userID, productID int64, qty int) error
	// Update выставляет новое количество; значение <= 0 удаляет позицию.
	Update(ctx context.Context, userID, productID int64, qty int) error
	// Remove убирает товар из корзины.
	Remove(ctx context.Context, userID, productID int64) error
	// View возвращает содержимое корзины с актуальными ценами и итогом.
	View(ctx context.Context, userID int64) (*CartView, error)
}

// CartView - корзина глазами пользователя: живые данные товара плюс
// промежуточные суммы. Пропавшие из каталога товары в выдачу не попадают.
type CartView struct {
	Items []CartViewItem `json:"items"`
	Total float64        `json:"total"`
}

type CartViewItem struct {
	Product  *models.Product `json:"product"`
	Quantity int             `json:"quantity"`
	Subtotal float64         `json:"subtotal"`
}

type cartService struct {
	log         *slog.Logger
	carts       *cart.Store
	productRepo storage.ProductStorage
}

func NewCartService(log *slog.Logger, carts *cart.Store, productRepo storage.ProductStorage) CartService {
	return &cartService{
		log:         log,
		carts:       carts,
		productRepo: productRepo,
	}
}

// Add проверяет наличие товара перед добавлением: позиция с нулевым
// остатком в корзину не попадает. Это только проверка на момент добавления,
// резервирование происходит при оформлении заказа.
func (s *cartService) Add(ctx context.Context, userID, productID int64, qty int) error {
	const op = "service.CartService.Add"
	logger := s.log.With(slog.String("op", op), slog.Int64("userID", userID), slog.Int64("productID", productID))

	if qty <= 0 {
		return fmt.Errorf("%s: quantity must be positive: %w", op, ErrInvalidInput)
	}

	product, err := s.productRepo.GetProductByID(ctx, productID)
	if err != nil {
		logger.Error("failed to get product", slog.Any("error", err))
		return fmt.Errorf("%s: failed to get product: %w", op, err)
	}
	if product.Quantity <= 0 {
		logger.Warn("product is out of stock")
		return &InsufficientStockError{ProductID: productID, Requested: qty, Available: 0}
	}

	s.carts.Add(userID, productID, qty)
	logger.Info("product added to cart", slog.Int("quantity", qty))
	return nil
}

func (s *cartService) Update(ctx context.Context, userID, productID int64, qty int) error {
	const op = "service.CartService.Update"

	s.carts.Update(userID, productID, qty)
	s.log.Info("cart updated", slog.String("op", op), slog.Int64("userID", userID),
		slog.Int64("productID", productID), slog.Int("quantity", qty))
	return nil
}

func (s *cartService) Remove(ctx context.Context, userID, productID int64) error {
	const op = "service.CartService.Remove"

	s.carts.Remove(userID, productID)
	s.log.Info("product removed from cart", slog.String("op", op),
		slog.Int64("userID", userID), slog.Int64("productID", productID))
	return nil
}

func (s *cartService) View(ctx context.Context, userID int64) (*CartView, error) {
	const op = "service.CartService.View"

	view := &CartView{Items: []CartViewItem{}}
	for _, line := range s.carts.Snapshot(userID) {
		product, err := s.productRepo.GetProductByID(ctx, line.ProductID)
		if err != nil {
			// товар мог быть удалён из каталога после добавления в корзину -
			// такие позиции просто не показываем
			if errors.Is(err, storage.ErrProductNotFound) {
				continue
			}
			s.log.Error("failed to get product", slog.String("op", op), slog.Any("error", err))
			return nil, fmt.Errorf("%s: failed to get product: %w", op, err)
		}
		subtotal := product.Price * float64(line.Quantity)
		view.Items = append(view.Items, CartViewItem{
			Product:  product,
			Quantity: line.Quantity,
			Subtotal: subtotal,
		})
		view.Total += subtotal
	}
	return view, nil
}
