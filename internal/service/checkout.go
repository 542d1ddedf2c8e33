package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gelios02/HardwareStore/internal/cart"
	"github.com/gelios02/HardwareStore/internal/domain/models"
	"github.com/gelios02/HardwareStore/internal/storage"
)

// CheckoutService превращает корзину в заказ.
type CheckoutService interface {
	// Checkout оформляет текущую корзину пользователя и возвращает id
	// созданного заказа.
	Checkout(ctx context.Context, userID int64) (int64, error)
}

type checkoutService struct {
	log         *slog.Logger
	db          *sql.DB
	carts       *cart.Store
	userRepo    storage.UserStorage
	productRepo storage.ProductStorage
	orderRepo   storage.OrderStorage
	noteRepo    storage.NotificationStorage
}

func NewCheckoutService(
	log *slog.Logger,
	db *sql.DB,
	carts *cart.Store,
	userRepo storage.UserStorage,
	productRepo storage.ProductStorage,
	orderRepo storage.OrderStorage,
	noteRepo storage.NotificationStorage,
) CheckoutService {
	return &checkoutService{
		log:         log,
		db:          db,
		carts:       carts,
		userRepo:    userRepo,
		productRepo: productRepo,
		orderRepo:   orderRepo,
		noteRepo:    noteRepo,
	}
}

// Checkout оформляет заказ по принципу "всё или ничего": шапка заказа,
// позиции, списания остатков и уведомления администраторам пишутся одной
// транзакцией. Остаток каждого товара перепроверяется под блокировкой
// строки уже внутри транзакции - при добавлении в корзину он только
// проверялся, но не резервировался. Если хоть одной позиции не хватает,
// транзакция откатывается целиком, корзина остаётся нетронутой.
func (s *checkoutService) Checkout(ctx context.Context, userID int64) (int64, error) {
	const op = "service.CheckoutService.Checkout"
	logger := s.log.With(slog.String("op", op), slog.Int64("userID", userID))

	snapshot := s.carts.Snapshot(userID)
	if len(snapshot) == 0 {
		logger.Warn("cart is empty")
		return 0, ErrEmptyCart
	}
	logger.Info("starting checkout transaction", slog.Int("items", len(snapshot)))

	buyer, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		logger.Error("failed to get buyer", slog.Any("error", err))
		return 0, fmt.Errorf("%s: failed to get buyer: %w", op, err)
	}

	adminIDs, err := s.userRepo.GetAdminIDs(ctx)
	if err != nil {
		logger.Error("failed to get admin ids", slog.Any("error", err))
		return 0, fmt.Errorf("%s: failed to get admin ids: %w", op, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("failed to begin transaction", slog.Any("error", err))
		return 0, fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}

	orderID, err := s.orderRepo.CreateOrderTx(ctx, tx, userID)
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("transaction rollback failed", slog.Any("error", rbErr))
		}
		logger.Error("failed to create order", slog.Any("error", err))
		return 0, fmt.Errorf("%s: failed to create order: %w", op, err)
	}

	// позиции обходим в порядке снимка корзины, чтобы при нехватке товара
	// пользователь всегда получал жалобу на одну и ту же позицию
	for _, line := range snapshot {
		product, err := s.productRepo.LockProductByIDTx(ctx, tx, line.ProductID)
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logger.Error("transaction rollback failed", slog.Any("error", rbErr))
			}
			logger.Error("failed to lock product", slog.Int64("productID", line.ProductID), slog.Any("error", err))
			return 0, fmt.Errorf("%s: failed to lock product %d: %w", op, line.ProductID, err)
		}

		if product.Quantity < line.Quantity {
			if rbErr := tx.Rollback(); rbErr != nil {
				logger.Error("transaction rollback failed", slog.Any("error", rbErr))
			}
			logger.Warn("insufficient stock",
				slog.Int64("productID", product.ID),
				slog.Int("requested", line.Quantity),
				slog.Int("available", product.Quantity),
			)
			return 0, &InsufficientStockError{
				ProductID: product.ID,
				Requested: line.Quantity,
				Available: product.Quantity,
			}
		}

		if err := s.productRepo.DecrementStockTx(ctx, tx, product.ID, line.Quantity); err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logger.Error("transaction rollback failed", slog.Any("error", rbErr))
			}
			if errors.Is(err, storage.ErrStockConflict) {
				return 0, &InsufficientStockError{
					ProductID: product.ID,
					Requested: line.Quantity,
					Available: product.Quantity,
				}
			}
			logger.Error("failed to decrement stock", slog.Any("error", err))
			return 0, fmt.Errorf("%s: failed to decrement stock: %w", op, err)
		}

		item := &models.OrderItem{
			OrderID:     orderID,
			ProductID:   product.ID,
			ProductName: product.Name,
			UnitPrice:   product.Price,
			Quantity:    line.Quantity,
		}
		if err := s.orderRepo.CreateOrderItemTx(ctx, tx, item); err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logger.Error("transaction rollback failed", slog.Any("error", rbErr))
			}
			logger.Error("failed to create order item", slog.Any("error", err))
			return 0, fmt.Errorf("%s: failed to create order item: %w", op, err)
		}

		// уведомляем каждого администратора о каждой купленной позиции
		message := fmt.Sprintf("User %s purchased %s (quantity: %d)", buyer.Username, product.Name, line.Quantity)
		for _, adminID := range adminIDs {
			if err := s.noteRepo.CreateNotificationTx(ctx, tx, adminID, message); err != nil {
				if rbErr := tx.Rollback(); rbErr != nil {
					logger.Error("transaction rollback failed", slog.Any("error", rbErr))
				}
				logger.Error("failed to create admin notification", slog.Any("error", err))
				return 0, fmt.Errorf("%s: failed to create admin notification: %w", op, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		logger.Error("failed to commit transaction", slog.Any("error", err))
		return 0, fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}

	// корзина очищается только после успешного коммита
	s.carts.Clear(userID)

	logger.Info("checkout completed successfully", slog.Int64("orderID", orderID))
	return orderID, nil
}
