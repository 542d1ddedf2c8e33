package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/gelios02/HardwareStore/internal/domain/models"
	"github.com/gelios02/HardwareStore/internal/storage"
)

// OrderService управляет жизненным циклом заказов после оформления.
type OrderService interface {
	// UpdateStatus переводит заказ в один из допустимых статусов
	// (accepted/sold/cancelled) и уведомляет владельца заказа.
	UpdateStatus(ctx context.Context, orderID int64, status models.OrderStatus) error
	// ListByUser возвращает заказы пользователя.
	ListByUser(ctx context.Context, userID int64) ([]*models.Order, error)
	// PurchaseHistory возвращает выкупленные заказы пользователя (статус sold).
	PurchaseHistory(ctx context.Context, userID int64) ([]*models.Order, error)
	// ListAll возвращает все заказы магазина (админский обзор).
	ListAll(ctx context.Context) ([]*models.Order, error)
}

type orderService struct {
	log       *slog.Logger
	db        *sql.DB
	orderRepo storage.OrderStorage
	noteRepo  storage.NotificationStorage
}

func NewOrderService(log *slog.Logger, db *sql.DB, orderRepo storage.OrderStorage, noteRepo storage.NotificationStorage) OrderService {
	return &orderService{
		log:       log,
		db:        db,
		orderRepo: orderRepo,
		noteRepo:  noteRepo,
	}
}

// UpdateStatus меняет статус заказа и в той же транзакции пишет уведомление
// владельцу. Недопустимый целевой статус отклоняется до любых обращений к БД.
// Отмена заказа не возвращает товар на склад - остаток правится только
// руками администратора.
func (s *orderService) UpdateStatus(ctx context.Context, orderID int64, status models.OrderStatus) error {
	const op = "service.OrderService.UpdateStatus"
	logger := s.log.With(slog.String("op", op), slog.Int64("orderID", orderID), slog.String("status", string(status)))

	if !models.ValidDestinationStatus(status) {
		logger.Warn("invalid destination status")
		return ErrInvalidStatus
	}
	logger.Info("starting status update transaction")

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("failed to begin transaction", slog.Any("error", err))
		return fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}

	order, err := s.orderRepo.LockOrderByIDTx(ctx, tx, orderID)
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("transaction rollback failed", slog.Any("error", rbErr))
		}
		logger.Error("failed to lock order", slog.Any("error", err))
		return fmt.Errorf("%s: failed to lock order: %w", op, err)
	}

	if err := s.orderRepo.UpdateOrderStatusTx(ctx, tx, orderID, status); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("transaction rollback failed", slog.Any("error", rbErr))
		}
		logger.Error("failed to update status", slog.Any("error", err))
		return fmt.Errorf("%s: failed to update status: %w", op, err)
	}

	message := fmt.Sprintf("Your order #%d status changed to %s", orderID, status)
	if err := s.noteRepo.CreateNotificationTx(ctx, tx, order.UserID, message); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("transaction rollback failed", slog.Any("error", rbErr))
		}
		logger.Error("failed to create owner notification", slog.Any("error", err))
		return fmt.Errorf("%s: failed to create owner notification: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		logger.Error("failed to commit transaction", slog.Any("error", err))
		return fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}

	logger.Info("order status updated successfully")
	return nil
}

func (s *orderService) ListByUser(ctx context.Context, userID int64) ([]*models.Order, error) {
	const op = "service.OrderService.ListByUser"

	orders, err := s.orderRepo.GetOrdersByUserID(ctx, userID)
	if err != nil {
		s.log.Error("failed to get orders", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get orders: %w", op, err)
	}
	return orders, nil
}

func (s *orderService) PurchaseHistory(ctx context.Context, userID int64) ([]*models.Order, error) {
	const op = "service.OrderService.PurchaseHistory"

	orders, err := s.orderRepo.GetOrdersByUserAndStatus(ctx, userID, models.OrderStatusSold)
	if err != nil {
		s.log.Error("failed to get purchase history", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get purchase history: %w", op, err)
	}
	return orders, nil
}

func (s *orderService) ListAll(ctx context.Context) ([]*models.Order, error) {
	const op = "service.OrderService.ListAll"

	orders, err := s.orderRepo.GetAllOrders(ctx)
	if err != nil {
		s.log.Error("failed to get all orders", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get all orders: %w", op, err)
	}
	return orders, nil
}
