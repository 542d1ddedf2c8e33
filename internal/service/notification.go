package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gelios02/HardwareStore/internal/domain/models"
	"github.com/gelios02/HardwareStore/internal/storage"
)

// NotificationService - читающая сторона ящика уведомлений.
// Сами уведомления создаются внутри транзакций оформления заказа и смены
// статуса, здесь их только читают и помечают прочитанными.
type NotificationService interface {
	List(ctx context.Context, userID int64) ([]*models.Notification, error)
	// UnreadCount читается на каждом рендере страницы - это
	// сквозной счётчик, не часть транзакционного ядра.
	UnreadCount(ctx context.Context, userID int64) (int, error)
	MarkRead(ctx context.Context, userID, notificationID int64) error
}

type notificationService struct {
	log      *slog.Logger
	noteRepo storage.NotificationStorage
}

func NewNotificationService(log *slog.Logger, noteRepo storage.NotificationStorage) NotificationService {
	return &notificationService{
		log:      log,
		noteRepo: noteRepo,
	}
}

func (s *notificationService) List(ctx context.Context, userID int64) ([]*models.Notification, error) {
	const op = "service.NotificationService.List"

	notifications, err := s.noteRepo.GetNotificationsByUserID(ctx, userID)
	if err != nil {
		s.log.Error("failed to get notifications", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get notifications: %w", op, err)
	}
	return notifications, nil
}

func (s *notificationService) UnreadCount(ctx context.Context, userID int64) (int, error) {
	const op = "service.NotificationService.UnreadCount"

	count, err := s.noteRepo.UnreadCount(ctx, userID)
	if err != nil {
		s.log.Error("failed to count unread notifications", slog.String("op", op), slog.Any("error", err))
		return 0, fmt.Errorf("%s: failed to count unread notifications: %w", op, err)
	}
	return count, nil
}

func (s *notificationService) MarkRead(ctx context.Context, userID, notificationID int64) error {
	const op = "service.NotificationService.MarkRead"
	logger := s.log.With(slog.String("op", op), slog.Int64("userID", userID), slog.Int64("notificationID", notificationID))

	if err := s.noteRepo.MarkRead(ctx, userID, notificationID); err != nil {
		logger.Error("failed to mark notification read", slog.Any("error", err))
		return fmt.Errorf("%s: failed to mark notification read: %w", op, err)
	}
	logger.Info("notification marked as read")
	return nil
}
