package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gelios02/HardwareStore/internal/domain/models"
)

var ErrNotificationNotFound = errors.New("notification not found")

// NotificationStorage описывает методы для работы с уведомлениями.
// Уведомления только добавляются; единственная мутация - пометка
// "прочитано" самим получателем.
type NotificationStorage interface {
	// CreateNotificationTx добавляет непрочитанное уведомление в рамках
	// транзакции, породившей событие.
	CreateNotificationTx(ctx context.Context, tx *sql.Tx, userID int64, message string) error
	// GetNotificationsByUserID возвращает уведомления получателя, свежие - первыми.
	GetNotificationsByUserID(ctx context.Context, userID int64) ([]*models.Notification, error)
	// UnreadCount возвращает число непрочитанных уведомлений.
	UnreadCount(ctx context.Context, userID int64) (int, error)
	// MarkRead помечает уведомление прочитанным; чужое уведомление
	// пометить нельзя.
	MarkRead(ctx context.Context, userID, notificationID int64) error
}

type notificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) NotificationStorage {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) CreateNotificationTx(ctx context.Context, tx *sql.Tx, userID int64, message string) error {
	query := `INSERT INTO notifications (user_id, message, read, created_at) VALUES ($1, $2, FALSE, NOW())`
	_, err := tx.ExecContext(ctx, query, userID, message)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

func (r *notificationRepository) GetNotificationsByUserID(ctx context.Context, userID int64) ([]*models.Notification, error) {
	query := `
		SELECT id, user_id, message, read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*models.Notification
	for rows.Next() {
		note := &models.Notification{}
		if err := rows.Scan(&note.ID, &note.UserID, &note.Message, &note.Read, &note.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, note)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *notificationRepository) UnreadCount(ctx context.Context, userID int64) (int, error) {
	var count int
	query := "SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND read = FALSE"
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, userID, notificationID int64) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE notifications SET read = TRUE WHERE id = $1 AND user_id = $2", notificationID, userID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}
