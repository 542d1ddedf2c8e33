package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gelios02/HardwareStore/internal/domain/models"
	"github.com/lib/pq"
)

var ErrOrderNotFound = errors.New("order not found")

// OrderStorage описывает методы для работы с заказами.
// Заказ и его позиции - единый агрегат: создаются в одной транзакции,
// читаются всегда вместе. Позиции после создания не изменяются.
type OrderStorage interface {
	// CreateOrderTx вставляет шапку заказа в статусе pending и возвращает её id.
	CreateOrderTx(ctx context.Context, tx *sql.Tx, userID int64) (int64, error)
	// CreateOrderItemTx вставляет позицию заказа со снимком названия и цены товара.
	CreateOrderItemTx(ctx context.Context, tx *sql.Tx, item *models.OrderItem) error
	// LockOrderByIDTx читает заказ (без позиций) под блокировкой строки.
	LockOrderByIDTx(ctx context.Context, tx *sql.Tx, id int64) (*models.Order, error)
	// UpdateOrderStatusTx меняет статус заказа.
	UpdateOrderStatusTx(ctx context.Context, tx *sql.Tx, id int64, status models.OrderStatus) error
	// GetOrdersByUserID возвращает заказы пользователя вместе с позициями,
	// свежие - первыми.
	GetOrdersByUserID(ctx context.Context, userID int64) ([]*models.Order, error)
	// GetOrdersByUserAndStatus возвращает заказы пользователя в заданном статусе.
	GetOrdersByUserAndStatus(ctx context.Context, userID int64, status models.OrderStatus) ([]*models.Order, error)
	// GetAllOrders возвращает все заказы магазина (админский обзор).
	GetAllOrders(ctx context.Context) ([]*models.Order, error)
}

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository создаёт новый репозиторий заказов.
func NewOrderRepository(db *sql.DB) OrderStorage {
	return &orderRepository{db: db}
}

func (r *orderRepository) CreateOrderTx(ctx context.Context, tx *sql.Tx, userID int64) (int64, error) {
	var id int64
	query := `INSERT INTO orders (user_id, status, created_at) VALUES ($1, $2, NOW()) RETURNING id`
	if err := tx.QueryRowContext(ctx, query, userID, models.OrderStatusPending).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to create order: %w", err)
	}
	return id, nil
}

func (r *orderRepository) CreateOrderItemTx(ctx context.Context, tx *sql.Tx, item *models.OrderItem) error {
	query := `INSERT INTO order_items (order_id, product_id, product_name, unit_price, quantity)
	          VALUES ($1, $2, $3, $4, $5)`
	_, err := tx.ExecContext(ctx, query, item.OrderID, item.ProductID, item.ProductName, item.UnitPrice, item.Quantity)
	if err != nil {
		return fmt.Errorf("failed to create order item: %w", err)
	}
	return nil
}

func (r *orderRepository) LockOrderByIDTx(ctx context.Context, tx *sql.Tx, id int64) (*models.Order, error) {
	order := &models.Order{}
	query := "SELECT id, user_id, status, created_at FROM orders WHERE id = $1 FOR UPDATE NOWAIT"
	row := tx.QueryRowContext(ctx, query, id)
	if err := row.Scan(&order.ID, &order.UserID, &order.Status, &order.CreatedAt); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "55P03" { // lock
				return nil, fmt.Errorf("resource is locked, please try again: %w", err)
			}
		}
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) UpdateOrderStatusTx(ctx context.Context, tx *sql.Tx, id int64, status models.OrderStatus) error {
	res, err := tx.ExecContext(ctx, "UPDATE orders SET status = $1 WHERE id = $2", status, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *orderRepository) GetOrdersByUserID(ctx context.Context, userID int64) ([]*models.Order, error) {
	query := `
		SELECT id, user_id, status, created_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC`
	return r.queryOrders(ctx, query, userID)
}

func (r *orderRepository) GetOrdersByUserAndStatus(ctx context.Context, userID int64, status models.OrderStatus) ([]*models.Order, error) {
	query := `
		SELECT id, user_id, status, created_at
		FROM orders
		WHERE user_id = $1 AND status = $2
		ORDER BY created_at DESC`
	return r.queryOrders(ctx, query, userID, status)
}

func (r *orderRepository) GetAllOrders(ctx context.Context) ([]*models.Order, error) {
	query := `
		SELECT id, user_id, status, created_at
		FROM orders
		ORDER BY created_at DESC`
	return r.queryOrders(ctx, query)
}

func (r *orderRepository) queryOrders(ctx context.Context, query string, args ...interface{}) ([]*models.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		order := &models.Order{}
		if err := rows.Scan(&order.ID, &order.UserID, &order.Status, &order.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.loadItems(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// loadItems дочитывает позиции для набора заказов одним запросом
func (r *orderRepository) loadItems(ctx context.Context, orders []*models.Order) error {
	if len(orders) == 0 {
		return nil
	}

	byID := make(map[int64]*models.Order, len(orders))
	ids := make([]int64, 0, len(orders))
	for _, order := range orders {
		byID[order.ID] = order
		ids = append(ids, order.ID)
	}

	query := `
		SELECT id, order_id, product_id, product_name, unit_price, quantity
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		item := &models.OrderItem{}
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.ProductName, &item.UnitPrice, &item.Quantity); err != nil {
			return fmt.Errorf("failed to scan order item: %w", err)
		}
		if order, ok := byID[item.OrderID]; ok {
			order.Items = append(order.Items, item)
		}
	}
	return rows.Err()
}
