package models

import "time"

// OrderStatus - статус жизненного цикла заказа
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusAccepted  OrderStatus = "accepted"
	OrderStatusSold      OrderStatus = "sold"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// ValidDestinationStatus проверяет, что статус входит в множество допустимых
// целевых статусов. Начальный pending выставляется только системой при
// оформлении заказа, назначить его руками нельзя.
func ValidDestinationStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusAccepted, OrderStatusSold, OrderStatusCancelled:
		return true
	}
	return false
}

// Order представляет заказ, созданный при оформлении корзины.
// Заказ владеет своими позициями: создаются и читаются они всегда вместе.
type Order struct {
	ID        int64        `json:"id"`
	UserID    int64        `json:"user_id"`
	Status    OrderStatus  `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
	Items     []*OrderItem `json:"items"`
}

// OrderItem - позиция заказа. Название и цена товара фиксируются на момент
// покупки, чтобы история оставалась читаемой после удаления товара.
// После создания позиция не меняется.
type OrderItem struct {
	ID          int64   `json:"id"`
	OrderID     int64   `json:"order_id"`
	ProductID   int64   `json:"product_id"`
	ProductName string  `json:"product_name"`
	UnitPrice   float64 `json:"unit_price"`
	Quantity    int     `json:"quantity"`
}
