package service

import (
	"errors"
	"fmt"
)

// Ошибки ядра оформления заказов. Все они восстановимы для пользователя:
// состояние не меняется, операцию можно повторить после корректировки.
var (
	ErrEmptyCart     = errors.New("cart is empty")
	ErrInvalidStatus = errors.New("invalid order status")
	ErrUserExists    = errors.New("user already exists")
	ErrInvalidInput  = errors.New("invalid input")
)

// InsufficientStockError сообщает, какого товара не хватило и сколько его
// осталось, чтобы пользователь мог уменьшить количество и повторить.
type InsufficientStockError struct {
	ProductID int64
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}
