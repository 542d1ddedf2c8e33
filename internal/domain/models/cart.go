package models

// CartItem - строка снимка корзины: сколько единиц какого товара
// пользователь хочет купить
type CartItem struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}
