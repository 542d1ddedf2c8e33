package models

// Product представляет товар на складе.
// Quantity меняется только через оформление заказа или правку администратором
// и никогда не опускается ниже нуля.
type Product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	CategoryID  int64   `json:"category_id"`
}
