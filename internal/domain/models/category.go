package models

// Category представляет категорию каталога товаров
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
