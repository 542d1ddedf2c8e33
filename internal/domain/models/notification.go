package models

import "time"

// Notification представляет уведомление в ящике пользователя.
// Создаётся системой (оформление заказа, смена статуса), получатель может
// только пометить его прочитанным.
type Notification struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}
