package models

import "time"

// роли пользователей; ролей всего две, как и в исходной постановке
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User представляет пользователя магазина
type User struct {
	ID        int64
	Username  string
	Email     string
	PassHash  []byte
	Role      string // "user" или "admin"
	CreatedAt time.Time
}

// IsAdmin сообщает, обладает ли пользователь правами администратора
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
