package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/gelios02/HardwareStore/internal/domain/models"
)

var ErrUserNotFound = errors.New("user not found")

// UserStorage описывает методы для работы с таблицей пользователей.
type UserStorage interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	// GetAdminIDs возвращает идентификаторы всех администраторов -
	// получателей уведомлений о покупках.
	GetAdminIDs(ctx context.Context) ([]int64, error)
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) UserStorage {
	return &userRepository{db: db}
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user := &models.User{}
	row := r.db.QueryRowContext(ctx,
		"SELECT id, username, email, pass_hash, role FROM users WHERE email = $1", email)
	if err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PassHash, &user.Role); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (r *userRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	user := &models.User{}
	row := r.db.QueryRowContext(ctx,
		"SELECT id, username, email, pass_hash, role FROM users WHERE id = $1", id)
	if err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PassHash, &user.Role); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (r *userRepository) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		"INSERT INTO users (username, email, pass_hash, role) VALUES ($1, $2, $3, $4) RETURNING id",
		user.Username, user.Email, user.PassHash, user.Role,
	).Scan(&id)
	if err != nil {
		return nil, err
	}
	user.ID = id
	return user, nil
}

func (r *userRepository) GetAdminIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id FROM users WHERE role = $1 ORDER BY id", models.RoleAdmin)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}
