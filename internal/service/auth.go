package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gelios02/HardwareStore/internal/auth"
	"github.com/gelios02/HardwareStore/internal/domain/models"
	"github.com/gelios02/HardwareStore/internal/storage"
	"golang.org/x/crypto/bcrypt"
)

// AuthService - справочник пользователей: регистрация и вход.
// Для остального ядра это внешний сотрудник, который на каждый запрос
// поставляет проверенную пару (userID, role) через JWT.
type AuthService interface {
	// Register создаёт пользователя с ролью user.
	Register(ctx context.Context, username, email, password string) error
	// Login проверяет пароль и возвращает подписанный токен.
	Login(ctx context.Context, email, password string) (string, error)
}

type authService struct {
	log      *slog.Logger
	userRepo storage.UserStorage
	tokenTTL time.Duration
}

func NewAuthService(log *slog.Logger, userRepo storage.UserStorage, tokenTTL time.Duration) AuthService {
	return &authService{
		log:      log,
		userRepo: userRepo,
		tokenTTL: tokenTTL,
	}
}

func (a *authService) Register(ctx context.Context, username, email, password string) error {
	const op = "service.AuthService.Register"
	logger := a.log.With(slog.String("op", op), slog.String("email", email))

	// пользователь с таким email регистрироваться повторно не должен
	if _, err := a.userRepo.GetUserByEmail(ctx, email); err == nil {
		logger.Warn("user already exists")
		return ErrUserExists
	} else if !errors.Is(err, storage.ErrUserNotFound) {
		logger.Error("failed to check existing user", slog.Any("error", err))
		return fmt.Errorf("%s: failed to check existing user: %w", op, err)
	}

	// Хеширование пароля с помощью bcrypt (автоматически добавляет соль)
	passHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("failed to hash password", slog.Any("error", err))
		return fmt.Errorf("%s: failed to hash password: %w", op, err)
	}

	newUser := &models.User{
		Username: username,
		Email:    email,
		PassHash: passHash,
		Role:     models.RoleUser,
	}
	if _, err := a.userRepo.CreateUser(ctx, newUser); err != nil {
		logger.Error("failed to create user", slog.Any("error", err))
		return fmt.Errorf("%s: failed to create user: %w", op, err)
	}

	logger.Info("user registered successfully")
	return nil
}

// Login осуществляет аутентификацию пользователя: введённый пароль
// сравнивается с сохранённым хэшем, после чего подписывается JWT-токен
// с идентификатором и ролью (секрет берётся из переменной окружения).
func (a *authService) Login(ctx context.Context, email, password string) (string, error) {
	const op = "service.AuthService.Login"
	logger := a.log.With(slog.String("op", op), slog.String("email", email))
	logger.Info("checking user")

	user, err := a.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			logger.Warn("user not found")
			return "", fmt.Errorf("%s: invalid credentials: %w", op, err)
		}
		logger.Error("failed to get user", slog.Any("error", err))
		return "", fmt.Errorf("%s: failed to get user: %w", op, err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PassHash, []byte(password)); err != nil {
		logger.Warn("invalid password")
		return "", fmt.Errorf("%s: invalid credentials: %w", op, err)
	}

	token, err := auth.NewToken(ctx, user, a.tokenTTL)
	if err != nil {
		logger.Error("failed to generate token", slog.Any("error", err))
		return "", fmt.Errorf("%s: failed to generate token: %w", op, err)
	}

	logger.Info("user logged in successfully", slog.Int64("userID", user.ID))
	return token, nil
}
