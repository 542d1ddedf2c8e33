package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pkg/errors"

	"github.com/gelios02/HardwareStore/internal/app"
	"github.com/gelios02/HardwareStore/internal/app/handlers"
	"github.com/gelios02/HardwareStore/internal/auth/authmiddleware"
	"github.com/gelios02/HardwareStore/internal/cart"
	"github.com/gelios02/HardwareStore/internal/config"
	"github.com/gelios02/HardwareStore/internal/domain/models"
	"github.com/gelios02/HardwareStore/internal/lib/logger"
	"github.com/gelios02/HardwareStore/internal/lib/logger/handlers/urllog"
	"github.com/gelios02/HardwareStore/internal/service"
	"github.com/gelios02/HardwareStore/internal/storage"
)

func main() {
	// загрузка конфигурации
	cfg := config.MustLoad()

	// инициализация логгера, зависит от настройки окружения
	log := logger.SetupLogger(cfg.Env)
	log.Info("starting app", slog.String("env", cfg.Env))

	// загружаем объект приложения, конфигом и подключением к БД
	application, err := app.NewApp(log, cfg)
	if err != nil {
		log.Error("failed to initialize app", slog.Any("error", err))
		panic(errors.Wrap(err, "failed to initialize app"))
	}
	defer application.DB.Close()

	router := chi.NewRouter()
	// настройка middleware
	router.Use(middleware.RequestID)
	router.Use(urllog.CustomLoggerMiddleware(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)

	// реализация слоев по работе с БД по каждому направлению
	userRepo := storage.NewUserRepository(application.DB)
	productRepo := storage.NewProductRepository(application.DB)
	categoryRepo := storage.NewCategoryRepository(application.DB)
	orderRepo := storage.NewOrderRepository(application.DB)
	noteRepo := storage.NewNotificationRepository(application.DB)

	// корзины живут в памяти процесса и привязаны к сессии пользователя
	carts := cart.NewStore()

	authService := service.NewAuthService(application.Logger, userRepo, time.Duration(application.Config.JWT.TokenTTL)*time.Minute)
	catalogService := service.NewCatalogService(application.Logger, productRepo, categoryRepo)
	cartService := service.NewCartService(application.Logger, carts, productRepo)
	checkoutService := service.NewCheckoutService(application.Logger, application.DB, carts, userRepo, productRepo, orderRepo, noteRepo)
	orderService := service.NewOrderService(application.Logger, application.DB, orderRepo, noteRepo)
	notificationService := service.NewNotificationService(application.Logger, noteRepo)
	productAdminService := service.NewProductAdminService(application.Logger, productRepo)

	// эндпоинты справочника пользователей
	router.Post("/api/auth/register", handlers.RegisterHandler(application.Logger, authService))
	router.Post("/api/auth/login", handlers.LoginHandler(application.Logger, authService))

	router.Group(func(r chi.Router) {
		jwtMW := authmiddleware.New()
		r.Use(jwtMW)

		// каталог (читающая сторона)
		r.Get("/api/products", handlers.ListProductsHandler(application.Logger, catalogService))
		r.Get("/api/products/{id}", handlers.GetProductHandler(application.Logger, catalogService))
		r.Get("/api/categories", handlers.ListCategoriesHandler(application.Logger, catalogService))

		// корзина текущей сессии
		r.Get("/api/cart", handlers.GetCartHandler(application.Logger, cartService))
		r.Post("/api/cart/items", handlers.AddCartItemHandler(application.Logger, cartService))
		r.Put("/api/cart/items/{productID}", handlers.UpdateCartItemHandler(application.Logger, cartService))
		r.Delete("/api/cart/items/{productID}", handlers.RemoveCartItemHandler(application.Logger, cartService))

		// оформление заказа
		r.Post("/api/checkout", handlers.CheckoutHandler(application.Logger, checkoutService))

		// заказы и история покупок
		r.Get("/api/orders", handlers.ListOrdersHandler(application.Logger, orderService))
		r.Get("/api/orders/history", handlers.PurchaseHistoryHandler(application.Logger, orderService))

		// уведомления
		r.Get("/api/notifications", handlers.ListNotificationsHandler(application.Logger, notificationService))
		r.Get("/api/notifications/unread-count", handlers.UnreadCountHandler(application.Logger, notificationService))
		r.Post("/api/notifications/{id}/read", handlers.MarkNotificationReadHandler(application.Logger, notificationService))

		// админская зона: проверка роли до любой другой валидации
		r.Group(func(ar chi.Router) {
			ar.Use(authmiddleware.RequireRole(models.RoleAdmin))
			ar.Get("/api/admin/orders", handlers.AdminListOrdersHandler(application.Logger, orderService))
			ar.Put("/api/admin/orders/{id}/status", handlers.AdminUpdateOrderStatusHandler(application.Logger, orderService))
			ar.Post("/api/admin/products", handlers.AdminCreateProductHandler(application.Logger, productAdminService))
			ar.Put("/api/admin/products/{id}", handlers.AdminUpdateProductHandler(application.Logger, productAdminService))
			ar.Delete("/api/admin/products/{id}", handlers.AdminDeleteProductHandler(application.Logger, productAdminService))
		})
	})

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	go func() {
		log.Info("starting server", slog.String("address", cfg.HTTPServer.Address))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", slog.Any("error", err))
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	stopSign := <-stop
	log.Info("received shutdown signal", slog.String("signal", stopSign.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server shutdown failed", slog.Any("error", err))
	}
	log.Info("server gracefully stopped")
}
