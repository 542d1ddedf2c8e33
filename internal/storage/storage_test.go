package storage_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"github.com/gelios02/HardwareStore/internal/domain/models"
	"github.com/gelios02/HardwareStore/internal/storage"
)

func TestGetProductByID_Success(t *testing.T) {
	// Создаем sqlmock для эмуляции базы данных.
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewProductRepository(db)
	ctx := context.Background()
	productID := int64(1)

	// Подготавливаем ожидаемые строки результата.
	rows := sqlmock.NewRows([]string{"id", "name", "description", "price", "quantity", "category_id"}).
		AddRow(productID, "GeForce RTX 4070", "12GB GDDR6X", 599.99, 5, 3)

	query := regexp.QuoteMeta("SELECT id, name, description, price, quantity, category_id FROM products WHERE id = $1")
	mock.ExpectQuery(query).WithArgs(productID).WillReturnRows(rows)

	product, err := repo.GetProductByID(ctx, productID)
	assert.NoError(t, err)
	assert.Equal(t, productID, product.ID)
	assert.Equal(t, "GeForce RTX 4070", product.Name)
	assert.Equal(t, 599.99, product.Price)
	assert.Equal(t, 5, product.Quantity)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetProductByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewProductRepository(db)
	ctx := context.Background()
	productID := int64(99)

	// Эмулируем ситуацию, когда запрос возвращает 0 строк.
	rows := sqlmock.NewRows([]string{"id", "name", "description", "price", "quantity", "category_id"})
	query := regexp.QuoteMeta("SELECT id, name, description, price, quantity, category_id FROM products WHERE id = $1")
	mock.ExpectQuery(query).WithArgs(productID).WillReturnRows(rows)

	product, err := repo.GetProductByID(ctx, productID)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, storage.ErrProductNotFound))
	assert.Nil(t, product)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetProductByID_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewProductRepository(db)
	ctx := context.Background()
	productID := int64(1)

	// Эмулируем ошибку выполнения запроса.
	query := regexp.QuoteMeta("SELECT id, name, description, price, quantity, category_id FROM products WHERE id = $1")
	mock.ExpectQuery(query).WithArgs(productID).WillReturnError(errors.New("db error"))

	product, err := repo.GetProductByID(ctx, productID)
	assert.Error(t, err)
	assert.Nil(t, product)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListProducts_WithFilters(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewProductRepository(db)
	ctx := context.Background()

	rows := sqlmock.NewRows([]string{"id", "name", "description", "price", "quantity", "category_id"}).
		AddRow(1, "Ryzen 7 7800X3D", "8 cores", 449.00, 10, 1).
		AddRow(2, "Ryzen 5 7600", "6 cores", 229.00, 4, 1)

	query := regexp.QuoteMeta(`SELECT id, name, description, price, quantity, category_id FROM products WHERE ($1 = '' OR name ILIKE '%' || $1 || '%') AND ($2 = 0 OR category_id = $2) ORDER BY id`)
	mock.ExpectQuery(query).WithArgs("ryzen", int64(1)).WillReturnRows(rows)

	products, err := repo.ListProducts(ctx, "ryzen", 1)
	assert.NoError(t, err)
	assert.Len(t, products, 2)
	assert.Equal(t, "Ryzen 7 7800X3D", products[0].Name)
	assert.Equal(t, int64(2), products[1].ID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLockProductByIDTx_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewProductRepository(db)
	ctx := context.Background()
	productID := int64(1)

	mock.ExpectBegin()
	tx, err := db.Begin()
	assert.NoError(t, err)

	rows := sqlmock.NewRows([]string{"id", "name", "description", "price", "quantity", "category_id"}).
		AddRow(productID, "Samsung 990 Pro 2TB", "NVMe SSD", 179.99, 8, 4)
	query := regexp.QuoteMeta("SELECT id, name, description, price, quantity, category_id FROM products WHERE id = $1 FOR UPDATE NOWAIT")
	mock.ExpectQuery(query).WithArgs(productID).WillReturnRows(rows)

	product, err := repo.LockProductByIDTx(ctx, tx, productID)
	assert.NoError(t, err)
	assert.Equal(t, productID, product.ID)
	assert.Equal(t, 8, product.Quantity)

	mock.ExpectCommit()
	assert.NoError(t, tx.Commit())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLockProductByIDTx_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewProductRepository(db)
	ctx := context.Background()
	productID := int64(99)

	mock.ExpectBegin()
	tx, err := db.Begin()
	assert.NoError(t, err)

	rows := sqlmock.NewRows([]string{"id", "name", "description", "price", "quantity", "category_id"})
	query := regexp.QuoteMeta("SELECT id, name, description, price, quantity, category_id FROM products WHERE id = $1 FOR UPDATE NOWAIT")
	mock.ExpectQuery(query).WithArgs(productID).WillReturnRows(rows)

	product, err := repo.LockProductByIDTx(ctx, tx, productID)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, storage.ErrProductNotFound))
	assert.Nil(t, product)

	mock.ExpectRollback()
	assert.NoError(t, tx.Rollback())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDecrementStockTx_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewProductRepository(db)
	ctx := context.Background()

	mock.ExpectBegin()
	tx, err := db.Begin()
	assert.NoError(t, err)

	query := regexp.QuoteMeta("UPDATE products SET quantity = quantity - $2 WHERE id = $1 AND quantity >= $2")
	mock.ExpectExec(query).WithArgs(int64(1), 2).WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.DecrementStockTx(ctx, tx, 1, 2)
	assert.NoError(t, err)

	mock.ExpectCommit()
	assert.NoError(t, tx.Commit())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDecrementStockTx_Conflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewProductRepository(db)
	ctx := context.Background()

	mock.ExpectBegin()
	tx, err := db.Begin()
	assert.NoError(t, err)

	// Условный декремент не затронул ни одной строки - остатка не хватает.
	query := regexp.QuoteMeta("UPDATE products SET quantity = quantity - $2 WHERE id = $1 AND quantity >= $2")
	mock.ExpectExec(query).WithArgs(int64(1), 10).WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.DecrementStockTx(ctx, tx, 1, 10)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, storage.ErrStockConflict))

	mock.ExpectRollback()
	assert.NoError(t, tx.Rollback())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateProduct_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewProductRepository(db)
	ctx := context.Background()

	query := regexp.QuoteMeta("INSERT INTO products (name, description, price, quantity, category_id) VALUES ($1, $2, $3, $4, $5) RETURNING id")
	mock.ExpectQuery(query).WithArgs("Corsair RM850x", "850W PSU", 139.99, 12, int64(6)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

	product := &models.Product{
		Name:        "Corsair RM850x",
		Description: "850W PSU",
		Price:       139.99,
		Quantity:    12,
		CategoryID:  6,
	}
	created, err := repo.CreateProduct(ctx, product)
	assert.NoError(t, err)
	assert.Equal(t, int64(7), created.ID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateProduct_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewProductRepository(db)
	ctx := context.Background()

	query := regexp.QuoteMeta("UPDATE products SET name = $1, description = $2, price = $3, quantity = $4, category_id = $5 WHERE id = $6")
	mock.ExpectExec(query).WithArgs("X", "Y", 1.0, 1, int64(1), int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.UpdateProduct(ctx, &models.Product{
		ID: 99, Name: "X", Description: "Y", Price: 1.0, Quantity: 1, CategoryID: 1,
	})
	assert.Error(t, err)
	assert.True(t, errors.Is(err, storage.ErrProductNotFound))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteProduct_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewProductRepository(db)
	ctx := context.Background()

	query := regexp.QuoteMeta("DELETE FROM products WHERE id = $1")
	mock.ExpectExec(query).WithArgs(int64(3)).WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.DeleteProduct(ctx, 3))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrderTx_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewOrderRepository(db)
	ctx := context.Background()

	mock.ExpectBegin()
	tx, err := db.Begin()
	assert.NoError(t, err)

	// Заказ всегда создается в статусе pending.
	query := regexp.QuoteMeta("INSERT INTO orders (user_id, status, created_at) VALUES ($1, $2, NOW()) RETURNING id")
	mock.ExpectQuery(query).WithArgs(int64(1), string(models.OrderStatusPending)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))

	orderID, err := repo.CreateOrderTx(ctx, tx, 1)
	assert.NoError(t, err)
	assert.Equal(t, int64(42), orderID)

	mock.ExpectCommit()
	assert.NoError(t, tx.Commit())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrderItemTx_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewOrderRepository(db)
	ctx := context.Background()

	mock.ExpectBegin()
	tx, err := db.Begin()
	assert.NoError(t, err)

	query := regexp.QuoteMeta("INSERT INTO order_items (order_id, product_id, product_name, unit_price, quantity) VALUES ($1, $2, $3, $4, $5)")
	mock.ExpectExec(query).WithArgs(int64(42), int64(1), "GeForce RTX 4070", 599.99, 2).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = repo.CreateOrderItemTx(ctx, tx, &models.OrderItem{
		OrderID:     42,
		ProductID:   1,
		ProductName: "GeForce RTX 4070",
		UnitPrice:   599.99,
		Quantity:    2,
	})
	assert.NoError(t, err)

	mock.ExpectCommit()
	assert.NoError(t, tx.Commit())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLockOrderByIDTx_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewOrderRepository(db)
	ctx := context.Background()

	mock.ExpectBegin()
	tx, err := db.Begin()
	assert.NoError(t, err)

	rows := sqlmock.NewRows([]string{"id", "user_id", "status", "created_at"})
	query := regexp.QuoteMeta("SELECT id, user_id, status, created_at FROM orders WHERE id = $1 FOR UPDATE NOWAIT")
	mock.ExpectQuery(query).WithArgs(int64(99)).WillReturnRows(rows)

	order, err := repo.LockOrderByIDTx(ctx, tx, 99)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, storage.ErrOrderNotFound))
	assert.Nil(t, order)

	mock.ExpectRollback()
	assert.NoError(t, tx.Rollback())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateOrderStatusTx_NoRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewOrderRepository(db)
	ctx := context.Background()

	mock.ExpectBegin()
	tx, err := db.Begin()
	assert.NoError(t, err)

	query := regexp.QuoteMeta("UPDATE orders SET status = $1 WHERE id = $2")
	mock.ExpectExec(query).WithArgs(string(models.OrderStatusSold), int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.UpdateOrderStatusTx(ctx, tx, 99, models.OrderStatusSold)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, storage.ErrOrderNotFound))

	mock.ExpectRollback()
	assert.NoError(t, tx.Rollback())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrdersByUserID_WithItems(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewOrderRepository(db)
	ctx := context.Background()
	userID := int64(1)
	now := time.Now()

	orderRows := sqlmock.NewRows([]string{"id", "user_id", "status", "created_at"}).
		AddRow(42, userID, "pending", now)
	orderQuery := regexp.QuoteMeta("SELECT id, user_id, status, created_at FROM orders WHERE user_id = $1 ORDER BY created_at DESC")
	mock.ExpectQuery(orderQuery).WithArgs(userID).WillReturnRows(orderRows)

	// Позиции дочитываются вторым запросом по всему набору заказов.
	itemRows := sqlmock.NewRows([]string{"id", "order_id", "product_id", "product_name", "unit_price", "quantity"}).
		AddRow(1, 42, 1, "GeForce RTX 4070", 599.99, 2).
		AddRow(2, 42, 3, "Samsung 990 Pro 2TB", 179.99, 1)
	itemQuery := regexp.QuoteMeta("SELECT id, order_id, product_id, product_name, unit_price, quantity FROM order_items WHERE order_id = ANY($1) ORDER BY id")
	mock.ExpectQuery(itemQuery).WithArgs(pq.Array([]int64{42})).WillReturnRows(itemRows)

	orders, err := repo.GetOrdersByUserID(ctx, userID)
	assert.NoError(t, err)
	assert.Len(t, orders, 1)
	assert.Equal(t, models.OrderStatusPending, orders[0].Status)
	assert.Len(t, orders[0].Items, 2)
	assert.Equal(t, "GeForce RTX 4070", orders[0].Items[0].ProductName)
	assert.Equal(t, 599.99, orders[0].Items[0].UnitPrice)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrdersByUserID_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewOrderRepository(db)
	ctx := context.Background()
	userID := int64(1)

	orderQuery := regexp.QuoteMeta("SELECT id, user_id, status, created_at FROM orders WHERE user_id = $1 ORDER BY created_at DESC")
	mock.ExpectQuery(orderQuery).WithArgs(userID).WillReturnError(errors.New("query error"))

	orders, err := repo.GetOrdersByUserID(ctx, userID)
	assert.Error(t, err)
	assert.Nil(t, orders)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateNotificationTx_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewNotificationRepository(db)
	ctx := context.Background()

	mock.ExpectBegin()
	tx, err := db.Begin()
	assert.NoError(t, err)

	query := regexp.QuoteMeta("INSERT INTO notifications (user_id, message, read, created_at) VALUES ($1, $2, FALSE, NOW())")
	mock.ExpectExec(query).WithArgs(int64(2), "User alice purchased GeForce RTX 4070 (quantity: 1)").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = repo.CreateNotificationTx(ctx, tx, 2, "User alice purchased GeForce RTX 4070 (quantity: 1)")
	assert.NoError(t, err)

	mock.ExpectCommit()
	assert.NoError(t, tx.Commit())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUnreadCount_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewNotificationRepository(db)
	ctx := context.Background()

	query := regexp.QuoteMeta("SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND read = FALSE")
	mock.ExpectQuery(query).WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.UnreadCount(ctx, 1)
	assert.NoError(t, err)
	assert.Equal(t, 3, count)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkRead_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewNotificationRepository(db)
	ctx := context.Background()

	// Чужое (или несуществующее) уведомление не затрагивает ни одной строки.
	query := regexp.QuoteMeta("UPDATE notifications SET read = TRUE WHERE id = $1 AND user_id = $2")
	mock.ExpectExec(query).WithArgs(int64(5), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.MarkRead(ctx, 1, 5)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, storage.ErrNotificationNotFound))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserByEmail_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewUserRepository(db)
	ctx := context.Background()
	email := "test@example.com"

	rows := sqlmock.NewRows([]string{"id", "username", "email", "pass_hash", "role"}).
		AddRow(1, "test", email, []byte("hashed-password"), models.RoleUser)
	query := regexp.QuoteMeta("SELECT id, username, email, pass_hash, role FROM users WHERE email = $1")
	mock.ExpectQuery(query).WithArgs(email).WillReturnRows(rows)

	user, err := repo.GetUserByEmail(ctx, email)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)
	assert.Equal(t, email, user.Email)
	assert.Equal(t, []byte("hashed-password"), user.PassHash)
	assert.Equal(t, models.RoleUser, user.Role)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserByEmail_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewUserRepository(db)
	ctx := context.Background()
	email := "nonexistent@example.com"

	rows := sqlmock.NewRows([]string{"id", "username", "email", "pass_hash", "role"})
	query := regexp.QuoteMeta("SELECT id, username, email, pass_hash, role FROM users WHERE email = $1")
	mock.ExpectQuery(query).WithArgs(email).WillReturnRows(rows)

	user, err := repo.GetUserByEmail(ctx, email)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, storage.ErrUserNotFound))
	assert.Nil(t, user)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUser_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewUserRepository(db)
	ctx := context.Background()
	passHash := []byte("hashed")

	query := regexp.QuoteMeta("INSERT INTO users (username, email, pass_hash, role) VALUES ($1, $2, $3, $4) RETURNING id")
	mock.ExpectQuery(query).WithArgs("alice", "alice@example.com", passHash, models.RoleUser).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	user := &models.User{
		Username: "alice",
		Email:    "alice@example.com",
		PassHash: passHash,
		Role:     models.RoleUser,
	}
	created, err := repo.CreateUser(ctx, user)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAdminIDs_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewUserRepository(db)
	ctx := context.Background()

	rows := sqlmock.NewRows([]string{"id"}).AddRow(1).AddRow(7)
	query := regexp.QuoteMeta("SELECT id FROM users WHERE role = $1 ORDER BY id")
	mock.ExpectQuery(query).WithArgs(models.RoleAdmin).WillReturnRows(rows)

	ids, err := repo.GetAdminIDs(ctx)
	assert.NoError(t, err)
	assert.Equal(t, []int64{1, 7}, ids)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListCategories_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewCategoryRepository(db)
	ctx := context.Background()

	rows := sqlmock.NewRows([]string{"id", "name"}).
		AddRow(1, "Processors").
		AddRow(2, "Motherboards")
	query := regexp.QuoteMeta("SELECT id, name FROM categories ORDER BY id")
	mock.ExpectQuery(query).WillReturnRows(rows)

	categories, err := repo.ListCategories(ctx)
	assert.NoError(t, err)
	assert.Len(t, categories, 2)
	assert.Equal(t, "Processors", categories[0].Name)

	assert.NoError(t, mock.ExpectationsWereMet())
}
