package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gelios02/HardwareStore/internal/domain/models"
	"github.com/lib/pq"
)

var (
	ErrProductNotFound = errors.New("product not found")
	// ErrStockConflict возвращается условным декрементом, если остатка не
	// хватает. Под блокировкой строки сервис проверяет остаток заранее,
	// так что это страховка на случай обхода блокировки.
	ErrStockConflict = errors.New("not enough stock")
)

// ProductStorage описывает методы для работы с таблицей товаров.
// Блокировка и списание остатка выполняются только внутри транзакции:
// остаток товара меняют исключительно оформление заказа и правка
// администратором, каждая как единая транзакция.
type ProductStorage interface {
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
	// ListProducts возвращает товары каталога; query фильтрует по подстроке
	// имени, categoryID > 0 - по категории.
	ListProducts(ctx context.Context, query string, categoryID int64) ([]*models.Product, error)
	// LockProductByIDTx читает товар под блокировкой строки (FOR UPDATE NOWAIT),
	// сериализуя конкурентные оформления заказа по одному товару.
	LockProductByIDTx(ctx context.Context, tx *sql.Tx, id int64) (*models.Product, error)
	// DecrementStockTx атомарно списывает qty единиц, не позволяя остатку
	// уйти в минус.
	DecrementStockTx(ctx context.Context, tx *sql.Tx, id int64, qty int) error
	CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error)
	UpdateProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, id int64) error
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository создаёт новый репозиторий товаров.
func NewProductRepository(db *sql.DB) ProductStorage {
	return &productRepository{db: db}
}

func (r *productRepository) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	product := &models.Product{}
	query := "SELECT id, name, description, price, quantity, category_id FROM products WHERE id = $1"
	row := r.db.QueryRowContext(ctx, query, id)
	if err := row.Scan(&product.ID, &product.Name, &product.Description, &product.Price, &product.Quantity, &product.CategoryID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (r *productRepository) ListProducts(ctx context.Context, search string, categoryID int64) ([]*models.Product, error) {
	query := `
		SELECT id, name, description, price, quantity, category_id
		FROM products
		WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')
		  AND ($2 = 0 OR category_id = $2)
		ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, search, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		product := &models.Product{}
		if err := rows.Scan(&product.ID, &product.Name, &product.Description, &product.Price, &product.Quantity, &product.CategoryID); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepository) LockProductByIDTx(ctx context.Context, tx *sql.Tx, id int64) (*models.Product, error) {
	product := &models.Product{}
	query := "SELECT id, name, description, price, quantity, category_id FROM products WHERE id = $1 FOR UPDATE NOWAIT"
	row := tx.QueryRowContext(ctx, query, id)
	if err := row.Scan(&product.ID, &product.Name, &product.Description, &product.Price, &product.Quantity, &product.CategoryID); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "55P03" { // lock
				return nil, fmt.Errorf("resource is locked, please try again: %w", err)
			}
		}
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (r *productRepository) DecrementStockTx(ctx context.Context, tx *sql.Tx, id int64, qty int) error {
	res, err := tx.ExecContext(ctx,
		"UPDATE products SET quantity = quantity - $2 WHERE id = $1 AND quantity >= $2", id, qty)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrStockConflict
	}
	return nil
}

func (r *productRepository) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		"INSERT INTO products (name, description, price, quantity, category_id) VALUES ($1, $2, $3, $4, $5) RETURNING id",
		product.Name, product.Description, product.Price, product.Quantity, product.CategoryID,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	product.ID = id
	return product, nil
}

func (r *productRepository) UpdateProduct(ctx context.Context, product *models.Product) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE products SET name = $1, description = $2, price = $3, quantity = $4, category_id = $5 WHERE id = $6",
		product.Name, product.Description, product.Price, product.Quantity, product.CategoryID, product.ID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *productRepository) DeleteProduct(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}
