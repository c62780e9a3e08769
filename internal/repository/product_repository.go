package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"zenith-store/internal/domain"

	"github.com/jackc/pgx/v5/pgtype"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrProductInUse    = errors.New("product is referenced by existing orders")
)

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	ListAll(ctx context.Context) ([]domain.Product, error)
	FindByID(ctx context.Context, id int64) (*domain.Product, error)
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id int64) error
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

const productColumns = `id, name, category, price, cost_price, description, stock, images, variants, created_at`

func scanProduct(row rowScanner, m *pgtype.Map) (domain.Product, error) {
	var p domain.Product
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Category,
		&p.Price,
		&p.CostPrice,
		&p.Description,
		&p.Stock,
		m.SQLScanner(&p.Images),
		&p.Variants,
		&p.CreatedAt,
	)
	if p.Images == nil {
		p.Images = []string{}
	}
	if p.Variants == nil {
		p.Variants = domain.Variants{}
	}
	return p, err
}

// ListAll returns the whole catalog ordered by ascending id
func (r *productRepository) ListAll(ctx context.Context) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	m := pgtype.NewMap()
	products := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows, m)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// FindByID retrieves a product by ID
func (r *productRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, id), pgtype.NewMap())
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	return &p, nil
}

// Create inserts a product and fills in its generated id and timestamp
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	normalizeProduct(product)

	query := `
		INSERT INTO products (name, category, price, cost_price, description, stock, images, variants)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		product.Name,
		product.Category,
		product.Price,
		product.CostPrice,
		product.Description,
		product.Stock,
		product.Images,
		product.Variants,
	).Scan(&product.ID, &product.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// Update overwrites every mutable field of an existing product
func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	normalizeProduct(product)

	query := `
		UPDATE products
		SET name = $2, category = $3, price = $4, cost_price = $5,
		    description = $6, stock = $7, images = $8, variants = $9
		WHERE id = $1
		RETURNING created_at
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		product.ID,
		product.Name,
		product.Category,
		product.Price,
		product.CostPrice,
		product.Description,
		product.Stock,
		product.Images,
		product.Variants,
	).Scan(&product.CreatedAt)

	if err != nil {
		if err == sql.ErrNoRows {
			return ErrProductNotFound
		}
		return fmt.Errorf("failed to update product: %w", err)
	}

	return nil
}

// Delete removes a product. Products that appear on orders cannot be removed.
func (r *productRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		if hasPgCode(err, pgForeignKeyViolation) {
			return ErrProductInUse
		}
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

func normalizeProduct(p *domain.Product) {
	if p.Images == nil {
		p.Images = []string{}
	}
	if p.Variants == nil {
		p.Variants = domain.Variants{}
	}
}
