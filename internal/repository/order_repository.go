package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"zenith-store/internal/domain"

	"github.com/jackc/pgx/v5/pgtype"
)

var ErrOrderNotFound = errors.New("order not found")

// OrderRepository defines the interface for order data access
type OrderRepository interface {
	// Create writes the header and every item in one transaction and fills
	// in the generated id, date and status
	Create(ctx context.Context, order *domain.Order) error
	ListByUser(ctx context.Context, userID int64) ([]domain.Order, error)
	ListAllWithItems(ctx context.Context) ([]domain.Order, error)
	ListSummaries(ctx context.Context) ([]domain.OrderSummary, error)
	UpdateStatus(ctx context.Context, id domain.OrderID, status domain.OrderStatus) (*domain.Order, error)
	Stats(ctx context.Context) (*domain.AdminStats, error)
}

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new instance of OrderRepository
func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *domain.Order) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	headerQuery := `
		INSERT INTO orders (user_id, total, status, shipping_address, customer_name, customer_email)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, status
	`

	err = tx.QueryRowContext(
		ctx,
		headerQuery,
		order.UserID,
		order.Total,
		domain.OrderStatusPending,
		order.ShippingAddress,
		order.CustomerName,
		order.CustomerEmail,
	).Scan(&order.ID, &order.Date, &order.Status)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	itemStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO order_items (order_id, product_id, quantity, price, selected_variant)
		VALUES ($1, $2, $3, $4, $5)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare order item insert: %w", err)
	}
	defer itemStmt.Close()

	for _, item := range order.Items {
		if _, err = itemStmt.ExecContext(
			ctx,
			order.ID,
			item.ProductID,
			item.Quantity,
			item.Price,
			item.SelectedVariant,
		); err != nil {
			return fmt.Errorf("failed to insert order item for product %d: %w", item.ProductID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit order: %w", err)
	}

	return nil
}

const orderHeaderColumns = `id, user_id, created_at, total, status, shipping_address, customer_name, customer_email`

func scanOrderHeader(row rowScanner) (domain.Order, error) {
	var o domain.Order
	err := row.Scan(
		&o.ID,
		&o.UserID,
		&o.Date,
		&o.Total,
		&o.Status,
		&o.ShippingAddress,
		&o.CustomerName,
		&o.CustomerEmail,
	)
	return o, err
}

func (r *orderRepository) listHeaders(ctx context.Context, query string, args ...any) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		o, err := scanOrderHeader(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		o.Items = []domain.OrderItem{}
		orders = append(orders, o)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	return orders, nil
}

// ListByUser returns the user's orders newest first with their items
func (r *orderRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	orders, err := r.listHeaders(ctx, `
		SELECT `+orderHeaderColumns+`
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, err
	}

	if err := r.attachItems(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// ListAllWithItems returns every order newest first with their items
func (r *orderRepository) ListAllWithItems(ctx context.Context) ([]domain.Order, error) {
	orders, err := r.listHeaders(ctx, `
		SELECT `+orderHeaderColumns+`
		FROM orders
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, err
	}

	if err := r.attachItems(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// attachItems loads the items of all given orders with a single query and
// joins each one to the current product name, images and category
func (r *orderRepository) attachItems(ctx context.Context, orders []domain.Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]int64, len(orders))
	index := make(map[domain.OrderID]int, len(orders))
	for i, o := range orders {
		ids[i] = int64(o.ID)
		index[o.ID] = i
	}

	query := `
		SELECT oi.order_id, oi.product_id, oi.quantity, oi.price, oi.selected_variant,
		       p.name, p.images, p.category
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = ANY($1)
		ORDER BY oi.order_id, oi.id
	`

	rows, err := r.db.QueryContext(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("failed to load order items: %w", err)
	}
	defer rows.Close()

	m := pgtype.NewMap()
	for rows.Next() {
		var (
			orderID domain.OrderID
			item    domain.OrderItem
		)
		if err := rows.Scan(
			&orderID,
			&item.ProductID,
			&item.Quantity,
			&item.Price,
			&item.SelectedVariant,
			&item.Name,
			m.SQLScanner(&item.Images),
			&item.Category,
		); err != nil {
			return fmt.Errorf("failed to scan order item: %w", err)
		}

		if i, ok := index[orderID]; ok {
			orders[i].Items = append(orders[i].Items, item)
		}
	}

	if err = rows.Err(); err != nil {
		return fmt.Errorf("error iterating order items: %w", err)
	}

	return nil
}

// ListSummaries returns header fields of every order, newest first
func (r *orderRepository) ListSummaries(ctx context.Context) ([]domain.OrderSummary, error) {
	query := `
		SELECT id, customer_name, created_at, total, status
		FROM orders
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list order summaries: %w", err)
	}
	defer rows.Close()

	summaries := []domain.OrderSummary{}
	for rows.Next() {
		var s domain.OrderSummary
		if err := rows.Scan(&s.ID, &s.CustomerName, &s.Date, &s.Total, &s.Status); err != nil {
			return nil, fmt.Errorf("failed to scan order summary: %w", err)
		}
		summaries = append(summaries, s)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order summaries: %w", err)
	}

	return summaries, nil
}

// UpdateStatus changes the status of an order and returns its header
func (r *orderRepository) UpdateStatus(ctx context.Context, id domain.OrderID, status domain.OrderStatus) (*domain.Order, error) {
	query := `
		UPDATE orders SET status = $1
		WHERE id = $2
		RETURNING ` + orderHeaderColumns

	o, err := scanOrderHeader(r.db.QueryRowContext(ctx, query, status, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	o.Items = []domain.OrderItem{}
	return &o, nil
}

// Stats computes the dashboard counters. Revenue counts delivered orders only.
func (r *orderRepository) Stats(ctx context.Context) (*domain.AdminStats, error) {
	query := `
		SELECT
			(SELECT COALESCE(SUM(total), 0) FROM orders WHERE status = $1),
			(SELECT COUNT(*) FROM orders),
			(SELECT COUNT(*) FROM products),
			(SELECT COUNT(*) FROM users)
	`

	stats := &domain.AdminStats{}
	err := r.db.QueryRowContext(ctx, query, domain.OrderStatusDelivered).Scan(
		&stats.TotalRevenue,
		&stats.TotalOrders,
		&stats.TotalProducts,
		&stats.TotalUsers,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to compute admin stats: %w", err)
	}

	return stats, nil
}
