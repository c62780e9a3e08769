package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"zenith-store/internal/domain"
	"zenith-store/internal/events"
	"zenith-store/internal/metrics"
	"zenith-store/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DefaultPublishTimeout bounds how long checkout waits on the event broker
const DefaultPublishTimeout = 3 * time.Second

var (
	ErrEmptyOrder    = errors.New("order must contain at least one item")
	ErrInvalidStatus = errors.New("invalid order status")
)

// CreateOrderInput is the checkout submission. Prices and total are taken
// as submitted.
type CreateOrderInput struct {
	Items           []domain.OrderItem
	Total           decimal.Decimal
	ShippingAddress domain.ShippingAddress
	CustomerName    string
	CustomerEmail   string
}

// OrderService defines the interface for order business logic
type OrderService interface {
	CreateOrder(ctx context.Context, userID int64, input CreateOrderInput) (*domain.Order, error)
	GetOrdersForUser(ctx context.Context, userID int64) ([]domain.Order, error)
	GetAllOrdersSummary(ctx context.Context) ([]domain.OrderSummary, error)
	GetAllOrders(ctx context.Context) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id domain.OrderID, status domain.OrderStatus) (*domain.Order, error)
}

type orderService struct {
	orderRepo      repository.OrderRepository
	publisher      events.Publisher
	publishTimeout time.Duration
	logger         *zap.Logger
}

// NewOrderService creates a new instance of OrderService
func NewOrderService(orderRepo repository.OrderRepository, publisher events.Publisher, logger *zap.Logger) OrderService {
	if publisher == nil {
		publisher = events.NewNopPublisher()
	}
	return &orderService{
		orderRepo:      orderRepo,
		publisher:      publisher,
		publishTimeout: DefaultPublishTimeout,
		logger:         logger,
	}
}

// CreateOrder persists the order atomically. The returned order echoes the
// submitted items rather than re-reading them.
func (s *orderService) CreateOrder(ctx context.Context, userID int64, input CreateOrderInput) (*domain.Order, error) {
	if len(input.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	order := &domain.Order{
		UserID:          userID,
		Items:           input.Items,
		Total:           input.Total,
		ShippingAddress: input.ShippingAddress,
		CustomerName:    input.CustomerName,
		CustomerEmail:   input.CustomerEmail,
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		s.logger.Error("Failed to place order",
			zap.Int64("user_id", userID),
			zap.Int("items", len(input.Items)),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	metrics.OrdersPlaced.Inc()
	s.logger.Info("Order placed",
		zap.String("order_id", order.ID.String()),
		zap.Int64("user_id", userID),
		zap.String("total", order.Total.StringFixed(2)),
	)

	// The order is committed; a slow broker or a client hang-up must not turn
	// it into a failed checkout.
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.publishTimeout)
	defer cancel()
	if err := s.publisher.PublishOrderPlaced(pubCtx, order); err != nil {
		s.logger.Warn("Failed to publish order placed event",
			zap.String("order_id", order.ID.String()),
			zap.Error(err),
		)
	}

	return order, nil
}

func (s *orderService) GetOrdersForUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	orders, err := s.orderRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get orders: %w", err)
	}
	return orders, nil
}

func (s *orderService) GetAllOrdersSummary(ctx context.Context) ([]domain.OrderSummary, error) {
	summaries, err := s.orderRepo.ListSummaries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get order summaries: %w", err)
	}
	return summaries, nil
}

func (s *orderService) GetAllOrders(ctx context.Context) ([]domain.Order, error) {
	orders, err := s.orderRepo.ListAllWithItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get orders: %w", err)
	}
	return orders, nil
}

func (s *orderService) UpdateStatus(ctx context.Context, id domain.OrderID, status domain.OrderStatus) (*domain.Order, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	order, err := s.orderRepo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Order status updated",
		zap.String("order_id", id.String()),
		zap.String("status", string(status)),
	)
	return order, nil
}
