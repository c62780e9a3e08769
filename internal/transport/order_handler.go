package transport

import (
	"net/http"

	"zenith-store/internal/domain"
	"zenith-store/internal/middleware"
	"zenith-store/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OrderLineRequest is one cart line as submitted at checkout
type OrderLineRequest struct {
	ProductID       int64             `json:"id" validate:"required,gt=0"`
	Quantity        int               `json:"quantity" validate:"required,min=1"`
	Price           decimal.Decimal   `json:"price" validate:"gte=0"`
	SelectedVariant map[string]string `json:"selectedVariant"`
}

// CreateOrderRequest is the checkout payload
type CreateOrderRequest struct {
	Items           []OrderLineRequest     `json:"items" validate:"required,min=1,dive"`
	Total           decimal.Decimal        `json:"total" validate:"gte=0"`
	ShippingAddress domain.ShippingAddress `json:"shippingAddress"`
	CustomerName    string                 `json:"customerName" validate:"required"`
	CustomerEmail   string                 `json:"customerEmail" validate:"required,email"`
}

// OrderHandler handles customer order operations
type OrderHandler struct {
	orders service.OrderService
	logger *zap.Logger
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orders service.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orders: orders,
		logger: logger,
	}
}

// RegisterRoutes registers order routes; all of them require authentication
func (h *OrderHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/orders", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/", h.CreateOrder)
		r.Get("/my-orders", h.MyOrders)
	})
}

// CreateOrder places an order for the current user
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req CreateOrderRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		respondInvalidRequest(w, h.logger, err)
		return
	}

	items := make([]domain.OrderItem, len(req.Items))
	for i, line := range req.Items {
		items[i] = domain.OrderItem{
			ProductID:       line.ProductID,
			Quantity:        line.Quantity,
			Price:           line.Price,
			SelectedVariant: line.SelectedVariant,
		}
	}

	order, err := h.orders.CreateOrder(r.Context(), userID, service.CreateOrderInput{
		Items:           items,
		Total:           req.Total,
		ShippingAddress: req.ShippingAddress,
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
	})
	if err != nil {
		respondServiceError(w, h.logger, err, "could not place order")
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, order)
}

// MyOrders lists the current user's orders, newest first
func (h *OrderHandler) MyOrders(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	orders, err := h.orders.GetOrdersForUser(r.Context(), userID)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to get orders")
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	middleware.RespondWithJSON(w, http.StatusOK, orders)
}
