package transport

import (
	"net/http"
	"strconv"
	"time"

	"zenith-store/internal/domain"
	"zenith-store/internal/middleware"
	"zenith-store/internal/sales"
	"zenith-store/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductRequest is the admin create/update payload
type ProductRequest struct {
	Name        string                  `json:"name" validate:"required,max=200"`
	Category    string                  `json:"category" validate:"required"`
	Price       decimal.Decimal         `json:"price" validate:"gte=0"`
	CostPrice   decimal.Decimal         `json:"costPrice" validate:"gte=0"`
	Description string                  `json:"description"`
	Stock       int                     `json:"stock" validate:"gte=0"`
	Images      []string                `json:"images" validate:"dive,required"`
	Variants    []domain.ProductVariant `json:"variants"`
}

func (req ProductRequest) toProduct(id int64) *domain.Product {
	images := req.Images
	if images == nil {
		images = []string{}
	}
	return &domain.Product{
		ID:          id,
		Name:        req.Name,
		Category:    req.Category,
		Price:       req.Price,
		CostPrice:   req.CostPrice,
		Description: req.Description,
		Stock:       req.Stock,
		Images:      images,
		Variants:    req.Variants,
	}
}

// StatusRequest changes an order's status
type StatusRequest struct {
	Status string `json:"status" validate:"required,oneof=Pending Processing Shipped Delivered Cancelled"`
}

// ToggleReviewRequest flips a review's visibility
type ToggleReviewRequest struct {
	ReviewID int64 `json:"reviewId" validate:"required,gt=0"`
}

// AdminHandler serves the administration API
type AdminHandler struct {
	admin  service.AdminService
	orders service.OrderService
	users  service.UserService
	logger *zap.Logger
	now    func() time.Time
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(admin service.AdminService, orders service.OrderService, users service.UserService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		admin:  admin,
		orders: orders,
		users:  users,
		logger: logger,
		now:    time.Now,
	}
}

// RegisterRoutes registers admin routes behind authentication and the admin role
func (h *AdminHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/admin", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(middleware.RequireAdmin(h.logger))

		r.Get("/stats", h.Stats)

		r.Post("/products", h.CreateProduct)
		r.Put("/products/{id}", h.UpdateProduct)
		r.Delete("/products/{id}", h.DeleteProduct)

		r.Get("/orders", h.ListOrders)
		r.Put("/orders/{id}", h.UpdateOrderStatus)

		r.Get("/sales", h.Sales)

		r.Get("/users", h.ListUsers)
		r.Post("/users/{id}/reset-password", h.ResetPassword)

		r.Get("/reviews", h.ListReviews)
		r.Post("/reviews/toggle", h.ToggleReview)
	})
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.admin.Stats(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to compute stats")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, stats)
}

func (h *AdminHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		respondInvalidRequest(w, h.logger, err)
		return
	}

	product := req.toProduct(0)
	if err := h.admin.CreateProduct(r.Context(), product); err != nil {
		respondServiceError(w, h.logger, err, "failed to create product")
		return
	}
	middleware.RespondWithJSON(w, http.StatusCreated, product)
}

func (h *AdminHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		middleware.RespondWithError(w, http.StatusNotFound, "product not found")
		return
	}

	var req ProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		respondInvalidRequest(w, h.logger, err)
		return
	}

	product := req.toProduct(id)
	if err := h.admin.UpdateProduct(r.Context(), product); err != nil {
		respondServiceError(w, h.logger, err, "failed to update product")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, product)
}

func (h *AdminHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		middleware.RespondWithError(w, http.StatusNotFound, "product not found")
		return
	}

	if err := h.admin.DeleteProduct(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "failed to delete product")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.orders.GetAllOrdersSummary(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to list orders")
		return
	}
	if summaries == nil {
		summaries = []domain.OrderSummary{}
	}
	middleware.RespondWithJSON(w, http.StatusOK, summaries)
}

func (h *AdminHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseOrderID(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusNotFound, "order not found")
		return
	}

	var req StatusRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		respondInvalidRequest(w, h.logger, err)
		return
	}

	order, err := h.orders.UpdateStatus(r.Context(), id, domain.OrderStatus(req.Status))
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to update order")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, order)
}

// Sales answers ?range=7d|30d|all&productId=&category=&bucket=day|month|year
func (h *AdminHandler) Sales(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	since, err := sales.ParseRange(h.now(), q.Get("range"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	bucketing, err := sales.ParseBucketing(q.Get("bucket"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	filter := sales.Filter{Since: since, Category: q.Get("category")}
	if raw := q.Get("productId"); raw != "" {
		productID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid productId")
			return
		}
		filter.ProductID = &productID
	}

	report, err := h.admin.SalesReport(r.Context(), service.SalesQuery{Filter: filter, Bucketing: bucketing})
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to compute sales")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, report)
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListUsers(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to list users")
		return
	}
	if users == nil {
		users = []domain.UserWithOrderCount{}
	}
	middleware.RespondWithJSON(w, http.StatusOK, users)
}

func (h *AdminHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		middleware.RespondWithError(w, http.StatusNotFound, "user not found")
		return
	}

	if _, err := h.users.ResetPassword(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "failed to reset password")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.admin.ListReviews(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to list reviews")
		return
	}
	if reviews == nil {
		reviews = []domain.AdminReview{}
	}
	middleware.RespondWithJSON(w, http.StatusOK, reviews)
}

func (h *AdminHandler) ToggleReview(w http.ResponseWriter, r *http.Request) {
	var req ToggleReviewRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		respondInvalidRequest(w, h.logger, err)
		return
	}

	review, err := h.admin.ToggleReview(r.Context(), req.ReviewID)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to toggle review")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, review)
}
