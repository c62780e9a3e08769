package service

import (
	"context"
	"time"

	"zenith-store/internal/domain"
	"zenith-store/internal/repository"
	"zenith-store/internal/sales"

	"go.uber.org/zap"
)

// SalesQuery selects the orders and bucketing of a sales report
type SalesQuery struct {
	Filter    sales.Filter
	Bucketing sales.Bucketing
}

// SalesReport is the sales history view
type SalesReport struct {
	Analytics       sales.Analytics `json:"analytics"`
	BestSellingName string          `json:"bestSellingProduct"`
	Series          sales.Series    `json:"series"`
}

// AdminService defines dashboard and catalog management operations
type AdminService interface {
	Stats(ctx context.Context) (*domain.AdminStats, error)
	CreateProduct(ctx context.Context, product *domain.Product) error
	UpdateProduct(ctx context.Context, product *domain.Product) error
	DeleteProduct(ctx context.Context, id int64) error
	ListReviews(ctx context.Context) ([]domain.AdminReview, error)
	ToggleReview(ctx context.Context, id int64) (*domain.Review, error)
	SalesReport(ctx context.Context, query SalesQuery) (*SalesReport, error)
}

type adminService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	reviewRepo  repository.ReviewRepository
	catalog     CatalogService
	orders      OrderService
	logger      *zap.Logger
}

// NewAdminService creates a new instance of AdminService
func NewAdminService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	reviewRepo repository.ReviewRepository,
	catalog CatalogService,
	orders OrderService,
	logger *zap.Logger,
) AdminService {
	return &adminService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		reviewRepo:  reviewRepo,
		catalog:     catalog,
		orders:      orders,
		logger:      logger,
	}
}

func (s *adminService) Stats(ctx context.Context) (*domain.AdminStats, error) {
	return s.orderRepo.Stats(ctx)
}

func (s *adminService) CreateProduct(ctx context.Context, product *domain.Product) error {
	if err := s.productRepo.Create(ctx, product); err != nil {
		return err
	}
	s.catalog.Invalidate(ctx)
	s.logger.Info("Product created", zap.Int64("product_id", product.ID))
	return nil
}

func (s *adminService) UpdateProduct(ctx context.Context, product *domain.Product) error {
	if err := s.productRepo.Update(ctx, product); err != nil {
		return err
	}
	s.catalog.Invalidate(ctx)
	s.logger.Info("Product updated", zap.Int64("product_id", product.ID))
	return nil
}

func (s *adminService) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.catalog.Invalidate(ctx)
	s.logger.Info("Product deleted", zap.Int64("product_id", id))
	return nil
}

func (s *adminService) ListReviews(ctx context.Context) ([]domain.AdminReview, error) {
	return s.reviewRepo.ListAll(ctx)
}

func (s *adminService) ToggleReview(ctx context.Context, id int64) (*domain.Review, error) {
	review, err := s.reviewRepo.ToggleVisibility(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Review visibility toggled",
		zap.Int64("review_id", id),
		zap.Bool("hidden", review.IsHidden),
	)
	return review, nil
}

// SalesReport recomputes analytics over every order on each call
func (s *adminService) SalesReport(ctx context.Context, query SalesQuery) (*SalesReport, error) {
	start := time.Now()

	orders, err := s.orders.GetAllOrders(ctx)
	if err != nil {
		return nil, err
	}

	filtered := query.Filter.Apply(orders)
	report := &SalesReport{
		Analytics: sales.ComputeAnalytics(placementOrder(filtered)),
		Series:    sales.Aggregate(filtered, query.Bucketing),
	}
	report.Analytics.AverageOrderValue = report.Analytics.AverageOrderValue.Round(2)
	report.BestSellingName = report.Analytics.BestSellingLabel()

	if id := report.Analytics.BestSellingProductID; id != nil {
		if name, ok := productName(filtered, *id); ok {
			report.BestSellingName = name
		}
	}

	s.logger.Debug("Sales report computed",
		zap.Int("orders", len(orders)),
		zap.Int("matched", len(filtered)),
		zap.Duration("duration", time.Since(start)),
	)
	return report, nil
}

func productName(orders []domain.Order, productID int64) (string, bool) {
	for _, o := range orders {
		for _, item := range o.Items {
			if item.ProductID == productID && item.Name != "" {
				return item.Name, true
			}
		}
	}
	return "", false
}

// placementOrder returns orders oldest first. Storage lists them newest
// first, while best-seller ties go to the product that sold first.
func placementOrder(orders []domain.Order) []domain.Order {
	out := make([]domain.Order, len(orders))
	for i, order := range orders {
		out[len(orders)-1-i] = order
	}
	return out
}
