package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"zenith-store/internal/cache"
	"zenith-store/internal/domain"
	"zenith-store/internal/metrics"
	"zenith-store/internal/repository"

	"go.uber.org/zap"
)

const (
	// ProductsCacheKey holds the serialized catalog
	ProductsCacheKey = "products:all"

	DefaultCatalogTTL = time.Hour
)

// CatalogService serves the product catalog through a read-through cache
type CatalogService interface {
	GetAllProducts(ctx context.Context) ([]domain.Product, error)
	// Invalidate drops the cached catalog regardless of readiness. Failures
	// are logged, never returned.
	Invalidate(ctx context.Context)
	GetProduct(ctx context.Context, id int64) (*domain.ProductDetail, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	AddReview(ctx context.Context, review *domain.Review) error
}

type catalogService struct {
	productRepo  repository.ProductRepository
	reviewRepo   repository.ReviewRepository
	categoryRepo repository.CategoryRepository
	cache        cache.Client
	ttl          time.Duration
	logger       *zap.Logger
}

// NewCatalogService creates a new instance of CatalogService
func NewCatalogService(
	productRepo repository.ProductRepository,
	reviewRepo repository.ReviewRepository,
	categoryRepo repository.CategoryRepository,
	cacheClient cache.Client,
	ttl time.Duration,
	logger *zap.Logger,
) CatalogService {
	if ttl <= 0 {
		ttl = DefaultCatalogTTL
	}
	return &catalogService{
		productRepo:  productRepo,
		reviewRepo:   reviewRepo,
		categoryRepo: categoryRepo,
		cache:        cacheClient,
		ttl:          ttl,
		logger:       logger,
	}
}

func (s *catalogService) GetAllProducts(ctx context.Context) ([]domain.Product, error) {
	if !s.cache.Ready(ctx) {
		s.logger.Debug("Cache not ready, reading catalog from storage")
		metrics.CacheMisses.WithLabelValues(ProductsCacheKey).Inc()
		return s.productRepo.ListAll(ctx)
	}

	if products, ok := s.readCached(ctx); ok {
		metrics.CacheHits.WithLabelValues(ProductsCacheKey).Inc()
		return products, nil
	}
	metrics.CacheMisses.WithLabelValues(ProductsCacheKey).Inc()

	products, err := s.productRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(products)
	if err != nil {
		s.logger.Warn("Failed to encode catalog for cache", zap.Error(err))
		return products, nil
	}
	if err := s.cache.Set(ctx, ProductsCacheKey, payload, s.ttl); err != nil {
		s.logger.Warn("Failed to populate catalog cache", zap.Error(err))
	}

	return products, nil
}

func (s *catalogService) readCached(ctx context.Context) ([]domain.Product, bool) {
	payload, err := s.cache.Get(ctx, ProductsCacheKey)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			s.logger.Warn("Failed to read catalog cache", zap.Error(err))
		}
		return nil, false
	}

	var products []domain.Product
	if err := json.Unmarshal(payload, &products); err != nil {
		s.logger.Warn("Discarding undecodable catalog cache entry", zap.Error(err))
		return nil, false
	}
	return products, true
}

// Invalidate always attempts the delete. A stale readiness flag must not
// leave an outdated catalog behind for the rest of its TTL.
func (s *catalogService) Invalidate(ctx context.Context) {
	if err := s.cache.Del(ctx, ProductsCacheKey); err != nil {
		s.logger.Warn("Failed to invalidate catalog cache", zap.Error(err))
		return
	}
	s.logger.Debug("Catalog cache invalidated")
}

// GetProduct returns a product with its visible reviews, newest first
func (s *catalogService) GetProduct(ctx context.Context, id int64) (*domain.ProductDetail, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	reviews, err := s.reviewRepo.ListVisibleByProduct(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load reviews: %w", err)
	}

	return &domain.ProductDetail{Product: *product, Reviews: reviews}, nil
}

func (s *catalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.categoryRepo.List(ctx)
}

func (s *catalogService) AddReview(ctx context.Context, review *domain.Review) error {
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return err
	}
	s.logger.Info("Review added",
		zap.Int64("review_id", review.ID),
		zap.Int64("product_id", review.ProductID),
		zap.Int64("user_id", review.UserID),
	)
	return nil
}
