package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"zenith-store/internal/cache"
	"zenith-store/internal/config"
	"zenith-store/internal/database"
	"zenith-store/internal/events"
	"zenith-store/internal/metrics"
	custommiddleware "zenith-store/internal/middleware"
	"zenith-store/internal/repository"
	"zenith-store/internal/service"
	"zenith-store/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Dependencies are the long-lived resources the HTTP layer is built on
type Dependencies struct {
	DB        database.Service
	Cache     cache.Client
	Redis     *redis.Client
	Publisher events.Publisher
}

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	deps   Dependencies
}

// NewDependencies connects redis and kafka according to cfg. The database is
// opened by the caller.
func NewDependencies(cfg *config.Config, logger *zap.Logger, db database.Service) (Dependencies, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	var cacheClient cache.Client
	switch cfg.Cache.Driver {
	case "memory":
		cacheClient = cache.NewMemory()
	case "redis", "":
		cacheClient = cache.NewRedisClient(rdb, logger.Named("cache"))
	default:
		rdb.Close()
		return Dependencies{}, fmt.Errorf("unknown cache driver %q", cfg.Cache.Driver)
	}

	publisher := events.NewNopPublisher()
	if len(cfg.Kafka.SeedBrokers) > 0 {
		kafka, err := events.NewKafkaPublisher(cfg.Kafka.SeedBrokers, cfg.Kafka.OrderTopic, logger.Named("events"))
		if err != nil {
			rdb.Close()
			return Dependencies{}, err
		}
		publisher = kafka
	} else {
		logger.Info("No kafka seed brokers configured, order events disabled")
	}

	return Dependencies{
		DB:        db,
		Cache:     cacheClient,
		Redis:     rdb,
		Publisher: publisher,
	}, nil
}

func NewServer(cfg *config.Config, logger *zap.Logger, deps Dependencies) *Server {
	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      NewRouter(cfg, logger, deps),
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		deps:   deps,
	}

	return server
}

// NewRouter wires repositories, services and handlers into a chi router
func NewRouter(cfg *config.Config, logger *zap.Logger, deps Dependencies) http.Handler {
	router := chi.NewRouter()

	router.Use(custommiddleware.DefaultMiddlewareStack()...)
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(metrics.Middleware())
	router.Use(middleware.Recoverer)
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(cfg.Server.AllowedOrigins, cfg.Server.IsDevelopment()))

	// Health check endpoint
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		dbHealth := deps.DB.Health()
		status := http.StatusOK
		if dbHealth["status"] != "up" {
			status = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":   http.StatusText(status),
			"database": dbHealth,
			"cache":    deps.Cache.Ready(r.Context()),
		})
	})
	router.Handle("/metrics", metrics.Handler())

	db := deps.DB.DB()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	orderRepo := repository.NewOrderRepository(db)

	// Initialize services
	userService := service.NewUserService(userRepo, cfg.JWT.Secret, time.Duration(cfg.JWT.Expiry)*time.Hour, logger)
	catalogService := service.NewCatalogService(productRepo, reviewRepo, categoryRepo, deps.Cache, cfg.Cache.CatalogTTL, logger.Named("catalog"))
	orderService := service.NewOrderService(orderRepo, deps.Publisher, logger.Named("orders"))
	adminService := service.NewAdminService(orderRepo, productRepo, reviewRepo, catalogService, orderService, logger.Named("admin"))

	// Create auth middleware
	authMiddleware := custommiddleware.AuthMiddleware(cfg.JWT.Secret, logger)

	// Register routes
	router.Group(func(r chi.Router) {
		if deps.Redis != nil && cfg.RateLimit.Requests > 0 {
			r.Use(custommiddleware.RateLimitMiddleware(deps.Redis, custommiddleware.RateLimitConfig{
				RequestsPerWindow: cfg.RateLimit.Requests,
				Window:            cfg.RateLimit.Window,
				KeyPrefix:         "ratelimit:api",
			}, logger))
		}

		transport.NewUserHandler(userService, logger).RegisterRoutes(r, authMiddleware)
		transport.NewProductHandler(catalogService, userService, logger).RegisterRoutes(r, authMiddleware)
		transport.NewOrderHandler(orderService, logger).RegisterRoutes(r, authMiddleware)
		transport.NewAdminHandler(adminService, orderService, userService, logger).RegisterRoutes(r, authMiddleware)
	})

	return router
}

// Close releases the database, cache, redis and event producer
func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.deps.Publisher != nil {
		s.deps.Publisher.Close()
	}

	if s.deps.Cache != nil {
		if err := s.deps.Cache.Close(); err != nil {
			s.logger.Error("Failed to close cache", zap.Error(err))
		}
	}

	// The redis cache driver owns the shared client and has closed it already.
	if _, shared := s.deps.Cache.(*cache.RedisClient); !shared && s.deps.Redis != nil {
		if err := s.deps.Redis.Close(); err != nil {
			s.logger.Error("Failed to close redis connection", zap.Error(err))
		}
	}

	if s.deps.DB != nil {
		if err := s.deps.DB.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
