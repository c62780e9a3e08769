package transport

import (
	"context"
	"net/http"
	"strconv"
	"testing"
	"time"

	"zenith-store/internal/domain"
	"zenith-store/internal/middleware"
	"zenith-store/internal/repository"
	"zenith-store/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

type stubUserService struct {
	users map[string]*domain.User
	reset []int64
}

func newStubUserService() *stubUserService {
	return &stubUserService{users: make(map[string]*domain.User)}
}

func (s *stubUserService) Register(ctx context.Context, input service.RegisterInput) (string, *domain.User, error) {
	if _, exists := s.users[input.Email]; exists {
		return "", nil, repository.ErrUserAlreadyExists
	}
	user := &domain.User{
		ID:    int64(len(s.users) + 1),
		Name:  input.Name,
		Email: input.Email,
		Phone: input.Phone,
		Role:  domain.RoleCustomer,
	}
	s.users[input.Email] = user
	return "token-" + strconv.FormatInt(user.ID, 10), user, nil
}

func (s *stubUserService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	user, ok := s.users[email]
	if !ok || password != "secret123" {
		return "", nil, service.ErrInvalidCredentials
	}
	return "token-" + strconv.FormatInt(user.ID, 10), user, nil
}

func (s *stubUserService) ValidateToken(tokenString string) (*service.Claims, error) {
	return nil, service.ErrInvalidToken
}

func (s *stubUserService) GetUserByID(ctx context.Context, userID int64) (*domain.User, error) {
	for _, user := range s.users {
		if user.ID == userID {
			return user, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (s *stubUserService) ListUsers(ctx context.Context) ([]domain.UserWithOrderCount, error) {
	return nil, nil
}

func (s *stubUserService) ResetPassword(ctx context.Context, userID int64) (string, error) {
	if _, err := s.GetUserByID(ctx, userID); err != nil {
		return "", err
	}
	s.reset = append(s.reset, userID)
	return "temporary", nil
}

type stubCatalog struct {
	products []domain.Product
	reviews  []domain.Review
}

func (s *stubCatalog) GetAllProducts(ctx context.Context) ([]domain.Product, error) {
	return s.products, nil
}

func (s *stubCatalog) Invalidate(ctx context.Context) {}

func (s *stubCatalog) GetProduct(ctx context.Context, id int64) (*domain.ProductDetail, error) {
	for _, p := range s.products {
		if p.ID == id {
			return &domain.ProductDetail{Product: p, Reviews: []domain.Review{}}, nil
		}
	}
	return nil, repository.ErrProductNotFound
}

func (s *stubCatalog) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return []domain.Category{{Name: "Shoes", ProductCount: len(s.products)}}, nil
}

func (s *stubCatalog) AddReview(ctx context.Context, review *domain.Review) error {
	if _, err := s.GetProduct(ctx, review.ProductID); err != nil {
		return err
	}
	review.ID = int64(len(s.reviews) + 1)
	s.reviews = append(s.reviews, *review)
	return nil
}

type stubOrders struct {
	orders    []domain.Order
	createErr error
}

func (s *stubOrders) CreateOrder(ctx context.Context, userID int64, input service.CreateOrderInput) (*domain.Order, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	order := domain.Order{
		ID:              domain.OrderID(len(s.orders) + 1),
		UserID:          userID,
		Date:            time.Now(),
		Items:           input.Items,
		Total:           input.Total,
		Status:          domain.OrderStatusPending,
		ShippingAddress: input.ShippingAddress,
		CustomerName:    input.CustomerName,
		CustomerEmail:   input.CustomerEmail,
	}
	s.orders = append(s.orders, order)
	return &order, nil
}

func (s *stubOrders) GetOrdersForUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	var out []domain.Order
	for _, o := range s.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *stubOrders) GetAllOrdersSummary(ctx context.Context) ([]domain.OrderSummary, error) {
	return nil, nil
}

func (s *stubOrders) GetAllOrders(ctx context.Context) ([]domain.Order, error) {
	return s.orders, nil
}

func (s *stubOrders) UpdateStatus(ctx context.Context, id domain.OrderID, status domain.OrderStatus) (*domain.Order, error) {
	for i := range s.orders {
		if s.orders[i].ID == id {
			s.orders[i].Status = status
			return &s.orders[i], nil
		}
	}
	return nil, repository.ErrOrderNotFound
}

type stubAdmin struct {
	deleteErr error
	lastQuery *service.SalesQuery
}

func (s *stubAdmin) Stats(ctx context.Context) (*domain.AdminStats, error) {
	return &domain.AdminStats{TotalRevenue: decimal.NewFromInt(60), TotalOrders: 3}, nil
}

func (s *stubAdmin) CreateProduct(ctx context.Context, product *domain.Product) error {
	product.ID = 10
	return nil
}

func (s *stubAdmin) UpdateProduct(ctx context.Context, product *domain.Product) error {
	return nil
}

func (s *stubAdmin) DeleteProduct(ctx context.Context, id int64) error {
	return s.deleteErr
}

func (s *stubAdmin) ListReviews(ctx context.Context) ([]domain.AdminReview, error) {
	return nil, nil
}

func (s *stubAdmin) ToggleReview(ctx context.Context, id int64) (*domain.Review, error) {
	if id != 1 {
		return nil, repository.ErrReviewNotFound
	}
	return &domain.Review{ID: 1, IsHidden: true}, nil
}

func (s *stubAdmin) SalesReport(ctx context.Context, query service.SalesQuery) (*service.SalesReport, error) {
	s.lastQuery = &query
	return &service.SalesReport{BestSellingName: "N/A"}, nil
}

type testAPI struct {
	router  chi.Router
	users   *stubUserService
	catalog *stubCatalog
	orders  *stubOrders
	admin   *stubAdmin
}

func newTestAPI() *testAPI {
	api := &testAPI{
		router: chi.NewRouter(),
		users:  newStubUserService(),
		catalog: &stubCatalog{products: []domain.Product{
			{ID: 5, Name: "Runner", Category: "Shoes", Price: decimal.RequireFromString("10.00"), Images: []string{}},
		}},
		orders: &stubOrders{},
		admin:  &stubAdmin{},
	}

	logger := zap.NewNop()
	auth := middleware.AuthMiddleware(testSecret, logger)

	NewUserHandler(api.users, logger).RegisterRoutes(api.router, auth)
	NewProductHandler(api.catalog, api.users, logger).RegisterRoutes(api.router, auth)
	NewOrderHandler(api.orders, logger).RegisterRoutes(api.router, auth)
	NewAdminHandler(api.admin, api.orders, api.users, logger).RegisterRoutes(api.router, auth)
	return api
}

func bearer(t *testing.T, userID int64, role string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": strconv.FormatInt(userID, 10),
		"role":    role,
		"exp":     time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return "Bearer " + token
}

func withAuth(t *testing.T, req *http.Request, userID int64, role string) *http.Request {
	req.Header.Set("Authorization", bearer(t, userID, role))
	return req
}
