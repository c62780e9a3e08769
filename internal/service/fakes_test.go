package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"zenith-store/internal/cache"
	"zenith-store/internal/domain"
	"zenith-store/internal/repository"

	"github.com/shopspring/decimal"
)

// Mock repositories for testing
type mockUserRepository struct {
	users  map[string]*domain.User
	nextID int64
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		users: make(map[string]*domain.User),
	}
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if _, exists := m.users[user.Email]; exists {
		return repository.ErrUserAlreadyExists
	}
	m.nextID++
	user.ID = m.nextID
	if user.Role == "" {
		user.Role = domain.RoleCustomer
	}
	user.CreatedAt = time.Now()
	m.users[user.Email] = user
	return nil
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, exists := m.users[email]
	if !exists {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

func (m *mockUserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	for _, user := range m.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserRepository) ListWithOrderCounts(ctx context.Context) ([]domain.UserWithOrderCount, error) {
	out := make([]domain.UserWithOrderCount, 0, len(m.users))
	for _, user := range m.users {
		out = append(out, domain.UserWithOrderCount{User: *user})
	}
	return out, nil
}

func (m *mockUserRepository) UpdatePasswordHash(ctx context.Context, id int64, passwordHash string) error {
	user, err := m.FindByID(ctx, id)
	if err != nil {
		return err
	}
	user.PasswordHash = passwordHash
	return nil
}

// countingProductRepository records how often the catalog was read from storage
type countingProductRepository struct {
	mu       sync.Mutex
	products []domain.Product
	listErr  error
	listCall int
}

func (m *countingProductRepository) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listCall
}

func (m *countingProductRepository) ListAll(ctx context.Context) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCall++
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]domain.Product, len(m.products))
	copy(out, m.products)
	return out, nil
}

func (m *countingProductRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.products {
		if m.products[i].ID == id {
			p := m.products[i]
			return &p, nil
		}
	}
	return nil, repository.ErrProductNotFound
}

func (m *countingProductRepository) Create(ctx context.Context, product *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	product.ID = int64(len(m.products) + 1)
	m.products = append([]domain.Product{*product}, m.products...)
	return nil
}

func (m *countingProductRepository) Update(ctx context.Context, product *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.products {
		if m.products[i].ID == product.ID {
			m.products[i] = *product
			return nil
		}
	}
	return repository.ErrProductNotFound
}

func (m *countingProductRepository) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.products {
		if m.products[i].ID == id {
			m.products = append(m.products[:i], m.products[i+1:]...)
			return nil
		}
	}
	return repository.ErrProductNotFound
}

type mockReviewRepository struct {
	reviews []domain.Review
}

func (m *mockReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	review.ID = int64(len(m.reviews) + 1)
	review.Date = time.Now()
	m.reviews = append(m.reviews, *review)
	return nil
}

func (m *mockReviewRepository) ListVisibleByProduct(ctx context.Context, productID int64) ([]domain.Review, error) {
	var out []domain.Review
	for i := len(m.reviews) - 1; i >= 0; i-- {
		if r := m.reviews[i]; r.ProductID == productID && !r.IsHidden {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockReviewRepository) ListAll(ctx context.Context) ([]domain.AdminReview, error) {
	out := make([]domain.AdminReview, 0, len(m.reviews))
	for _, r := range m.reviews {
		out = append(out, domain.AdminReview{Review: r})
	}
	return out, nil
}

func (m *mockReviewRepository) ToggleVisibility(ctx context.Context, id int64) (*domain.Review, error) {
	for i := range m.reviews {
		if m.reviews[i].ID == id {
			m.reviews[i].IsHidden = !m.reviews[i].IsHidden
			r := m.reviews[i]
			return &r, nil
		}
	}
	return nil, repository.ErrReviewNotFound
}

type mockCategoryRepository struct{}

func (mockCategoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	return []domain.Category{{Name: "Shoes", ProductCount: 2}}, nil
}

type mockOrderRepository struct {
	orders    []domain.Order
	createErr error
}

func (m *mockOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	if m.createErr != nil {
		return m.createErr
	}
	order.ID = domain.OrderID(len(m.orders) + 1)
	order.Date = time.Now()
	order.Status = domain.OrderStatusPending
	m.orders = append(m.orders, *order)
	return nil
}

func (m *mockOrderRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	var out []domain.Order
	for i := len(m.orders) - 1; i >= 0; i-- {
		if m.orders[i].UserID == userID {
			out = append(out, m.orders[i])
		}
	}
	return out, nil
}

func (m *mockOrderRepository) ListAllWithItems(ctx context.Context) ([]domain.Order, error) {
	out := make([]domain.Order, 0, len(m.orders))
	for i := len(m.orders) - 1; i >= 0; i-- {
		out = append(out, m.orders[i])
	}
	return out, nil
}

func (m *mockOrderRepository) ListSummaries(ctx context.Context) ([]domain.OrderSummary, error) {
	out := make([]domain.OrderSummary, 0, len(m.orders))
	for i := len(m.orders) - 1; i >= 0; i-- {
		o := m.orders[i]
		out = append(out, domain.OrderSummary{ID: o.ID, CustomerName: o.CustomerName, Date: o.Date, Total: o.Total, Status: o.Status})
	}
	return out, nil
}

func (m *mockOrderRepository) UpdateStatus(ctx context.Context, id domain.OrderID, status domain.OrderStatus) (*domain.Order, error) {
	for i := range m.orders {
		if m.orders[i].ID == id {
			m.orders[i].Status = status
			header := m.orders[i]
			header.Items = nil
			return &header, nil
		}
	}
	return nil, repository.ErrOrderNotFound
}

func (m *mockOrderRepository) Stats(ctx context.Context) (*domain.AdminStats, error) {
	stats := &domain.AdminStats{TotalOrders: len(m.orders), TotalRevenue: decimal.Zero}
	for _, o := range m.orders {
		if o.Status == domain.OrderStatusDelivered {
			stats.TotalRevenue = stats.TotalRevenue.Add(o.Total)
		}
	}
	return stats, nil
}

// recordingPublisher captures published orders and can be made to fail
type recordingPublisher struct {
	published []domain.OrderID
	err       error
}

func (p *recordingPublisher) PublishOrderPlaced(ctx context.Context, order *domain.Order) error {
	if p.err != nil {
		return p.err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	p.published = append(p.published, order.ID)
	return nil
}

func (p *recordingPublisher) Close() {}

// flakyCache wraps a Memory cache with switchable readiness and failures
type flakyCache struct {
	*cache.Memory
	notReady bool
	failGet  bool
	failSet  bool
	failDel  bool
	dels     int
}

var errCacheDown = errors.New("cache down")

func newFlakyCache() *flakyCache {
	return &flakyCache{Memory: cache.NewMemory()}
}

func (c *flakyCache) Ready(ctx context.Context) bool {
	return !c.notReady
}

func (c *flakyCache) Get(ctx context.Context, key string) ([]byte, error) {
	if c.failGet {
		return nil, errCacheDown
	}
	return c.Memory.Get(ctx, key)
}

func (c *flakyCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if c.failSet {
		return errCacheDown
	}
	return c.Memory.Set(ctx, key, value, ttl)
}

func (c *flakyCache) Del(ctx context.Context, key string) error {
	c.dels++
	if c.failDel {
		return errCacheDown
	}
	return c.Memory.Del(ctx, key)
}

func sampleProducts() []domain.Product {
	return []domain.Product{
		{ID: 2, Name: "Runner", Category: "Shoes", Price: decimal.RequireFromString("59.99"), Images: []string{"a.jpg"}},
		{ID: 1, Name: "Cap", Category: "Hats", Price: decimal.RequireFromString("15.00"), Images: []string{}},
	}
}
