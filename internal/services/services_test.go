package services_test

import (
	"testing"
	"time"

	"kitchen/internal/catalog"
	"kitchen/internal/checkout"
	"kitchen/internal/repositories"
	"kitchen/internal/services"
	"kitchen/internal/validation"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockPublisher is a mock implementation of services.EventPublisher.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(exchange, routingKey, contentType string, body []byte) error {
	args := m.Called(exchange, routingKey, contentType, body)
	return args.Error(0)
}

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time          { return c.now }
func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type testEnv struct {
	clock     *testClock
	storage   *services.Storage
	durable   *repositories.MockStorageRepository
	tab       *repositories.MockStorageRepository
	publisher *MockPublisher
	menu      *services.MenuService
	cart      *services.CartService
	orders    *services.OrderService
	checkout  *services.CheckoutService
	auth      *services.AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	foods := repositories.NewMockFoodRepository()
	c, err := catalog.Default()
	require.NoError(t, err)
	require.NoError(t, catalog.Seed(foods, c))

	env := &testEnv{
		clock:     &testClock{now: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)},
		durable:   repositories.NewMockStorageRepository(),
		tab:       repositories.NewMockStorageRepository(),
		publisher: new(MockPublisher),
	}
	env.storage = services.NewStorage(env.durable, env.tab)
	env.storage.SetClock(env.clock.Now)

	v := validation.New()
	env.menu = services.NewMenuService(foods)
	env.cart = services.NewCartService(env.storage, env.menu, v)
	env.orders = services.NewOrderService(repositories.NewStorageOrderRepository(env.durable), env.storage, env.menu, env.publisher)
	env.checkout = services.NewCheckoutService(env.storage, env.orders, v, checkout.DefaultSettings())
	env.auth = services.NewAuthService(env.storage, v, "test_jwt_secret")
	return env
}

var alice = services.Client{ID: "alice", TabID: "tab-1"}
