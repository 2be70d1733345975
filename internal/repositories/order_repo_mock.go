package repositories

import (
	"context"
	"fmt"
	"sync"
	"time"

	"kitchen/internal/models"

	"github.com/google/uuid"
)

// MockOrderRepository is an in-memory implementation of OrderRepository.
type MockOrderRepository struct {
	orders map[string][]models.Order
	mu     sync.RWMutex
}

// NewMockOrderRepository creates a new instance of MockOrderRepository.
func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		orders: make(map[string][]models.Order),
	}
}

// GetAll returns a namespace's orders.
func (r *MockOrderRepository) GetAll(_ context.Context, namespace string) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Order, len(r.orders[namespace]))
	copy(out, r.orders[namespace])
	return out, nil
}

// GetByID returns an order by its ID.
func (r *MockOrderRepository) GetByID(_ context.Context, namespace, id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, o := range r.orders[namespace] {
		if o.ID == id {
			return &o, nil
		}
	}
	return nil, fmt.Errorf("order %s: %w", id, ErrOrderNotFound)
}

// Create adds a new order.
func (r *MockOrderRepository) Create(_ context.Context, namespace string, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if order.PlacedAt.IsZero() {
		order.PlacedAt = time.Now()
	}
	order.UpdatedAt = order.PlacedAt
	r.orders[namespace] = append(r.orders[namespace], *order)
	return nil
}

// UpdateStatus updates the status of an order.
func (r *MockOrderRepository) UpdateStatus(_ context.Context, namespace, id, status string) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	orders := r.orders[namespace]
	for i := range orders {
		if orders[i].ID == id {
			orders[i].Status = status
			orders[i].UpdatedAt = time.Now()
			o := orders[i]
			return &o, nil
		}
	}
	return nil, fmt.Errorf("order %s: %w", id, ErrOrderNotFound)
}
