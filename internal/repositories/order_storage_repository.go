package repositories

import (
	"context"
	"fmt"
	"time"

	"kitchen/internal/models"

	"github.com/google/uuid"
)

// OrdersKey is the storage key holding a client's order history.
const OrdersKey = "orders"

// StorageOrderRepository keeps the order history as one list under the
// orders key of the client's durable scope, oldest first.
type StorageOrderRepository struct {
	store StorageRepository
}

// NewStorageOrderRepository creates a new instance of StorageOrderRepository.
func NewStorageOrderRepository(store StorageRepository) *StorageOrderRepository {
	return &StorageOrderRepository{
		store: store,
	}
}

func (r *StorageOrderRepository) load(ctx context.Context, scope Scope) ([]models.Order, error) {
	var orders []models.Order
	if _, err := scope.Load(ctx, OrdersKey, &orders); err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}
	return orders, nil
}

// GetAll returns the stored orders. A corrupt list reads as empty.
func (r *StorageOrderRepository) GetAll(ctx context.Context, namespace string) ([]models.Order, error) {
	return r.load(ctx, NewScope(r.store, namespace))
}

// GetByID returns one stored order.
func (r *StorageOrderRepository) GetByID(ctx context.Context, namespace, id string) (*models.Order, error) {
	orders, err := r.GetAll(ctx, namespace)
	if err != nil {
		return nil, err
	}
	for _, o := range orders {
		if o.ID == id {
			return &o, nil
		}
	}
	return nil, fmt.Errorf("order %s: %w", id, ErrOrderNotFound)
}

// Create appends an order to the history.
func (r *StorageOrderRepository) Create(ctx context.Context, namespace string, order *models.Order) error {
	scope := NewScope(r.store, namespace)
	orders, err := r.load(ctx, scope)
	if err != nil {
		return err
	}
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if order.PlacedAt.IsZero() {
		order.PlacedAt = time.Now()
	}
	order.UpdatedAt = order.PlacedAt
	orders = append(orders, *order)
	if err := scope.Save(ctx, OrdersKey, orders); err != nil {
		return fmt.Errorf("failed to save orders: %w", err)
	}
	return nil
}

// UpdateStatus moves a stored order to a new status.
func (r *StorageOrderRepository) UpdateStatus(ctx context.Context, namespace, id, status string) (*models.Order, error) {
	scope := NewScope(r.store, namespace)
	orders, err := r.load(ctx, scope)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		if orders[i].ID != id {
			continue
		}
		orders[i].Status = status
		orders[i].UpdatedAt = time.Now()
		if err := scope.Save(ctx, OrdersKey, orders); err != nil {
			return nil, fmt.Errorf("failed to save orders: %w", err)
		}
		return &orders[i], nil
	}
	return nil, fmt.Errorf("order %s: %w", id, ErrOrderNotFound)
}
