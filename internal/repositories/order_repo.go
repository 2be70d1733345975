package repositories

import (
	"context"
	"errors"

	"kitchen/internal/models"
)

// ErrOrderNotFound is returned when an order id is not in a client's history.
var ErrOrderNotFound = errors.New("order not found")

// OrderRepository defines the interface for a client's order history. The
// namespace is the client's durable storage namespace.
type OrderRepository interface {
	GetAll(ctx context.Context, namespace string) ([]models.Order, error)
	GetByID(ctx context.Context, namespace, id string) (*models.Order, error)
	Create(ctx context.Context, namespace string, order *models.Order) error
	UpdateStatus(ctx context.Context, namespace, id, status string) (*models.Order, error)
}
