package repositories

import (
	"errors"

	"kitchen/internal/models"
)

// ErrFoodNotFound is returned when a food item id is not on the menu.
var ErrFoodNotFound = errors.New("food item not found")

// FoodRepository defines the interface for menu data access. Items and
// categories come back in menu order.
type FoodRepository interface {
	GetAll() ([]models.FoodItem, error)
	GetByID(id string) (*models.FoodItem, error)
	GetByCategory(category string) ([]models.FoodItem, error)
	Categories() ([]models.Category, error)
	Create(item *models.FoodItem) error
	CreateCategory(category *models.Category) error
	Count() (int64, error)
}
