package repositories

import (
	"fmt"
	"sync"

	"kitchen/internal/models"

	"github.com/google/uuid"
)

// MockFoodRepository is an in-memory implementation of FoodRepository.
type MockFoodRepository struct {
	items      []models.FoodItem
	categories []models.Category
	mu         sync.RWMutex
}

// NewMockFoodRepository creates a new instance of MockFoodRepository.
func NewMockFoodRepository() *MockFoodRepository {
	return &MockFoodRepository{}
}

// GetAll returns all food items in insertion order.
func (r *MockFoodRepository) GetAll() ([]models.FoodItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.FoodItem, len(r.items))
	copy(out, r.items)
	return out, nil
}

// GetByID returns a food item by its ID.
func (r *MockFoodRepository) GetByID(id string) (*models.FoodItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.items {
		if item.ID == id {
			return &item, nil
		}
	}
	return nil, fmt.Errorf("food item %s: %w", id, ErrFoodNotFound)
}

// GetByCategory returns the items of a category.
func (r *MockFoodRepository) GetByCategory(category string) ([]models.FoodItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []models.FoodItem
	for _, item := range r.items {
		if item.Category == category {
			out = append(out, item)
		}
	}
	return out, nil
}

// Categories returns all categories.
func (r *MockFoodRepository) Categories() ([]models.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Category, len(r.categories))
	copy(out, r.categories)
	return out, nil
}

// Create adds a food item.
func (r *MockFoodRepository) Create(item *models.FoodItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	for _, existing := range r.items {
		if existing.ID == item.ID {
			return fmt.Errorf("food item with ID %s already exists", item.ID)
		}
	}
	r.items = append(r.items, *item)
	return nil
}

// CreateCategory adds a category.
func (r *MockFoodRepository) CreateCategory(category *models.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.categories = append(r.categories, *category)
	return nil
}

// Count returns the number of food items.
func (r *MockFoodRepository) Count() (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.items)), nil
}
