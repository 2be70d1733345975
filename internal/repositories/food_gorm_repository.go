package repositories

import (
	"errors"
	"fmt"

	"kitchen/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMFoodRepository is a GORM implementation of FoodRepository.
type GORMFoodRepository struct {
	db *gorm.DB
}

// NewGORMFoodRepository creates a new instance of GORMFoodRepository.
func NewGORMFoodRepository(db *gorm.DB) *GORMFoodRepository {
	return &GORMFoodRepository{
		db: db,
	}
}

// GetAll retrieves all food items in menu order.
func (r *GORMFoodRepository) GetAll() ([]models.FoodItem, error) {
	var items []models.FoodItem
	if err := r.db.Order("position").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to get food items: %w", err)
	}
	return items, nil
}

// GetByID retrieves a single food item by its ID.
func (r *GORMFoodRepository) GetByID(id string) (*models.FoodItem, error) {
	var item models.FoodItem
	if err := r.db.First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("food item %s: %w", id, ErrFoodNotFound)
		}
		return nil, fmt.Errorf("failed to get food item %s: %w", id, err)
	}
	return &item, nil
}

// GetByCategory retrieves the items of one category in menu order.
func (r *GORMFoodRepository) GetByCategory(category string) ([]models.FoodItem, error) {
	var items []models.FoodItem
	if err := r.db.Where("category = ?", category).Order("position").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to get food items in %s: %w", category, err)
	}
	return items, nil
}

// Categories retrieves all categories in menu order.
func (r *GORMFoodRepository) Categories() ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.Order("position").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}
	return categories, nil
}

// Create inserts a food item.
func (r *GORMFoodRepository) Create(item *models.FoodItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if err := r.db.Create(item).Error; err != nil {
		return fmt.Errorf("failed to create food item: %w", err)
	}
	return nil
}

// CreateCategory inserts a category.
func (r *GORMFoodRepository) CreateCategory(category *models.Category) error {
	if err := r.db.Create(category).Error; err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

// Count returns the number of food items.
func (r *GORMFoodRepository) Count() (int64, error) {
	var n int64
	if err := r.db.Model(&models.FoodItem{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count food items: %w", err)
	}
	return n, nil
}
