package services

import (
	"errors"
	"slices"
	"strings"

	"kitchen/internal/models"
	"kitchen/internal/repositories"
	"kitchen/internal/validation"

	"github.com/google/uuid"
)

// PopularCategory is the virtual category listing the first few menu items.
const PopularCategory = "Popular"

const popularCount = 6

// MenuService handles menu browsing and prices cart lines from catalog data.
type MenuService struct {
	repo repositories.FoodRepository
}

// NewMenuService creates a new MenuService.
func NewMenuService(repo repositories.FoodRepository) *MenuService {
	return &MenuService{
		repo: repo,
	}
}

// Categories returns the menu categories with Popular first.
func (s *MenuService) Categories() ([]models.Category, error) {
	cats, err := s.repo.Categories()
	if err != nil {
		return nil, err
	}
	popular := models.Category{Name: PopularCategory, Description: "Our most loved dishes"}
	return append([]models.Category{popular}, cats...), nil
}

// Items returns the items of a category, or the whole menu for "".
func (s *MenuService) Items(category string) ([]models.FoodItem, error) {
	switch category {
	case "":
		return s.repo.GetAll()
	case PopularCategory:
		items, err := s.repo.GetAll()
		if err != nil {
			return nil, err
		}
		return items[:min(popularCount, len(items))], nil
	}
	return s.repo.GetByCategory(category)
}

// Item returns a single food item.
func (s *MenuService) Item(id string) (*models.FoodItem, error) {
	return s.repo.GetByID(id)
}

// FindByName looks an item up by its display name, ignoring case.
func (s *MenuService) FindByName(name string) (*models.FoodItem, bool) {
	items, err := s.repo.GetAll()
	if err != nil {
		return nil, false
	}
	for i := range items {
		if strings.EqualFold(items[i].Name, name) {
			return &items[i], true
		}
	}
	return nil, false
}

// NewLine builds a priced cart line from a catalog item and a selection.
// The item's default protein is used when none is chosen.
func (s *MenuService) NewLine(req models.AddCartLineRequest) (models.CartLine, error) {
	item, err := s.repo.GetByID(req.FoodItemID)
	if err != nil {
		if errors.Is(err, repositories.ErrFoodNotFound) {
			return models.CartLine{}, validation.FieldErrors{"foodItemId": "This item is not on the menu"}
		}
		return models.CartLine{}, err
	}

	qty := req.Quantity
	if qty == 0 {
		qty = 1
	}
	unit := item.Price

	protein := req.SelectedProtein
	if protein == "" {
		protein = item.DefaultProtein()
	}
	if protein != "" {
		p, ok := item.Protein(protein)
		if !ok {
			return models.CartLine{}, validation.FieldErrors{"selectedProtein": "Unknown protein option"}
		}
		unit += p.Price
	}

	sides := make([]string, 0, len(req.SelectedSides))
	for _, id := range req.SelectedSides {
		if slices.Contains(sides, id) {
			continue
		}
		side, ok := item.Side(id)
		if !ok {
			return models.CartLine{}, validation.FieldErrors{"selectedSides": "Unknown side option " + id}
		}
		unit += side.Price
		sides = append(sides, id)
	}

	return models.CartLine{
		ID:                  uuid.NewString(),
		FoodItem:            *item,
		Quantity:            qty,
		SelectedProtein:     protein,
		SelectedSides:       sides,
		SpecialInstructions: strings.TrimSpace(req.SpecialInstructions),
		TotalPrice:          unit * int64(qty),
	}, nil
}
