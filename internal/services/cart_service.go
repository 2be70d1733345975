package services

import (
	"context"

	"kitchen/internal/cart"
	"kitchen/internal/models"

	"github.com/go-playground/validator/v10"
)

// CartView is the cart as returned to callers.
type CartView struct {
	Lines []models.CartLine `json:"lines"`
	Total int64             `json:"total"`
	Count int               `json:"count"`
	Open  bool              `json:"open"`
}

func viewOf(c *cart.Cart) CartView {
	return CartView{Lines: c.Lines(), Total: c.Total(), Count: c.Count(), Open: c.IsOpen()}
}

// CartService handles a tab's cart.
type CartService struct {
	storage  *Storage
	menu     *MenuService
	validate *validator.Validate
}

// NewCartService creates a new CartService.
func NewCartService(storage *Storage, menu *MenuService, validate *validator.Validate) *CartService {
	return &CartService{
		storage:  storage,
		menu:     menu,
		validate: validate,
	}
}

// Get returns the tab's cart.
func (s *CartService) Get(ctx context.Context, c Client) (CartView, error) {
	unlock := s.storage.Lock(c)
	defer unlock()

	crt, err := s.storage.loadCart(ctx, c)
	if err != nil {
		return CartView{}, err
	}
	return viewOf(crt), nil
}

// Add prices a menu selection and adds it to the cart, merging with an
// identical selection.
func (s *CartService) Add(ctx context.Context, c Client, req models.AddCartLineRequest) (CartView, error) {
	if err := validateStruct(s.validate, req); err != nil {
		return CartView{}, err
	}
	line, err := s.menu.NewLine(req)
	if err != nil {
		return CartView{}, err
	}
	return s.mutate(ctx, c, func(crt *cart.Cart) { crt.AddLine(line) })
}

// UpdateQuantity sets a line's quantity; zero or less removes it.
func (s *CartService) UpdateQuantity(ctx context.Context, c Client, lineID string, quantity int) (CartView, error) {
	return s.mutate(ctx, c, func(crt *cart.Cart) { crt.UpdateQuantity(lineID, quantity) })
}

// Remove deletes a line.
func (s *CartService) Remove(ctx context.Context, c Client, lineID string) (CartView, error) {
	return s.mutate(ctx, c, func(crt *cart.Cart) { crt.RemoveLine(lineID) })
}

// SetOpen records whether the cart drawer is shown.
func (s *CartService) SetOpen(ctx context.Context, c Client, open bool) (CartView, error) {
	return s.mutate(ctx, c, func(crt *cart.Cart) { crt.SetOpen(open) })
}

// Clear empties the cart.
func (s *CartService) Clear(ctx context.Context, c Client) (CartView, error) {
	return s.mutate(ctx, c, func(crt *cart.Cart) { crt.Clear() })
}

func (s *CartService) mutate(ctx context.Context, c Client, fn func(*cart.Cart)) (CartView, error) {
	unlock := s.storage.Lock(c)
	defer unlock()

	crt, err := s.storage.loadCart(ctx, c)
	if err != nil {
		return CartView{}, err
	}
	fn(crt)
	if err := s.storage.saveCart(ctx, c, crt); err != nil {
		return CartView{}, err
	}
	return viewOf(crt), nil
}
