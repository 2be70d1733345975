package models

// CartLine is one customized entry in the cart. TotalPrice is the line total
// for Quantity, not a unit price.
type CartLine struct {
	ID                  string   `json:"id"`
	FoodItem            FoodItem `json:"foodItem"`
	Quantity            int      `json:"quantity"`
	SelectedProtein     string   `json:"selectedProtein,omitempty"`
	SelectedSides       []string `json:"selectedSides"`
	SpecialInstructions string   `json:"specialInstructions,omitempty"`
	TotalPrice          int64    `json:"totalPrice"`
}

// UnitPrice recovers the per-unit price from the line total.
func (l CartLine) UnitPrice() int64 {
	if l.Quantity <= 0 {
		return 0
	}
	return l.TotalPrice / int64(l.Quantity)
}

// AddCartLineRequest is the body for adding a menu item to the cart.
type AddCartLineRequest struct {
	FoodItemID          string   `json:"foodItemId" validate:"required"`
	Quantity            int      `json:"quantity" validate:"omitempty,gte=1,lte=99"`
	SelectedProtein     string   `json:"selectedProtein"`
	SelectedSides       []string `json:"selectedSides" validate:"omitempty,dive,required"`
	SpecialInstructions string   `json:"specialInstructions" validate:"omitempty,max=500"`
}

// UpdateCartLineRequest is the body for changing a line's quantity. Zero or
// negative removes the line.
type UpdateCartLineRequest struct {
	Quantity int `json:"quantity"`
}
