// Package cart holds the in-memory cart store: an ordered list of customized
// lines that merges identical selections and keeps line totals consistent
// with quantities.
package cart

import (
	"slices"

	"kitchen/internal/models"
)

// Cart is an ordered list of lines. It is not safe for concurrent use;
// callers own one Cart per tab.
type Cart struct {
	lines []models.CartLine
	open  bool
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{lines: []models.CartLine{}}
}

// FromLines rebuilds a cart from persisted lines, keeping their order.
func FromLines(lines []models.CartLine) *Cart {
	c := New()
	for _, l := range lines {
		if l.Quantity <= 0 {
			continue
		}
		l.SelectedSides = slices.Clone(l.SelectedSides)
		c.lines = append(c.lines, l)
	}
	return c
}

// AddLine merges candidate into a line with the same food item, protein and
// set of sides, or appends it. Either way the cart is marked open.
func (c *Cart) AddLine(candidate models.CartLine) {
	c.open = true
	if candidate.Quantity <= 0 {
		return
	}
	for i := range c.lines {
		if sameSelection(c.lines[i], candidate) {
			c.lines[i].Quantity += candidate.Quantity
			c.lines[i].TotalPrice += candidate.TotalPrice
			return
		}
	}
	candidate.SelectedSides = slices.Clone(candidate.SelectedSides)
	if candidate.SelectedSides == nil {
		candidate.SelectedSides = []string{}
	}
	c.lines = append(c.lines, candidate)
}

// RemoveLine deletes the line with the given id. Unknown ids are ignored.
func (c *Cart) RemoveLine(lineID string) {
	c.lines = slices.DeleteFunc(c.lines, func(l models.CartLine) bool {
		return l.ID == lineID
	})
}

// UpdateQuantity sets a line's quantity, keeping its unit price. A quantity of
// zero or less removes the line. Unknown ids are ignored.
func (c *Cart) UpdateQuantity(lineID string, quantity int) {
	if quantity <= 0 {
		c.RemoveLine(lineID)
		return
	}
	for i := range c.lines {
		l := &c.lines[i]
		if l.ID != lineID {
			continue
		}
		// multiply first: total/qty*q truncates for totals that are not a
		// whole multiple of qty
		l.TotalPrice = l.TotalPrice * int64(quantity) / int64(l.Quantity)
		l.Quantity = quantity
		return
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.lines = []models.CartLine{}
}

// Total is the sum of all line totals.
func (c *Cart) Total() int64 {
	var total int64
	for _, l := range c.lines {
		total += l.TotalPrice
	}
	return total
}

// Count is the sum of all line quantities.
func (c *Cart) Count() int {
	count := 0
	for _, l := range c.lines {
		count += l.Quantity
	}
	return count
}

// Len is the number of lines.
func (c *Cart) Len() int { return len(c.lines) }

// Line returns the line with the given id.
func (c *Cart) Line(lineID string) (models.CartLine, bool) {
	for _, l := range c.lines {
		if l.ID == lineID {
			return l, true
		}
	}
	return models.CartLine{}, false
}

// Lines returns a copy of the lines in cart order.
func (c *Cart) Lines() []models.CartLine {
	out := make([]models.CartLine, len(c.lines))
	for i, l := range c.lines {
		l.SelectedSides = slices.Clone(l.SelectedSides)
		out[i] = l
	}
	return out
}

// IsOpen reports the display-only open flag.
func (c *Cart) IsOpen() bool { return c.open }

// SetOpen sets the display-only open flag.
func (c *Cart) SetOpen(open bool) { c.open = open }

func sameSelection(a, b models.CartLine) bool {
	return a.FoodItem.ID == b.FoodItem.ID &&
		a.SelectedProtein == b.SelectedProtein &&
		sameSet(a.SelectedSides, b.SelectedSides)
}

// sameSet compares two id lists as sets; duplicates collapse.
func sameSet(a, b []string) bool {
	x := slices.Clone(a)
	slices.Sort(x)
	x = slices.Compact(x)
	y := slices.Clone(b)
	slices.Sort(y)
	y = slices.Compact(y)
	return slices.Equal(x, y)
}
