package cart_test

import (
	"testing"

	"kitchen/internal/cart"
	"kitchen/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var jollof = models.FoodItem{
	ID:    "jollof-rice",
	Name:  "Jollof Rice & Fried Chicken",
	Price: 3500,
	ProteinOptions: []models.ProteinOption{
		{ID: "fried-chicken", Name: "Fried Chicken", Default: true},
		{ID: "grilled-fish", Name: "Grilled Fish", Price: 500},
	},
	SideOptions: []models.SideOption{
		{ID: "plantain", Name: "Fried Plantain", Price: 700},
		{ID: "coleslaw", Name: "Coleslaw", Price: 500},
	},
}

func line(id string, qty int, protein string, sides []string, total int64) models.CartLine {
	return models.CartLine{
		ID:              id,
		FoodItem:        jollof,
		Quantity:        qty,
		SelectedProtein: protein,
		SelectedSides:   sides,
		TotalPrice:      total,
	}
}

func TestCart_AddLineMergesRegardlessOfSideOrder(t *testing.T) {
	c := cart.New()

	c.AddLine(line("a", 1, "fried-chicken", []string{"plantain", "coleslaw"}, 4700))
	c.AddLine(line("b", 2, "fried-chicken", []string{"coleslaw", "plantain"}, 9400))
	c.AddLine(line("c", 3, "fried-chicken", []string{"plantain", "coleslaw"}, 14100))

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "a", lines[0].ID)
	assert.Equal(t, 6, lines[0].Quantity)
	assert.Equal(t, int64(28200), lines[0].TotalPrice)
	assert.True(t, c.IsOpen())
}

func TestCart_AddLineKeepsDistinctSelectionsApart(t *testing.T) {
	c := cart.New()

	c.AddLine(line("a", 1, "fried-chicken", nil, 3500))
	c.AddLine(line("b", 1, "grilled-fish", nil, 4000))
	c.AddLine(line("c", 1, "fried-chicken", []string{"plantain"}, 4200))
	c.AddLine(line("d", 1, "fried-chicken", []string{}, 3500))

	lines := c.Lines()
	require.Len(t, lines, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{lines[0].ID, lines[1].ID, lines[2].ID})
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, int64(7000), lines[0].TotalPrice)
}

func TestCart_RemoveLine(t *testing.T) {
	c := cart.New()
	c.AddLine(line("a", 1, "", nil, 3500))
	c.AddLine(line("b", 1, "grilled-fish", nil, 4000))

	c.RemoveLine("missing")
	assert.Equal(t, 2, c.Len())

	c.RemoveLine("a")
	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "b", lines[0].ID)
}

func TestCart_UpdateQuantityPreservesUnitPrice(t *testing.T) {
	c := cart.New()
	c.AddLine(line("a", 2, "grilled-fish", []string{"plantain"}, 3000))

	c.UpdateQuantity("a", 5)

	l, ok := c.Line("a")
	require.True(t, ok)
	assert.Equal(t, 5, l.Quantity)
	assert.Equal(t, int64(7500), l.TotalPrice)
	assert.Equal(t, int64(1500), l.UnitPrice())

	c.UpdateQuantity("a", 1)
	l, _ = c.Line("a")
	assert.Equal(t, int64(1500), l.TotalPrice)
}

func TestCart_UpdateQuantityZeroEqualsRemove(t *testing.T) {
	build := func() *cart.Cart {
		c := cart.New()
		c.AddLine(line("a", 1, "", nil, 3500))
		c.AddLine(line("b", 2, "grilled-fish", nil, 8000))
		return c
	}

	for _, q := range []int{0, -1} {
		updated, removed := build(), build()
		updated.UpdateQuantity("b", q)
		removed.RemoveLine("b")
		assert.Equal(t, removed.Lines(), updated.Lines())
	}

	c := build()
	c.UpdateQuantity("missing", 4)
	assert.Equal(t, build().Lines(), c.Lines())
}

func TestCart_TotalsAndClear(t *testing.T) {
	c := cart.New()
	assert.Equal(t, int64(0), c.Total())
	assert.Equal(t, 0, c.Count())

	c.AddLine(line("a", 2, "", nil, 7000))
	c.AddLine(line("b", 1, "grilled-fish", []string{"coleslaw"}, 4500))
	assert.Equal(t, int64(11500), c.Total())
	assert.Equal(t, 3, c.Count())

	c.Clear()
	assert.Equal(t, int64(0), c.Total())
	assert.Equal(t, 0, c.Count())
	assert.Empty(t, c.Lines())
}

func TestCart_LinesReturnsCopy(t *testing.T) {
	c := cart.New()
	c.AddLine(line("a", 1, "", []string{"plantain"}, 4200))

	lines := c.Lines()
	lines[0].Quantity = 99
	lines[0].SelectedSides[0] = "coleslaw"

	l, _ := c.Line("a")
	assert.Equal(t, 1, l.Quantity)
	assert.Equal(t, []string{"plantain"}, l.SelectedSides)
}

func TestFromLines_DropsEmptyLines(t *testing.T) {
	c := cart.FromLines([]models.CartLine{
		line("a", 1, "", nil, 3500),
		line("b", 0, "", nil, 0),
	})
	assert.Equal(t, 1, c.Len())
	assert.False(t, c.IsOpen())
}
