package services_test

import (
	"testing"

	"kitchen/internal/models"
	"kitchen/internal/repositories"
	"kitchen/internal/services"
	"kitchen/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMenuService_Categories(t *testing.T) {
	env := newTestEnv(t)

	cats, err := env.menu.Categories()
	require.NoError(t, err)
	require.NotEmpty(t, cats)
	assert.Equal(t, services.PopularCategory, cats[0].Name)

	popular, err := env.menu.Items(services.PopularCategory)
	require.NoError(t, err)
	assert.Len(t, popular, 6)

	drinks, err := env.menu.Items("Drinks")
	require.NoError(t, err)
	for _, d := range drinks {
		assert.Equal(t, "Drinks", d.Category)
	}

	none, err := env.menu.Items("Nope")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestMenuService_Item(t *testing.T) {
	env := newTestEnv(t)

	item, err := env.menu.Item("chin-chin")
	require.NoError(t, err)
	assert.Equal(t, int64(800), item.Price)

	_, err = env.menu.Item("sushi")
	assert.ErrorIs(t, err, repositories.ErrFoodNotFound)
}

func TestMenuService_NewLine(t *testing.T) {
	env := newTestEnv(t)

	t.Run("default protein and sides priced", func(t *testing.T) {
		line, err := env.menu.NewLine(models.AddCartLineRequest{
			FoodItemID:    "jollof-rice-fried-chicken",
			Quantity:      2,
			SelectedSides: []string{"fried-plantain", "coleslaw", "fried-plantain"},
		})
		require.NoError(t, err)
		assert.NotEmpty(t, line.ID)
		assert.Equal(t, "fried-chicken", line.SelectedProtein)
		assert.Equal(t, []string{"fried-plantain", "coleslaw"}, line.SelectedSides)
		// (3500 + 0 + 500 + 300) x 2
		assert.Equal(t, int64(8600), line.TotalPrice)
		assert.Equal(t, int64(4300), line.UnitPrice())
	})

	t.Run("chosen protein", func(t *testing.T) {
		line, err := env.menu.NewLine(models.AddCartLineRequest{FoodItemID: "jollof-rice-fried-chicken", SelectedProtein: "grilled-fish"})
		require.NoError(t, err)
		assert.Equal(t, 1, line.Quantity)
		assert.Equal(t, int64(4000), line.TotalPrice)
	})

	t.Run("unknown options", func(t *testing.T) {
		_, err := env.menu.NewLine(models.AddCartLineRequest{FoodItemID: "jollof-rice-fried-chicken", SelectedProtein: "tofu"})
		var fe validation.FieldErrors
		require.ErrorAs(t, err, &fe)
		assert.Contains(t, fe, "selectedProtein")

		_, err = env.menu.NewLine(models.AddCartLineRequest{FoodItemID: "chin-chin", SelectedSides: []string{"ice-cream"}})
		require.ErrorAs(t, err, &fe)
		assert.Contains(t, fe, "selectedSides")

		_, err = env.menu.NewLine(models.AddCartLineRequest{FoodItemID: "sushi"})
		require.ErrorAs(t, err, &fe)
		assert.Contains(t, fe, "foodItemId")
	})
}
