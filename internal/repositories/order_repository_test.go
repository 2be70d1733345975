package repositories_test

import (
	"context"
	"testing"
	"time"

	"kitchen/internal/models"
	"kitchen/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderRepositories(t *testing.T) {
	repos := map[string]repositories.OrderRepository{
		"storage": repositories.NewStorageOrderRepository(repositories.NewMockStorageRepository()),
		"mock":    repositories.NewMockOrderRepository(),
	}

	for name, repo := range repos {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			placed := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

			orders, err := repo.GetAll(ctx, "client:a")
			require.NoError(t, err)
			assert.Empty(t, orders)

			first := &models.Order{ID: "ORD-1", PlacedAt: placed, Total: 9100, Status: models.OrderStatusPending}
			require.NoError(t, repo.Create(ctx, "client:a", first))
			second := &models.Order{Total: 500}
			require.NoError(t, repo.Create(ctx, "client:a", second))
			assert.NotEmpty(t, second.ID)
			assert.False(t, second.PlacedAt.IsZero())

			orders, err = repo.GetAll(ctx, "client:a")
			require.NoError(t, err)
			require.Len(t, orders, 2)
			assert.Equal(t, "ORD-1", orders[0].ID)

			got, err := repo.GetByID(ctx, "client:a", "ORD-1")
			require.NoError(t, err)
			assert.Equal(t, int64(9100), got.Total)
			assert.True(t, placed.Equal(got.PlacedAt))

			_, err = repo.GetByID(ctx, "client:b", "ORD-1")
			assert.ErrorIs(t, err, repositories.ErrOrderNotFound)

			updated, err := repo.UpdateStatus(ctx, "client:a", "ORD-1", models.OrderStatusDelivered)
			require.NoError(t, err)
			assert.Equal(t, models.OrderStatusDelivered, updated.Status)

			got, err = repo.GetByID(ctx, "client:a", "ORD-1")
			require.NoError(t, err)
			assert.Equal(t, models.OrderStatusDelivered, got.Status)

			_, err = repo.UpdateStatus(ctx, "client:a", "nope", models.OrderStatusDelivered)
			assert.ErrorIs(t, err, repositories.ErrOrderNotFound)
		})
	}
}

func TestStorageOrderRepository_CorruptHistoryReadsEmpty(t *testing.T) {
	ctx := context.Background()
	store := repositories.NewMockStorageRepository()
	require.NoError(t, store.Set(ctx, "client:a", repositories.OrdersKey, "not json"))

	repo := repositories.NewStorageOrderRepository(store)
	orders, err := repo.GetAll(ctx, "client:a")
	require.NoError(t, err)
	assert.Empty(t, orders)
}
