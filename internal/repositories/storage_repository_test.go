package repositories_test

import (
	"context"
	"testing"
	"time"

	"kitchen/internal/models"
	"kitchen/internal/repositories"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newSQLiteStore(t *testing.T) *repositories.GORMStorageRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.StorageEntry{}))
	return repositories.NewGORMStorageRepository(db)
}

func newRedisStore(t *testing.T, ttl time.Duration) (*repositories.RedisStorageRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return repositories.NewRedisStorageRepository(client, ttl), mr
}

func TestStorageRepositories_Contract(t *testing.T) {
	redisStore, _ := newRedisStore(t, time.Hour)
	stores := map[string]repositories.StorageRepository{
		"gorm":  newSQLiteStore(t),
		"redis": redisStore,
		"mock":  repositories.NewMockStorageRepository(),
	}

	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := store.Get(ctx, "client:a", "cart")
			assert.ErrorIs(t, err, repositories.ErrNotFound)

			require.NoError(t, store.Set(ctx, "client:a", "cart", "one"))
			require.NoError(t, store.Set(ctx, "client:a", "cart", "two"))
			require.NoError(t, store.Set(ctx, "client:a", "user", "u"))
			require.NoError(t, store.Set(ctx, "client:b", "cart", "other"))

			val, err := store.Get(ctx, "client:a", "cart")
			require.NoError(t, err)
			assert.Equal(t, "two", val)

			require.NoError(t, store.Delete(ctx, "client:a", "cart", "missing"))
			_, err = store.Get(ctx, "client:a", "cart")
			assert.ErrorIs(t, err, repositories.ErrNotFound)

			require.NoError(t, store.Clear(ctx, "client:a"))
			_, err = store.Get(ctx, "client:a", "user")
			assert.ErrorIs(t, err, repositories.ErrNotFound)

			val, err = store.Get(ctx, "client:b", "cart")
			require.NoError(t, err)
			assert.Equal(t, "other", val, "other namespaces are untouched")
		})
	}
}

func TestRedisStorageRepository_Expiry(t *testing.T) {
	store, mr := newRedisStore(t, 30*time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "tab:1", "cart", "x"))
	assert.Equal(t, 30*time.Minute, mr.TTL("kitchen:tab:tab:1"))

	mr.FastForward(31 * time.Minute)
	_, err := store.Get(ctx, "tab:1", "cart")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestScope_Envelope(t *testing.T) {
	ctx := context.Background()
	store := repositories.NewMockStorageRepository()
	scope := repositories.NewScope(store, "client:a")

	type record struct {
		Code string `json:"code"`
	}

	require.NoError(t, scope.Save(ctx, "appliedPromo", record{Code: "WELCOME10"}))
	raw, err := store.Get(ctx, "client:a", "appliedPromo")
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":1,"data":{"code":"WELCOME10"}}`, raw)

	var got record
	ok, err := scope.Load(ctx, "appliedPromo", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "WELCOME10", got.Code)

	cases := map[string]string{
		"corrupt json":  `{"version":1,"data":`,
		"wrong version": `{"version":99,"data":{"code":"X"}}`,
		"bare value":    `{"code":"X"}`,
		"wrong shape":   `{"version":1,"data":[1,2,3]}`,
	}
	for name, stored := range cases {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Set(ctx, "client:a", "appliedPromo", stored))
			var r record
			ok, err := scope.Load(ctx, "appliedPromo", &r)
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}

	ok, err = scope.Load(ctx, "missing", &got)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, scope.SaveOrRemove(ctx, "appliedPromo", nil, false))
	_, err = store.Get(ctx, "client:a", "appliedPromo")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}
