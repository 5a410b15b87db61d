package services_test

import (
	"context"
	"testing"
	"time"
	"waitfaster_server/lib"
	"waitfaster_server/services"
	"waitfaster_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogService_Names(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	soup := f.menuItem(t, "Soup")
	bread := f.menuItem(t, "Bread")
	unknown := uuid.New()

	names, err := f.catalog.Names(ctx, []uuid.UUID{soup.Id, bread.Id, soup.Id, unknown})
	require.NoError(t, err)
	assert.Equal(t, map[uuid.UUID]string{soup.Id: "Soup", bread.Id: "Bread"}, names)

	_, err = f.catalog.RequireNames(ctx, []uuid.UUID{soup.Id, unknown})
	assert.ErrorIs(t, err, lib.ErrNotFound)

	empty, err := f.catalog.Names(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestCatalogService_UsesCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	logger := gecho.NewDefaultLogger()
	cfg := &structs.Config{Cache: &structs.CacheConfig{MenuItemTTL: time.Minute}}
	cache := services.NewCacheService(logger, cfg, client)
	catalog := services.NewCatalogService(logger, f.db, cache)

	soup := f.menuItem(t, "Soup")

	names, err := catalog.Names(ctx, []uuid.UUID{soup.Id})
	require.NoError(t, err)
	assert.Equal(t, "Soup", names[soup.Id])

	cached, err := mr.Get("menu_item:name:" + soup.Id.String())
	require.NoError(t, err)
	assert.Equal(t, "Soup", cached)
	assert.Equal(t, time.Minute, mr.TTL("menu_item:name:"+soup.Id.String()))

	// A cached name wins over the table until it expires
	mr.Set("menu_item:name:"+soup.Id.String(), "Soup of the day")
	names, err = catalog.Names(ctx, []uuid.UUID{soup.Id})
	require.NoError(t, err)
	assert.Equal(t, "Soup of the day", names[soup.Id])

	// A broken cache falls back to the database
	mr.Close()
	names, err = catalog.Names(ctx, []uuid.UUID{soup.Id})
	require.NoError(t, err)
	assert.Equal(t, "Soup", names[soup.Id])
}

func TestCacheService_IncrementRateLimit(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	cache := services.NewCacheService(gecho.NewDefaultLogger(), &structs.Config{}, client)
	ctx := context.Background()

	for want := 1; want <= 3; want++ {
		count, err := cache.IncrementRateLimit(ctx, "10.0.0.1", "general", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, want, count)
	}
	assert.Equal(t, time.Minute, mr.TTL("ratelimit:general:10.0.0.1"))
	assert.NoError(t, cache.Ping(ctx))
}
