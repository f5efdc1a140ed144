package app

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"market/internal/cache"
	"market/internal/config"
	"market/internal/storage/stubs"
)

func TestInitCache_RedisDown(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	a := &App{
		config: &config.Config{Redis: config.RedisConfig{URL: "redis://" + addr + "/0"}},
		logger: zap.NewNop(),
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	require.NoError(t, a.initCache(ctx), "an unreachable Redis must not stop startup")
	require.NotNil(t, a.redis)
	t.Cleanup(func() { _ = a.redis.Close() })

	db := stubs.NewMockDB()
	require.NoError(t, db.Initialize(ctx))
	c := cache.New(a.redis, db, cache.DefaultOptions(), zap.NewNop())

	categories, err := c.CategoryPage(ctx, 1, 10)
	require.NoError(t, err)
	assert.NotEmpty(t, categories, "categories come from the store")

	allowed, retry := c.CheckRateLimit(ctx, 1, "search_cmd", 3, 3*time.Second)
	assert.True(t, allowed)
	assert.Zero(t, retry)
}

func TestInitCache_BadURL(t *testing.T) {
	a := &App{
		config: &config.Config{Redis: config.RedisConfig{URL: "not a url"}},
		logger: zap.NewNop(),
	}
	assert.Error(t, a.initCache(context.Background()))
}
