// Package cache is the Redis read-through cache over the feed queries and
// the per-user rate limiter. Backend failures never reach the caller: reads
// fall back to the store and the limiter lets requests through.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"market/internal/models"
)

const (
	categoriesKeyPrefix = "categories_page:"
	allListingsKey      = "all_ads_data"

	scanBatch = 100
)

// Source is the store side of the cache: the queries whose results get cached
type Source interface {
	ListCategories(ctx context.Context, offset, limit int) ([]models.Category, error)
	ListPublishedListingIDs(ctx context.Context) ([]int64, error)
	ListingFields(ctx context.Context, ids []int64) (map[int64]models.ListingFields, error)
	ListingPhotos(ctx context.Context, ids []int64) (map[int64][]string, error)
}

// Options holds cache lifetimes
type Options struct {
	CategoriesTTL time.Duration
	ListingsTTL   time.Duration
}

// DefaultOptions keeps categories longer than listings, which change more often
func DefaultOptions() Options {
	return Options{
		CategoriesTTL: time.Hour,
		ListingsTTL:   10 * time.Minute,
	}
}

// Cache serves categories and listings from Redis, computing them from the
// source on a miss
type Cache struct {
	rdb    redis.UniversalClient
	src    Source
	opts   Options
	logger *zap.Logger
}

// New creates a cache over an existing Redis client
func New(rdb redis.UniversalClient, src Source, opts Options, logger *zap.Logger) *Cache {
	defaults := DefaultOptions()
	if opts.CategoriesTTL <= 0 {
		opts.CategoriesTTL = defaults.CategoriesTTL
	}
	if opts.ListingsTTL <= 0 {
		opts.ListingsTTL = defaults.ListingsTTL
	}
	return &Cache{rdb: rdb, src: src, opts: opts, logger: logger}
}

// Connect creates a Redis client from URL (e.g. redis://:pass@host:6379/0).
// Only a malformed URL is an error: an unreachable server is logged and the
// client is returned anyway, since it reconnects on demand and every cache
// path degrades to the store meanwhile.
func Connect(ctx context.Context, redisURL string, logger *zap.Logger) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse REDIS_URL: %w", err)
	}

	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warn("Redis is unreachable, serving from the store until it is back",
			zap.Error(err), zap.String("addr", opt.Addr))
	}
	return rdb, nil
}

// CategoryKey returns the cache key of one categories page
func CategoryKey(page, limit int) string {
	return fmt.Sprintf("%s%d:%d", categoriesKeyPrefix, page, limit)
}

// cached returns the value stored under key or computes it. Values for which
// empty reports true are returned but never stored.
func cached[T any](ctx context.Context, c *Cache, key string, ttl time.Duration,
	compute func(ctx context.Context) (T, error), empty func(T) bool) (T, error) {

	result := "miss"
	raw, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var v T
		decErr := json.Unmarshal(raw, &v)
		if decErr == nil {
			lookups.WithLabelValues(keyKind(key), "hit").Inc()
			return v, nil
		}
		c.logger.Warn("Dropping undecodable cache entry", zap.String("key", key), zap.Error(decErr))
	case errors.Is(err, redis.Nil):
	default:
		result = "error"
		c.logger.Warn("Cache read failed, computing from store", zap.String("key", key), zap.Error(err))
	}
	lookups.WithLabelValues(keyKind(key), result).Inc()

	v, err := compute(ctx)
	if err != nil {
		return v, err
	}
	if empty(v) {
		return v, nil
	}

	payload, err := json.Marshal(v)
	if err != nil {
		c.logger.Warn("Failed to encode cache entry", zap.String("key", key), zap.Error(err))
		return v, nil
	}
	if err := c.rdb.Set(ctx, key, payload, ttl).Err(); err != nil {
		c.logger.Warn("Cache write failed", zap.String("key", key), zap.Error(err))
	}
	return v, nil
}

func keyKind(key string) string {
	if key == allListingsKey {
		return "listings"
	}
	return "categories"
}

// CategoryPage returns one page (1-based) of categories
func (c *Cache) CategoryPage(ctx context.Context, page, limit int) ([]models.Category, error) {
	if page < 1 {
		page = 1
	}
	return cached(ctx, c, CategoryKey(page, limit), c.opts.CategoriesTTL,
		func(ctx context.Context) ([]models.Category, error) {
			categories, err := c.src.ListCategories(ctx, (page-1)*limit, limit)
			if err != nil {
				return nil, fmt.Errorf("list categories: %w", err)
			}
			return categories, nil
		},
		func(categories []models.Category) bool { return len(categories) == 0 },
	)
}

// AllListings returns every published listing with fields and photos
func (c *Cache) AllListings(ctx context.Context) (models.ListingsData, error) {
	payload, err := cached(ctx, c, allListingsKey, c.opts.ListingsTTL, c.computeListings,
		func(p listingsPayload) bool { return p.Empty() },
	)
	if err != nil {
		return models.ListingsData{}, err
	}
	return payload.ListingsData, nil
}

func (c *Cache) computeListings(ctx context.Context) (listingsPayload, error) {
	ids, err := c.src.ListPublishedListingIDs(ctx)
	if err != nil {
		return listingsPayload{}, fmt.Errorf("list published listings: %w", err)
	}
	if len(ids) == 0 {
		return listingsPayload{}, nil
	}

	fields, err := c.src.ListingFields(ctx, ids)
	if err != nil {
		return listingsPayload{}, fmt.Errorf("load listing fields: %w", err)
	}
	photos, err := c.src.ListingPhotos(ctx, ids)
	if err != nil {
		return listingsPayload{}, fmt.Errorf("load listing photos: %w", err)
	}

	return listingsPayload{models.ListingsData{OrderedIDs: ids, Listings: fields, Photos: photos}}, nil
}

// InvalidateListings drops the cached listings
func (c *Cache) InvalidateListings(ctx context.Context) {
	if err := c.rdb.Del(ctx, allListingsKey).Err(); err != nil {
		c.logger.Warn("Failed to invalidate listings cache", zap.Error(err))
	}
}

// InvalidateCategories drops every cached categories page
func (c *Cache) InvalidateCategories(ctx context.Context) {
	var cursor uint64
	for {
		keys, next, err := c.rdb.Scan(ctx, cursor, categoriesKeyPrefix+"*", scanBatch).Result()
		if err != nil {
			c.logger.Warn("Failed to scan categories cache", zap.Error(err))
			return
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				c.logger.Warn("Failed to invalidate categories cache", zap.Error(err), zap.Int("keys", len(keys)))
			}
		}
		if next == 0 {
			return
		}
		cursor = next
	}
}

// InvalidateOnNewListing must follow every write that changes which listings are visible
func (c *Cache) InvalidateOnNewListing(ctx context.Context) {
	c.InvalidateListings(ctx)
	c.InvalidateCategories(ctx)
}
