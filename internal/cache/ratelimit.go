package cache

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

func rateKey(subjectID int64, action string) string {
	return fmt.Sprintf("rl:%s:%d", action, subjectID)
}

func lockKey(subjectID int64, action string) string {
	return rateKey(subjectID, action) + ":lock"
}

// CheckRateLimit counts calls of action by subject in a fixed window. Once
// more than limit calls land in one window the subject is locked out for
// window and every call is denied with the remaining lock time.
// Redis errors let the call through.
func (c *Cache) CheckRateLimit(ctx context.Context, subjectID int64, action string, limit int, window time.Duration) (bool, time.Duration) {
	lock := lockKey(subjectID, action)

	remaining, err := c.rdb.TTL(ctx, lock).Result()
	if err != nil {
		c.failOpen(err, subjectID, action)
		return true, 0
	}
	if remaining > 0 {
		rateLimited.WithLabelValues(action).Inc()
		return false, remaining
	}

	counter := rateKey(subjectID, action)
	count, err := c.rdb.Incr(ctx, counter).Result()
	if err != nil {
		c.failOpen(err, subjectID, action)
		return true, 0
	}
	if count == 1 {
		if err := c.rdb.Expire(ctx, counter, window).Err(); err != nil {
			c.failOpen(err, subjectID, action)
			return true, 0
		}
	}
	if count <= int64(limit) {
		return true, 0
	}

	pipe := c.rdb.TxPipeline()
	pipe.Set(ctx, lock, 1, window)
	pipe.Del(ctx, counter)
	if _, err := pipe.Exec(ctx); err != nil {
		c.failOpen(err, subjectID, action)
		return true, 0
	}

	rateLimited.WithLabelValues(action).Inc()
	c.logger.Info("Rate limit exceeded",
		zap.Int64("subject_id", subjectID),
		zap.String("action", action),
		zap.Duration("lock", window),
	)
	return false, window
}

func (c *Cache) failOpen(err error, subjectID int64, action string) {
	c.logger.Warn("Rate limiter unavailable, allowing request",
		zap.Error(err),
		zap.Int64("subject_id", subjectID),
		zap.String("action", action),
	)
}
