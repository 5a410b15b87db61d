package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"
	"waitfaster_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// CacheService provides Redis caching functionality with connection pooling and retry logic
type CacheService struct {
	logger *gecho.Logger
	config *structs.Config
	client *redis.Client
}

func NewCacheService(logger *gecho.Logger, cfg *structs.Config, client *redis.Client) *CacheService {
	return &CacheService{
		logger: logger,
		config: cfg,
		client: client,
	}
}

// NewRedisClient builds a pooled client from the cache configuration
func NewRedisClient(cfg *structs.CacheConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.DB,

		// Connection pool settings
		PoolSize:        cfg.PoolSize,
		MinIdleConns:    cfg.MinIdleConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		PoolTimeout:     cfg.PoolTimeout,
		ConnMaxIdleTime: cfg.IdleTimeout,

		// Timeouts
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,

		// Retry settings
		MaxRetries:      cfg.MaxRetries,
		MinRetryBackoff: cfg.MinRetryBackoff,
		MaxRetryBackoff: cfg.MaxRetryBackoff,
	})
}

// Close closes the Redis connection pool
func (cs *CacheService) Close() error {
	return cs.client.Close()
}

// withRetry executes a Redis operation with exponential backoff retry logic
func (cs *CacheService) withRetry(operation func() error, maxRetries int) error {
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		err := operation()
		if err == nil {
			return nil
		}

		lastErr = err

		// Don't retry on the last attempt
		if attempt == maxRetries {
			break
		}

		// Only retry on network/connection errors, not on logical errors like key not found
		if !isRetryableRedisError(err) {
			return err
		}

		backoff := min(100*(1<<attempt), 2000) // ms

		// add jitter, falling back to none if random fails
		jitterBytes := make([]byte, 4)
		if _, err := rand.Read(jitterBytes); err != nil {
			time.Sleep(time.Duration(backoff) * time.Millisecond)
			continue
		}
		jitter := int(uint32(jitterBytes[0])<<24|uint32(jitterBytes[1])<<16|uint32(jitterBytes[2])<<8|uint32(jitterBytes[3])) % (backoff/2 + 1)

		time.Sleep(time.Duration(backoff/2+jitter) * time.Millisecond)
	}

	return fmt.Errorf("redis operation failed after %d retries: %w", maxRetries, lastErr)
}

// isRetryableRedisError determines if an error is worth retrying
func isRetryableRedisError(err error) bool {
	if err == nil || errors.Is(err, redis.Nil) {
		return false
	}

	errStr := err.Error()
	for _, retryableErr := range []string{
		"connection refused",
		"connection reset",
		"timeout",
		"broken pipe",
		"no such host",
		"network is unreachable",
	} {
		if strings.Contains(errStr, retryableErr) {
			return true
		}
	}

	return false
}

// Delete removes keys with automatic retry logic
func (cs *CacheService) Delete(ctx context.Context, keys ...string) error {
	return cs.withRetry(func() error {
		return cs.client.Del(ctx, keys...).Err()
	}, 3)
}

// IncrementRateLimit atomically increments a rate limit counter
func (cs *CacheService) IncrementRateLimit(ctx context.Context, subject, bucket string, ttl time.Duration) (int, error) {
	key := fmt.Sprintf("ratelimit:%s:%s", bucket, subject)

	var result int64
	err := cs.withRetry(func() error {
		val, err := cs.client.Incr(ctx, key).Result()
		if err != nil {
			return err
		}
		result = val

		// Set expiration only on first increment
		if val == 1 {
			return cs.client.Expire(ctx, key, ttl).Err()
		}

		return nil
	}, 3)

	return int(result), err
}

// Ping tests the Redis connection
func (cs *CacheService) Ping(ctx context.Context) error {
	return cs.withRetry(func() error {
		return cs.client.Ping(ctx).Err()
	}, 1)
}

// GetConnectionStats returns Redis connection pool statistics
func (cs *CacheService) GetConnectionStats() map[string]any {
	stats := cs.client.PoolStats()

	return map[string]any{
		"hits":        stats.Hits,
		"misses":      stats.Misses,
		"timeouts":    stats.Timeouts,
		"total_conns": stats.TotalConns,
		"idle_conns":  stats.IdleConns,
		"stale_conns": stats.StaleConns,
	}
}

func menuItemNameKey(id uuid.UUID) string {
	return "menu_item:name:" + id.String()
}

// GetMenuItemNames returns the cached names among ids. Misses are absent
// from the map.
func (cs *CacheService) GetMenuItemNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	names := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = menuItemNameKey(id)
	}

	var values []any
	err := cs.withRetry(func() error {
		var err error
		values, err = cs.client.MGet(ctx, keys...).Result()
		return err
	}, 3)
	if err != nil {
		return nil, err
	}

	for i, v := range values {
		if s, ok := v.(string); ok {
			names[ids[i]] = s
		}
	}
	return names, nil
}

// SetMenuItemNames caches display names with the configured TTL
func (cs *CacheService) SetMenuItemNames(ctx context.Context, names map[uuid.UUID]string) error {
	if len(names) == 0 {
		return nil
	}

	ttl := cs.getMenuItemTTL()
	return cs.withRetry(func() error {
		_, err := cs.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
			for id, name := range names {
				pipe.Set(ctx, menuItemNameKey(id), name, ttl)
			}
			return nil
		})
		return err
	}, 3)
}

// ClearMenuItemNames drops every cached menu item name and reports how
// many keys were removed.
func (cs *CacheService) ClearMenuItemNames(ctx context.Context) (int, error) {
	var keys []string
	iter := cs.client.Scan(ctx, 0, "menu_item:name:*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return 0, err
	}
	if len(keys) == 0 {
		return 0, nil
	}

	if err := cs.Delete(ctx, keys...); err != nil {
		return 0, err
	}
	cs.logger.Info("Cleared menu item name cache", gecho.Field("keys", len(keys)))
	return len(keys), nil
}

// getMenuItemTTL returns the TTL for menu item names from config
func (cs *CacheService) getMenuItemTTL() time.Duration {
	if cs.config != nil && cs.config.Cache != nil && cs.config.Cache.MenuItemTTL > 0 {
		return cs.config.Cache.MenuItemTTL
	}
	return 10 * time.Minute // fallback default
}
