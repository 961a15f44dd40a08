// internal/app/system/ratelimit/redis.go
package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisCooldown is the shared-state variant of Cooldown for multi-instance
// deployments: the window lives in Redis (SET NX with expiry), so every
// instance sees the same cooldowns.
//
// On a Redis error it fails open and allows the action; a broken limiter
// backend must not block membership operations.
type RedisCooldown struct {
	client *redis.Client
	log    *zap.Logger
}

// NewRedisCooldown wraps an existing Redis client.
func NewRedisCooldown(client *redis.Client, logger *zap.Logger) *RedisCooldown {
	return &RedisCooldown{client: client, log: logger}
}

const redisKeyPrefix = "grouphub:cooldown:"

func (c *RedisCooldown) CheckAndRecord(key string, window time.Duration) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	ok, err := c.client.SetNX(ctx, redisKeyPrefix+key, 1, window).Result()
	if err != nil {
		c.log.Warn("redis cooldown check failed, allowing action",
			zap.Error(err), zap.String("key", key))
		return true
	}
	return ok
}

// Reset clears the cooldown for a key.
func (c *RedisCooldown) Reset(key string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := c.client.Del(ctx, redisKeyPrefix+key).Err(); err != nil {
		c.log.Warn("redis cooldown reset failed", zap.Error(err), zap.String("key", key))
	}
}
