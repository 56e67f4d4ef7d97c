package cache

import (
	"context"
	"time"

	"lently/infrastructure/logger"

	"github.com/redis/go-redis/v9"
)

// NewCache connects a Redis client. The returned client may be nil when Redis
// is unreachable; callers degrade gracefully.
func NewCache(ctx context.Context, addr, username, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Username: username,
		Password: password,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.GetLogger().WithField("error", err).Warn("Redis not available")
		return nil, err
	}
	return client, nil
}
