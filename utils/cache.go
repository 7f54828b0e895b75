// File: utils/cache.go
package utils

import (
	"clinicsite/config"
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// CacheClient is the generic cache client.
var CacheClient *redis.Client

// InitCache initializes the Redis client used for the time table cache. An
// empty REDIS_ADDR or an unreachable server leaves the cache disabled.
func InitCache() {
	if config.AppConfig.RedisAddr == "" {
		GetLogger().Info("Redis disabled; time table cache off")
		return
	}
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisCacheDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		GetLogger().Warn("Failed to connect to Redis (Cache); time table cache off", zap.Error(err))
		_ = client.Close()
		return
	}
	CacheClient = client
}

// GetCacheClient returns the generic cache client, or nil when caching is off.
func GetCacheClient() *redis.Client {
	return CacheClient
}
