package realtime

import (
	"github.com/redis/go-redis/v9"

	"github.com/reviewboost/reviewboost_be/internal/logger"
)

// NewRedis creates a Redis client for the event relay and token denylist.
func NewRedis(addr, password string) *redis.Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
	logger.Info("redis client created", "addr", addr)
	return rdb
}
