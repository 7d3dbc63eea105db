package db

import (
	"context"

	"CompanyAPI/internal/logger"

	"github.com/redis/go-redis/v9"
)

var RDB *redis.Client

// InitRedis connects the company cache. An empty address leaves caching off.
func InitRedis(addr string) {
	if addr == "" {
		logger.Warn("redis_disabled", nil)
		return
	}
	RDB = redis.NewClient(&redis.Options{
		Addr: addr,
	})
}

func PingRedis(ctx context.Context) error {
	if RDB == nil {
		return nil
	}
	return RDB.Ping(ctx).Err()
}

func CloseRedis() {
	if RDB != nil {
		_ = RDB.Close()
		RDB = nil
	}
}
