package database

import (
	"context"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/KILATIV100/perks-ua-bot-sub000/config"
	"github.com/KILATIV100/perks-ua-bot-sub000/logger"
)

// Redis is the shared client behind the coordination store. It is nil when
// no address is configured; callers fall back to in-process coordination,
// which is only safe for a single instance.
var Redis *redis.Client

func ConnectRedis(cfg config.RedisConfig) *redis.Client {
	if cfg.Addr == "" {
		logger.Warn("redis not configured; coordination falls back to in-process store")
		return nil
	}

	rc := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rc.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping failed, falling back to in-process store: ", err)
		return nil
	}

	Redis = rc
	return Redis
}
