package redis

import (
	"context"

	"github.com/UMEZAWADAN/SD-5/common/config"

	"github.com/go-redis/redis/v8"
)

// Client Redis 客户端类型别名
type Client = redis.Client

// NewRedisClient 创建 Redis 客户端（不主动连接）
func NewRedisClient(cfg *config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// Ping 测试 Redis 连接
func Ping(ctx context.Context, client *redis.Client) error {
	return client.Ping(ctx).Err()
}
