package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/notlelouch/go-interview-practice/degen-scanner/internal/models"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const redisKeyPrefix = "degenscan:scan:"

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// RedisCache shares results between server instances. Redis expires keys itself,
// so Sweep has nothing to do.
type RedisCache struct {
	client redis.UniversalClient
	ttl    time.Duration
	log    *zap.SugaredLogger
}

func NewRedisCache(cfg RedisConfig, log *zap.SugaredLogger) *RedisCache {
	client := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:                 []string{cfg.Addr},
		Password:              cfg.Password,
		DB:                    cfg.DB,
		DialTimeout:           3 * time.Second,
		ReadTimeout:           2 * time.Second,
		WriteTimeout:          2 * time.Second,
		ContextTimeoutEnabled: true,
	})
	return NewRedisCacheWithClient(client, cfg.TTL, log)
}

func NewRedisCacheWithClient(client redis.UniversalClient, ttl time.Duration, log *zap.SugaredLogger) *RedisCache {
	return &RedisCache{client: client, ttl: ttl, log: log}
}

func (c *RedisCache) Get(ctx context.Context, address string) (*models.AnalysisResult, bool) {
	data, err := c.client.Get(ctx, redisKey(address)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warnw("redis cache get failed", "address", address, "error", err)
		}
		return nil, false
	}

	var result models.AnalysisResult
	if err := json.Unmarshal(data, &result); err != nil {
		c.log.Warnw("redis cache entry corrupt", "address", address, "error", err)
		return nil, false
	}
	return &result, true
}

func (c *RedisCache) Set(ctx context.Context, address string, result *models.AnalysisResult) {
	data, err := json.Marshal(result)
	if err != nil {
		c.log.Warnw("redis cache encode failed", "address", address, "error", err)
		return
	}
	if err := c.client.Set(ctx, redisKey(address), data, c.ttl).Err(); err != nil {
		c.log.Warnw("redis cache set failed", "address", address, "error", err)
	}
}

func (c *RedisCache) Sweep() int {
	return 0
}

func (c *RedisCache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

func redisKey(address string) string {
	return redisKeyPrefix + address
}
