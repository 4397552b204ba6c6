package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/clinicore/medical-automation-api/internal/config"
	"github.com/clinicore/medical-automation-api/internal/core/ports/out"
)

// deleteBatchSize - размер пачки ключей для SCAN+DEL
const deleteBatchSize = 100

type RedisCacheAdapter struct {
	client *redis.Client
	logger out.LoggerPort
}

// NewRedisCacheAdapter не проверяет соединение при старте: клиент
// подключается лениво, доступность отслеживает фоновая проверка
// менеджера кэша
func NewRedisCacheAdapter(cfg *config.Config, logger out.LoggerPort) *RedisCacheAdapter {
	opTimeout := cfg.CacheOpTimeout()

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr(),
		Password:     cfg.Cache.Redis.Password,
		DB:           cfg.Cache.Redis.DB,
		PoolSize:     cfg.Cache.Redis.PoolSize,
		DialTimeout:  opTimeout,
		ReadTimeout:  opTimeout,
		WriteTimeout: opTimeout,
	})

	return &RedisCacheAdapter{
		client: client,
		logger: logger.WithModule("redis_cache"),
	}
}

func (c *RedisCacheAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		// Отсутствие ключа не ошибка
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	return value, nil
}

func (c *RedisCacheAdapter) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

func (c *RedisCacheAdapter) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

// DeleteByPrefix удаляет ключи пачками через SCAN, без KEYS
func (c *RedisCacheAdapter) DeleteByPrefix(ctx context.Context, prefix string) error {
	iter := c.client.Scan(ctx, 0, prefix+"*", deleteBatchSize).Iterator()

	batch := make([]string, 0, deleteBatchSize)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())

		if len(batch) == deleteBatchSize {
			if err := c.client.Del(ctx, batch...).Err(); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}

	if len(batch) > 0 {
		if err := c.client.Del(ctx, batch...).Err(); err != nil {
			return err
		}
	}

	return nil
}

func (c *RedisCacheAdapter) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCacheAdapter) Close() error {
	return c.client.Close()
}
