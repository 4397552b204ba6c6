package out

import (
	"context"
	"time"
)

// CachePort - контракт бэкенда кэша: TTL key-value хранилище без бизнес-семантики.
// Все операции ограничены таймаутом и возвращают транспортные ошибки как есть,
// их поглощение - ответственность менеджера кэша
type CachePort interface {
	// Get возвращает (nil, nil), если ключа нет
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	// DeleteByPrefix удаляет все ключи с данным префиксом
	DeleteByPrefix(ctx context.Context, prefix string) error
	Ping(ctx context.Context) error
	Close() error
}
