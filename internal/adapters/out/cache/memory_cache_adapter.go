package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/clinicore/medical-automation-api/internal/core/ports/out"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

func (e *memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// MemoryCacheAdapter - локальный LRU-бэкенд кэша с TTL.
// Просроченные записи вычищаются лениво при чтении и фоновым
// уборщиком по интервалу
type MemoryCacheAdapter struct {
	cache  *lru.Cache[string, *memoryEntry]
	mu     sync.Mutex
	logger out.LoggerPort

	cancelCleanup context.CancelFunc
	wg            sync.WaitGroup
}

func NewMemoryCacheAdapter(size int, cleanupInterval time.Duration, logger out.LoggerPort) (*MemoryCacheAdapter, error) {
	cache, err := lru.New[string, *memoryEntry](size)
	if err != nil {
		logger.Error("cache.init.failed", out.LogFields{
			"error": err.Error(),
			"size":  size,
		})
		return nil, err
	}

	adapter := &MemoryCacheAdapter{
		cache:  cache,
		logger: logger.WithModule("memory_cache"),
	}

	cleanupCtx, cancel := context.WithCancel(context.Background())
	adapter.cancelCleanup = cancel

	if cleanupInterval > 0 {
		adapter.wg.Add(1)
		go adapter.cleanupLoop(cleanupCtx, cleanupInterval)
	}

	return adapter, nil
}

func (c *MemoryCacheAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, exists := c.cache.Get(key)
	if !exists {
		return nil, nil
	}

	// Ленивая проверка TTL
	if entry.expired(time.Now()) {
		c.cache.Remove(key)
		return nil, nil
	}

	// Отдаем копию, чтобы вызывающий код не менял запись кэша
	value := make([]byte, len(entry.value))
	copy(value, entry.value)

	return value, nil
}

func (c *MemoryCacheAdapter) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	stored := make([]byte, len(value))
	copy(stored, value)

	entry := &memoryEntry{value: stored}
	// ttl <= 0 означает запись без срока жизни
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache.Add(key, entry)

	return nil
}

func (c *MemoryCacheAdapter) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache.Remove(key)

	return nil
}

func (c *MemoryCacheAdapter) DeleteByPrefix(ctx context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, key := range c.cache.Keys() {
		if strings.HasPrefix(key, prefix) {
			c.cache.Remove(key)
		}
	}

	return nil
}

func (c *MemoryCacheAdapter) Ping(ctx context.Context) error {
	return nil
}

func (c *MemoryCacheAdapter) Close() error {
	c.cancelCleanup()
	c.wg.Wait()

	return nil
}

func (c *MemoryCacheAdapter) cleanupLoop(ctx context.Context, interval time.Duration) {
	defer c.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.removeExpired()
		}
	}
}

func (c *MemoryCacheAdapter) removeExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	removed := 0

	for _, key := range c.cache.Keys() {
		// Peek не обновляет порядок вытеснения
		entry, exists := c.cache.Peek(key)
		if exists && entry.expired(now) {
			c.cache.Remove(key)
			removed++
		}
	}

	if removed > 0 {
		c.logger.Debug("cache.cleanup", out.LogFields{
			"removed": removed,
		})
	}
}
