package services

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/clinicore/medical-automation-api/internal/core/domain"
	"github.com/clinicore/medical-automation-api/internal/core/ports/out"
)

// CacheKey собирает полный ключ вида {namespace}:{key}
func CacheKey(namespace string, key string) string {
	return namespace + ":" + key
}

// ComputeFunc вычисляет значение при промахе кэша
type ComputeFunc func(ctx context.Context) ([]byte, error)

// CacheManager реализует cache-aside поверх CachePort.
// Ошибки бэкенда никогда не доходят до вызывающего кода:
// любая из них трактуется как промах, менеджер переходит
// в режим pass-through до успешной фоновой проверки.
// backend == nil означает полностью выключенный кэш
type CacheManager struct {
	backend out.CachePort
	metrics out.MetricsPort
	logger  out.LoggerPort

	probeInterval time.Duration

	healthy   atomic.Bool
	hits      atomic.Uint64
	misses    atomic.Uint64
	sets      atomic.Uint64
	cacheErrs atomic.Uint64

	cancelProbe context.CancelFunc
	wg          sync.WaitGroup
}

func NewCacheManager(
	backend out.CachePort,
	metrics out.MetricsPort,
	logger out.LoggerPort,
	probeInterval time.Duration,
) *CacheManager {
	cm := &CacheManager{
		backend:       backend,
		metrics:       metrics,
		logger:        logger.WithModule("cache_manager"),
		probeInterval: probeInterval,
	}

	// До первой проверки считаем живой бэкенд доступным,
	// отсутствующий - нет
	cm.healthy.Store(backend != nil)
	cm.metrics.SetCacheHealthy(backend != nil)

	return cm
}

// Start запускает фоновую проверку доступности бэкенда.
// Первая проверка выполняется сразу, дальше по интервалу
func (cm *CacheManager) Start(ctx context.Context) {
	if cm.backend == nil {
		cm.logger.Info("cache.disabled", out.LogFields{})
		return
	}

	probeCtx, cancel := context.WithCancel(ctx)
	cm.cancelProbe = cancel

	cm.probe(probeCtx)

	cm.wg.Add(1)
	go func() {
		defer cm.wg.Done()

		ticker := time.NewTicker(cm.probeInterval)
		defer ticker.Stop()

		for {
			select {
			case <-probeCtx.Done():
				return
			case <-ticker.C:
				cm.probe(probeCtx)
			}
		}
	}()

	cm.logger.Info("cache.probe.started", out.LogFields{
		"interval": cm.probeInterval.String(),
	})
}

// Close останавливает проверку и закрывает соединение с бэкендом
func (cm *CacheManager) Close() {
	if cm.cancelProbe != nil {
		cm.cancelProbe()
	}
	cm.wg.Wait()

	if cm.backend != nil {
		if err := cm.backend.Close(); err != nil {
			cm.logger.Warn("cache.close.failed", out.LogFields{
				"error": err.Error(),
			})
		}
	}
}

// ReadThrough возвращает значение по ключу {namespace}:{key}.
// Попадание отдаёт кэшированные байты, промах вызывает compute и
// по возможности сохраняет результат с указанным TTL. Недоступный
// бэкенд не трогается вовсе, запрос идёт напрямую в compute
func (cm *CacheManager) ReadThrough(
	ctx context.Context,
	namespace string,
	key string,
	ttl time.Duration,
	compute ComputeFunc,
) ([]byte, error) {
	cacheKey := CacheKey(namespace, key)

	if cm.backend == nil || !cm.healthy.Load() {
		cm.misses.Add(1)
		cm.metrics.IncCacheMiss()
		return compute(ctx)
	}

	cached, err := cm.backend.Get(ctx, cacheKey)
	if err != nil {
		cm.markUnhealthy("cache.get.failed", cacheKey, err)
		cm.misses.Add(1)
		cm.metrics.IncCacheMiss()
		return compute(ctx)
	}
	if cached != nil {
		cm.hits.Add(1)
		cm.metrics.IncCacheHit()
		cm.logger.Debug("cache.hit", out.LogFields{"key": cacheKey})
		return cached, nil
	}

	cm.misses.Add(1)
	cm.metrics.IncCacheMiss()
	cm.logger.Debug("cache.miss", out.LogFields{"key": cacheKey})

	value, err := compute(ctx)
	if err != nil {
		return nil, err
	}

	if err := cm.backend.Set(ctx, cacheKey, value, ttl); err != nil {
		cm.markUnhealthy("cache.set.failed", cacheKey, err)
	} else {
		cm.sets.Add(1)
		cm.metrics.IncCacheSet()
	}

	return value, nil
}

// Invalidate удаляет один ключ. Отсутствие ключа не ошибка,
// наружу ошибки не отдаются
func (cm *CacheManager) Invalidate(ctx context.Context, namespace string, key string) {
	if cm.backend == nil || !cm.healthy.Load() {
		return
	}

	cacheKey := CacheKey(namespace, key)
	if err := cm.backend.Delete(ctx, cacheKey); err != nil {
		cm.markUnhealthy("cache.invalidate.failed", cacheKey, err)
		return
	}

	cm.logger.Debug("cache.invalidate", out.LogFields{"key": cacheKey})
}

// InvalidateNamespace удаляет все ключи пространства имён
func (cm *CacheManager) InvalidateNamespace(ctx context.Context, namespace string) {
	if cm.backend == nil || !cm.healthy.Load() {
		return
	}

	prefix := namespace + ":"
	if err := cm.backend.DeleteByPrefix(ctx, prefix); err != nil {
		cm.markUnhealthy("cache.invalidate_namespace.failed", prefix, err)
		return
	}

	cm.logger.Debug("cache.invalidate_namespace", out.LogFields{
		"namespace": namespace,
	})
}

// IsHealthy возвращает результат последней проверки, без I/O
func (cm *CacheManager) IsHealthy() bool {
	return cm.healthy.Load()
}

// Stats возвращает накопленные счётчики и флаг доступности
func (cm *CacheManager) Stats() domain.CacheStats {
	return domain.CacheStats{
		Hits:    cm.hits.Load(),
		Misses:  cm.misses.Load(),
		Sets:    cm.sets.Load(),
		Errors:  cm.cacheErrs.Load(),
		Healthy: cm.healthy.Load(),
	}
}

func (cm *CacheManager) probe(ctx context.Context) {
	probeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := cm.backend.Ping(probeCtx); err != nil {
		cm.cacheErrs.Add(1)
		cm.metrics.IncCacheError()
		if cm.healthy.Swap(false) {
			cm.logger.Warn("cache.probe.unhealthy", out.LogFields{
				"error": err.Error(),
			})
		}
		cm.metrics.SetCacheHealthy(false)
		return
	}

	if !cm.healthy.Swap(true) {
		cm.logger.Info("cache.probe.recovered", out.LogFields{})
	}
	cm.metrics.SetCacheHealthy(true)
}

// markUnhealthy фиксирует ошибку операции и переводит менеджер
// в pass-through. Обратно флаг поднимает только успешная проверка
func (cm *CacheManager) markUnhealthy(event string, key string, err error) {
	cm.cacheErrs.Add(1)
	cm.metrics.IncCacheError()
	cm.healthy.Store(false)
	cm.metrics.SetCacheHealthy(false)

	cm.logger.Warn(event, out.LogFields{
		"key":   key,
		"error": err.Error(),
	})
}

// ReadThroughAs оборачивает ReadThrough JSON-сериализацией для
// типизированных значений. Повреждённая запись инвалидируется,
// значение пересчитывается напрямую
func ReadThroughAs[T any](
	ctx context.Context,
	cm *CacheManager,
	namespace string,
	key string,
	ttl time.Duration,
	compute func(ctx context.Context) (T, error),
) (T, error) {
	var zero T

	raw, err := cm.ReadThrough(ctx, namespace, key, ttl, func(ctx context.Context) ([]byte, error) {
		value, err := compute(ctx)
		if err != nil {
			return nil, err
		}
		return json.Marshal(value)
	})
	if err != nil {
		return zero, err
	}

	var value T
	if err := json.Unmarshal(raw, &value); err != nil {
		cm.logger.Warn("cache.entry.corrupt", out.LogFields{
			"key":   CacheKey(namespace, key),
			"error": err.Error(),
		})
		cm.Invalidate(ctx, namespace, key)
		return compute(ctx)
	}

	return value, nil
}
