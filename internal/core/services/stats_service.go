package services

import (
	"context"

	"github.com/clinicore/medical-automation-api/internal/core/domain"
	"github.com/clinicore/medical-automation-api/internal/core/ports/out"
)

// StatsService отдает счётчики кэша и проверяет готовность хранилища.
// Только чтение, состояние кэша и хранилища не меняется
type StatsService struct {
	cache     *CacheManager
	storePort out.StorePort
	logger    out.LoggerPort
}

func NewStatsService(cache *CacheManager, storePort out.StorePort, logger out.LoggerPort) *StatsService {
	return &StatsService{
		cache:     cache,
		storePort: storePort,
		logger:    logger.WithModule("stats_service"),
	}
}

func (s *StatsService) GetCacheStats(ctx context.Context) domain.CacheStats {
	return s.cache.Stats()
}

func (s *StatsService) CheckReadiness(ctx context.Context) error {
	if err := s.storePort.Ping(ctx); err != nil {
		s.logger.Error("readiness.store.failed", out.LogFields{
			"error": err.Error(),
		})
		return err
	}

	return nil
}
