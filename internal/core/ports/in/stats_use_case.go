package in

import (
	"context"

	"github.com/clinicore/medical-automation-api/internal/core/domain"
)

type StatsUseCase interface {
	GetCacheStats(ctx context.Context) domain.CacheStats
	CheckReadiness(ctx context.Context) error
}
