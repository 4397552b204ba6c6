package in

import "context"

// CacheInvalidationUseCase - входной порт для внешних событий инвалидации,
// например сообщений из RabbitMQ от других сервисов клиники
type CacheInvalidationUseCase interface {
	Invalidate(ctx context.Context, namespace string, key string)
	InvalidateNamespace(ctx context.Context, namespace string)
	IsHealthy() bool
}
