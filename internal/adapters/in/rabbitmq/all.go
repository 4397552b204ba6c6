package rabbitmq

import (
	"context"

	"github.com/clinicore/medical-automation-api/internal/core/domain"
	"github.com/clinicore/medical-automation-api/internal/core/ports/out"
	amqp "github.com/rabbitmq/amqp091-go"
)

func (l *InvalidationListener) processAllMessage(ctx context.Context, msg amqp.Delivery) error {
	routingKey, err := l.parseEventRoutingKey(msg)
	if err != nil {
		return err
	}

	if routingKey.Entity != EventEntityAll {
		return nil
	}

	// Служебное событие без тела: внешняя система сообщила о массовой
	// миграции данных, сбрасываем все пространства разом
	if routingKey.Action == EventActionInvalidate {
		go l.useCase.InvalidateNamespace(ctx, domain.CacheNamespacePatients)
		go l.useCase.InvalidateNamespace(ctx, domain.CacheNamespaceDoctors)
		go l.useCase.InvalidateNamespace(ctx, domain.CacheNamespaceAvailability)
		go l.useCase.InvalidateNamespace(ctx, domain.CacheNamespacePaymentInfo)

		l.logger.Info("_all_.message.invalidated", out.LogFields{
			"patients_cache":     true,
			"doctors_cache":      true,
			"availability_cache": true,
			"payment_info_cache": true,
		})
	}

	return nil
}
