package rabbitmq

import (
	"context"
	"encoding/json"

	"github.com/clinicore/medical-automation-api/internal/core/domain"
	"github.com/clinicore/medical-automation-api/internal/core/ports/out"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

type DoctorEventMessage struct {
	DoctorID uuid.UUID `json:"doctor_id"`
}

func (l *InvalidationListener) processDoctorMessage(ctx context.Context, msg amqp.Delivery) error {
	routingKey, err := l.parseEventRoutingKey(msg)
	if err != nil {
		return err
	}

	if routingKey.Entity != EventEntityDoctor {
		return nil
	}

	var msgJson DoctorEventMessage
	if err := json.Unmarshal(msg.Body, &msgJson); err != nil {
		l.logger.Warn("doctor.message.malformed", out.LogFields{
			"error":     err.Error(),
			"msgString": string(msg.Body),
		})
		return nil
	}
	if msgJson.DoctorID == uuid.Nil {
		l.logger.Warn("doctor.message.malformed", out.LogFields{
			"msgString": string(msg.Body),
		})
		return nil
	}

	// Смена шаблона рабочих часов задевает неизвестный набор дат,
	// поэтому вместе с карточкой врача сбрасываем все свободные окна
	if routingKey.Action == EventActionInvalidate {
		go l.useCase.Invalidate(ctx, domain.CacheNamespaceDoctors, msgJson.DoctorID.String())
		go l.useCase.InvalidateNamespace(ctx, domain.CacheNamespaceAvailability)

		l.logger.Info("doctor.message.invalidated", out.LogFields{
			"doctor_id": msgJson.DoctorID,
		})
	}

	return nil
}
