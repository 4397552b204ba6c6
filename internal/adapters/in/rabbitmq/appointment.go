package rabbitmq

import (
	"context"
	"encoding/json"

	"github.com/clinicore/medical-automation-api/internal/core/domain"
	"github.com/clinicore/medical-automation-api/internal/core/json_types"
	"github.com/clinicore/medical-automation-api/internal/core/ports/out"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

type AppointmentEventMessage struct {
	DoctorID uuid.UUID       `json:"doctor_id"`
	Date     json_types.Date `json:"date"`
}

func (l *InvalidationListener) processAppointmentMessage(ctx context.Context, msg amqp.Delivery) error {
	routingKey, err := l.parseEventRoutingKey(msg)
	if err != nil {
		return err
	}

	if routingKey.Entity != EventEntityAppointment {
		return nil
	}

	// Битые сообщения подтверждаем и отбрасываем, повторная доставка
	// не сделает их корректными
	var msgJson AppointmentEventMessage
	if err := json.Unmarshal(msg.Body, &msgJson); err != nil {
		l.logger.Warn("appointment.message.malformed", out.LogFields{
			"error":     err.Error(),
			"msgString": string(msg.Body),
		})
		return nil
	}
	if msgJson.DoctorID == uuid.Nil || msgJson.Date.IsZero() {
		l.logger.Warn("appointment.message.malformed", out.LogFields{
			"msgString": string(msg.Body),
		})
		return nil
	}

	if routingKey.Action == EventActionInvalidate {
		go l.useCase.Invalidate(ctx, domain.CacheNamespaceAvailability, domain.AvailabilityCacheKey(msgJson.DoctorID, msgJson.Date))

		l.logger.Info("appointment.message.invalidated", out.LogFields{
			"doctor_id": msgJson.DoctorID,
			"date":      msgJson.Date,
		})
	}

	return nil
}
