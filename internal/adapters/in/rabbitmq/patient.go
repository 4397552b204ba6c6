package rabbitmq

import (
	"context"
	"encoding/json"

	"github.com/clinicore/medical-automation-api/internal/core/domain"
	"github.com/clinicore/medical-automation-api/internal/core/ports/out"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

type PatientEventMessage struct {
	PatientID uuid.UUID `json:"patient_id"`
}

func (l *InvalidationListener) processPatientMessage(ctx context.Context, msg amqp.Delivery) error {
	routingKey, err := l.parseEventRoutingKey(msg)
	if err != nil {
		return err
	}

	if routingKey.Entity != EventEntityPatient {
		return nil
	}

	var msgJson PatientEventMessage
	if err := json.Unmarshal(msg.Body, &msgJson); err != nil {
		l.logger.Warn("patient.message.malformed", out.LogFields{
			"error":     err.Error(),
			"msgString": string(msg.Body),
		})
		return nil
	}
	if msgJson.PatientID == uuid.Nil {
		l.logger.Warn("patient.message.malformed", out.LogFields{
			"msgString": string(msg.Body),
		})
		return nil
	}

	// Платежный профиль хранится под тем же идентификатором пациента
	if routingKey.Action == EventActionInvalidate {
		go l.useCase.Invalidate(ctx, domain.CacheNamespacePatients, msgJson.PatientID.String())
		go l.useCase.Invalidate(ctx, domain.CacheNamespacePaymentInfo, msgJson.PatientID.String())

		l.logger.Info("patient.message.invalidated", out.LogFields{
			"patient_id": msgJson.PatientID,
		})
	}

	return nil
}
