package in

import (
	"context"

	"github.com/clinicore/medical-automation-api/internal/core/domain"
	"github.com/google/uuid"
)

type AssistantUseCase interface {
	// ProcessMessage классифицирует сообщение пациента и выполняет
	// распознанное действие. Ошибка классификатора не пробрасывается,
	// вместо неё возвращается fallback-ответ
	ProcessMessage(ctx context.Context, patientID uuid.UUID, text string) (*domain.AssistantReply, error)
}
