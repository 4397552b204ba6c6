package out

import (
	"context"

	"github.com/clinicore/medical-automation-api/internal/core/domain"
)

// ClassifierPort - классификатор намерений для ассистента.
// Ошибки транспорта не фатальны: ассистент деградирует до fallback-ответа
type ClassifierPort interface {
	Classify(ctx context.Context, text string) (*domain.Intent, error)
}
