package in

import (
	"context"

	"github.com/clinicore/medical-automation-api/internal/core/domain"
	"github.com/google/uuid"
)

type DoctorUseCase interface {
	GetDoctor(ctx context.Context, doctorID uuid.UUID) (*domain.Doctor, error)
	ListDoctors(ctx context.Context) ([]domain.Doctor, error)
	CreateDoctor(ctx context.Context, doctor domain.Doctor) (*domain.Doctor, error)
	UpdateDoctor(ctx context.Context, doctor domain.Doctor) (*domain.Doctor, error)
}
