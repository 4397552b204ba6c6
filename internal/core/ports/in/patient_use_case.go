package in

import (
	"context"

	"github.com/clinicore/medical-automation-api/internal/core/domain"
	"github.com/google/uuid"
)

type PatientUseCase interface {
	GetPatient(ctx context.Context, patientID uuid.UUID) (*domain.Patient, error)
	CreatePatient(ctx context.Context, patient domain.Patient) (*domain.Patient, error)
	UpdatePatient(ctx context.Context, patient domain.Patient) (*domain.Patient, error)
	GetPaymentProfile(ctx context.Context, patientID uuid.UUID) (*domain.PaymentProfile, error)
}
