package services

import (
	"context"
	"fmt"
	"time"

	"github.com/clinicore/medical-automation-api/internal/core/domain"
	"github.com/clinicore/medical-automation-api/internal/core/ports/out"
	"github.com/clinicore/medical-automation-api/internal/utils"
	"github.com/google/uuid"
)

type PatientService struct {
	storePort out.StorePort
	cache     *CacheManager
	logger    out.LoggerPort

	patientsTTL    time.Duration
	paymentInfoTTL time.Duration
}

func NewPatientService(
	storePort out.StorePort,
	cache *CacheManager,
	logger out.LoggerPort,
	patientsTTL time.Duration,
	paymentInfoTTL time.Duration,
) *PatientService {
	return &PatientService{
		storePort:      storePort,
		cache:          cache,
		logger:         logger.WithModule("patient_service"),
		patientsTTL:    patientsTTL,
		paymentInfoTTL: paymentInfoTTL,
	}
}

func (s *PatientService) GetPatient(ctx context.Context, patientID uuid.UUID) (*domain.Patient, error) {
	return ReadThroughAs(ctx, s.cache, domain.CacheNamespacePatients, patientID.String(), s.patientsTTL,
		func(ctx context.Context) (*domain.Patient, error) {
			return s.storePort.FindPatientByID(ctx, patientID)
		})
}

func (s *PatientService) CreatePatient(ctx context.Context, patient domain.Patient) (*domain.Patient, error) {
	if err := validatePatient(patient); err != nil {
		return nil, err
	}

	if patient.ID == uuid.Nil {
		patient.ID = uuid.New()
	}

	if err := s.storePort.CreatePatient(ctx, patient); err != nil {
		return nil, err
	}

	s.logger.Info("patient.created", out.LogFields{
		"patientId": patient.ID,
	})

	return &patient, nil
}

func (s *PatientService) UpdatePatient(ctx context.Context, patient domain.Patient) (*domain.Patient, error) {
	if err := validatePatient(patient); err != nil {
		return nil, err
	}

	if err := s.storePort.UpdatePatient(ctx, patient); err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, domain.CacheNamespacePatients, patient.ID.String())
	s.cache.Invalidate(ctx, domain.CacheNamespacePaymentInfo, patient.ID.String())

	s.logger.Info("patient.updated", out.LogFields{
		"patientId": patient.ID,
	})

	return &patient, nil
}

func (s *PatientService) GetPaymentProfile(ctx context.Context, patientID uuid.UUID) (*domain.PaymentProfile, error) {
	return ReadThroughAs(ctx, s.cache, domain.CacheNamespacePaymentInfo, patientID.String(), s.paymentInfoTTL,
		func(ctx context.Context) (*domain.PaymentProfile, error) {
			return s.storePort.FindPaymentProfileByPatientID(ctx, patientID)
		})
}

func validatePatient(patient domain.Patient) error {
	if patient.Name == "" {
		return fmt.Errorf("%w: patient name is required", domain.ErrInvalidArgument)
	}
	if !utils.IsValidCPF(patient.CPF) {
		return fmt.Errorf("%w: invalid cpf", domain.ErrInvalidArgument)
	}
	if !utils.IsValidEmail(patient.Email) {
		return fmt.Errorf("%w: invalid email", domain.ErrInvalidArgument)
	}
	if !utils.IsValidPhone(patient.Phone) {
		return fmt.Errorf("%w: invalid phone", domain.ErrInvalidArgument)
	}

	return nil
}
