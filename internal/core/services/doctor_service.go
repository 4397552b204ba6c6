package services

import (
	"context"
	"fmt"
	"time"

	"github.com/clinicore/medical-automation-api/internal/core/domain"
	"github.com/clinicore/medical-automation-api/internal/core/ports/out"
	"github.com/google/uuid"
)

type DoctorService struct {
	storePort out.StorePort
	cache     *CacheManager
	logger    out.LoggerPort

	doctorsTTL time.Duration
}

func NewDoctorService(
	storePort out.StorePort,
	cache *CacheManager,
	logger out.LoggerPort,
	doctorsTTL time.Duration,
) *DoctorService {
	return &DoctorService{
		storePort:  storePort,
		cache:      cache,
		logger:     logger.WithModule("doctor_service"),
		doctorsTTL: doctorsTTL,
	}
}

func (s *DoctorService) GetDoctor(ctx context.Context, doctorID uuid.UUID) (*domain.Doctor, error) {
	return ReadThroughAs(ctx, s.cache, domain.CacheNamespaceDoctors, doctorID.String(), s.doctorsTTL,
		func(ctx context.Context) (*domain.Doctor, error) {
			return s.storePort.FindDoctorByID(ctx, doctorID)
		})
}

func (s *DoctorService) ListDoctors(ctx context.Context) ([]domain.Doctor, error) {
	return s.storePort.ListDoctors(ctx)
}

func (s *DoctorService) CreateDoctor(ctx context.Context, doctor domain.Doctor) (*domain.Doctor, error) {
	if err := validateDoctor(doctor); err != nil {
		return nil, err
	}

	if doctor.ID == uuid.Nil {
		doctor.ID = uuid.New()
	}

	if err := s.storePort.CreateDoctor(ctx, doctor); err != nil {
		return nil, err
	}

	s.logger.Info("doctor.created", out.LogFields{
		"doctorId":  doctor.ID,
		"specialty": doctor.Specialty,
	})

	return &doctor, nil
}

// UpdateDoctor сбрасывает кэш врача и всё пространство availability:
// какие даты задел новый шаблон рабочих часов, заранее неизвестно
func (s *DoctorService) UpdateDoctor(ctx context.Context, doctor domain.Doctor) (*domain.Doctor, error) {
	if err := validateDoctor(doctor); err != nil {
		return nil, err
	}

	if err := s.storePort.UpdateDoctor(ctx, doctor); err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, domain.CacheNamespaceDoctors, doctor.ID.String())
	s.cache.InvalidateNamespace(ctx, domain.CacheNamespaceAvailability)

	s.logger.Info("doctor.updated", out.LogFields{
		"doctorId": doctor.ID,
	})

	return &doctor, nil
}

func validateDoctor(doctor domain.Doctor) error {
	if doctor.Name == "" {
		return fmt.Errorf("%w: doctor name is required", domain.ErrInvalidArgument)
	}
	if doctor.SlotDurationMinutes <= 0 {
		return fmt.Errorf("%w: slot duration must be positive", domain.ErrInvalidArgument)
	}

	for weekday, windows := range doctor.WorkingHours {
		for _, window := range windows {
			if !window.Start.Valid() || !window.End.Valid() {
				return fmt.Errorf("%w: working window %s-%s on %s is out of range",
					domain.ErrInvalidArgument, window.Start, window.End, weekday)
			}
			if !window.Start.Before(window.End) {
				return fmt.Errorf("%w: working window %s-%s on %s is empty",
					domain.ErrInvalidArgument, window.Start, window.End, weekday)
			}
		}
	}

	return nil
}
