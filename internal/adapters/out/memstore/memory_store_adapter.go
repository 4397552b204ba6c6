package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/clinicore/medical-automation-api/internal/core/domain"
	"github.com/clinicore/medical-automation-api/internal/core/json_types"
	"github.com/clinicore/medical-automation-api/internal/core/ports/out"
)

// MemoryStoreAdapter - хранилище в памяти для локального режима и
// тестов. Все мутации выполняются под общим мьютексом, поэтому
// проверка конфликта и вставка записи атомарны: из гонки за одно
// окно выходит победителем ровно один запрос
type MemoryStoreAdapter struct {
	mu           sync.RWMutex
	doctors      map[uuid.UUID]domain.Doctor
	patients     map[uuid.UUID]domain.Patient
	payments     map[uuid.UUID]domain.PaymentProfile
	appointments map[uuid.UUID]domain.Appointment
	logger       out.LoggerPort
}

func NewMemoryStoreAdapter(logger out.LoggerPort) *MemoryStoreAdapter {
	return &MemoryStoreAdapter{
		doctors:      make(map[uuid.UUID]domain.Doctor),
		patients:     make(map[uuid.UUID]domain.Patient),
		payments:     make(map[uuid.UUID]domain.PaymentProfile),
		appointments: make(map[uuid.UUID]domain.Appointment),
		logger:       logger.WithModule("memory_store"),
	}
}

func (s *MemoryStoreAdapter) FindDoctorByID(ctx context.Context, doctorID uuid.UUID) (*domain.Doctor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doctor, exists := s.doctors[doctorID]
	if !exists {
		return nil, fmt.Errorf("%w: doctor %s", domain.ErrNotFound, doctorID)
	}

	return &doctor, nil
}

func (s *MemoryStoreAdapter) ListDoctors(ctx context.Context) ([]domain.Doctor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doctors := make([]domain.Doctor, 0, len(s.doctors))
	for _, doctor := range s.doctors {
		doctors = append(doctors, doctor)
	}

	sort.Slice(doctors, func(i, j int) bool {
		return doctors[i].Name < doctors[j].Name
	})

	return doctors, nil
}

func (s *MemoryStoreAdapter) CreateDoctor(ctx context.Context, doctor domain.Doctor) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.doctors[doctor.ID]; exists {
		return fmt.Errorf("%w: doctor %s already exists", domain.ErrConflict, doctor.ID)
	}

	s.doctors[doctor.ID] = doctor

	return nil
}

func (s *MemoryStoreAdapter) UpdateDoctor(ctx context.Context, doctor domain.Doctor) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.doctors[doctor.ID]; !exists {
		return fmt.Errorf("%w: doctor %s", domain.ErrNotFound, doctor.ID)
	}

	s.doctors[doctor.ID] = doctor

	return nil
}

func (s *MemoryStoreAdapter) FindPatientByID(ctx context.Context, patientID uuid.UUID) (*domain.Patient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	patient, exists := s.patients[patientID]
	if !exists {
		return nil, fmt.Errorf("%w: patient %s", domain.ErrNotFound, patientID)
	}

	return &patient, nil
}

func (s *MemoryStoreAdapter) CreatePatient(ctx context.Context, patient domain.Patient) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.patients[patient.ID]; exists {
		return fmt.Errorf("%w: patient %s already exists", domain.ErrConflict, patient.ID)
	}
	for _, existing := range s.patients {
		if existing.CPF == patient.CPF {
			return fmt.Errorf("%w: cpf already registered", domain.ErrConflict)
		}
	}

	s.patients[patient.ID] = patient

	return nil
}

func (s *MemoryStoreAdapter) UpdatePatient(ctx context.Context, patient domain.Patient) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.patients[patient.ID]; !exists {
		return fmt.Errorf("%w: patient %s", domain.ErrNotFound, patient.ID)
	}

	s.patients[patient.ID] = patient

	return nil
}

func (s *MemoryStoreAdapter) FindPaymentProfileByPatientID(ctx context.Context, patientID uuid.UUID) (*domain.PaymentProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	profile, exists := s.payments[patientID]
	if !exists {
		return nil, fmt.Errorf("%w: payment profile for patient %s", domain.ErrNotFound, patientID)
	}

	return &profile, nil
}

// SavePaymentProfile заполняет платёжный профиль. Используется
// локальным режимом и тестами, ядро профили не создаёт
func (s *MemoryStoreAdapter) SavePaymentProfile(profile domain.PaymentProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.payments[profile.PatientID] = profile
}

func (s *MemoryStoreAdapter) ListAppointments(ctx context.Context, doctorID uuid.UUID, date json_types.Date) ([]domain.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	appointments := make([]domain.Appointment, 0)
	for _, appointment := range s.appointments {
		if appointment.DoctorID == doctorID && appointment.Date.Equal(date) {
			appointments = append(appointments, appointment)
		}
	}

	sort.Slice(appointments, func(i, j int) bool {
		return appointments[i].StartTime.Before(appointments[j].StartTime)
	})

	return appointments, nil
}

func (s *MemoryStoreAdapter) FindAppointmentByID(ctx context.Context, appointmentID uuid.UUID) (*domain.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	appointment, exists := s.appointments[appointmentID]
	if !exists {
		return nil, fmt.Errorf("%w: appointment %s", domain.ErrNotFound, appointmentID)
	}

	return &appointment, nil
}

func (s *MemoryStoreAdapter) InsertAppointment(ctx context.Context, appointment domain.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.doctors[appointment.DoctorID]; !exists {
		return fmt.Errorf("%w: doctor %s", domain.ErrNotFound, appointment.DoctorID)
	}
	if _, exists := s.appointments[appointment.ID]; exists {
		return fmt.Errorf("%w: appointment %s already exists", domain.ErrConflict, appointment.ID)
	}

	if s.hasOverlapLocked(appointment.DoctorID, appointment.Date, appointment.Window(), uuid.Nil) {
		return fmt.Errorf("%w: window %s is already booked", domain.ErrConflict, appointment.Window())
	}

	s.appointments[appointment.ID] = appointment

	return nil
}

func (s *MemoryStoreAdapter) UpdateAppointmentStatus(ctx context.Context, appointmentID uuid.UUID, status domain.AppointmentStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	appointment, exists := s.appointments[appointmentID]
	if !exists || !appointment.IsScheduled() {
		return fmt.Errorf("%w: scheduled appointment %s", domain.ErrNotFound, appointmentID)
	}

	appointment.Status = status
	appointment.UpdatedAt = time.Now()
	s.appointments[appointmentID] = appointment

	return nil
}

// ReplaceAppointment отменяет старую запись и вставляет новую в одной
// критической секции. При конфликте нового окна старая запись
// остается scheduled
func (s *MemoryStoreAdapter) ReplaceAppointment(ctx context.Context, oldID uuid.UUID, newAppointment domain.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	oldAppointment, exists := s.appointments[oldID]
	if !exists || !oldAppointment.IsScheduled() {
		return fmt.Errorf("%w: scheduled appointment %s", domain.ErrNotFound, oldID)
	}

	// Старая запись не учитывается при проверке конфликта
	if s.hasOverlapLocked(newAppointment.DoctorID, newAppointment.Date, newAppointment.Window(), oldID) {
		return fmt.Errorf("%w: window %s is already booked", domain.ErrConflict, newAppointment.Window())
	}

	oldAppointment.Status = domain.AppointmentStatusCancelled
	oldAppointment.UpdatedAt = time.Now()
	s.appointments[oldID] = oldAppointment

	s.appointments[newAppointment.ID] = newAppointment

	return nil
}

func (s *MemoryStoreAdapter) Ping(ctx context.Context) error {
	return nil
}

func (s *MemoryStoreAdapter) hasOverlapLocked(doctorID uuid.UUID, date json_types.Date, window domain.TimeWindow, exceptID uuid.UUID) bool {
	for _, appointment := range s.appointments {
		if appointment.ID == exceptID {
			continue
		}
		if appointment.DoctorID != doctorID || !appointment.Date.Equal(date) {
			continue
		}
		if !appointment.IsScheduled() {
			continue
		}
		if window.Overlaps(appointment.Window()) {
			return true
		}
	}

	return false
}
