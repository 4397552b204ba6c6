package in

import (
	"context"

	"github.com/clinicore/medical-automation-api/internal/core/domain"
	"github.com/clinicore/medical-automation-api/internal/core/json_types"
	"github.com/google/uuid"
)

type BookAppointmentParams struct {
	DoctorID  uuid.UUID
	PatientID uuid.UUID
	Date      json_types.Date
	StartTime json_types.TimeOfDay
	// DurationMinutes = 0 означает длительность слота врача
	DurationMinutes int
}

type AvailabilityUseCase interface {
	// GetAvailableSlots возвращает свободные окна врача на дату:
	// шаблон рабочих часов минус пересекающиеся scheduled-записи,
	// непересекающиеся окна по возрастанию времени начала
	GetAvailableSlots(ctx context.Context, doctorID uuid.UUID, date json_types.Date) ([]domain.TimeWindow, error)

	// BookAppointment бронирует окно со статусом scheduled.
	// У конкурентных запросов на пересекающиеся окна побеждает ровно один
	BookAppointment(ctx context.Context, params BookAppointmentParams) (*domain.Appointment, error)

	// CancelAppointment переводит запись в cancelled и освобождает окно
	CancelAppointment(ctx context.Context, appointmentID uuid.UUID) error

	// RescheduleAppointment атомарно переносит запись на новые дату и время
	RescheduleAppointment(ctx context.Context, appointmentID uuid.UUID, newDate json_types.Date, newStart json_types.TimeOfDay) (*domain.Appointment, error)
}
