package domain

import (
	"time"

	"github.com/clinicore/medical-automation-api/internal/core/json_types"
	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
)

// Appointment - запись на прием. Отмена является сменой статуса,
// физически записи не удаляются
type Appointment struct {
	ID              uuid.UUID            `json:"id"`
	DoctorID        uuid.UUID            `json:"doctorId"`
	PatientID       uuid.UUID            `json:"patientId"`
	Date            json_types.Date      `json:"date"`
	StartTime       json_types.TimeOfDay `json:"startTime"`
	DurationMinutes int                  `json:"durationMinutes"`
	Status          AppointmentStatus    `json:"status"`
	CreatedAt       time.Time            `json:"createdAt"`
	UpdatedAt       time.Time            `json:"updatedAt"`
}

func (a Appointment) IsScheduled() bool {
	return a.Status == AppointmentStatusScheduled
}

func (a Appointment) Window() TimeWindow {
	return TimeWindow{
		Start: a.StartTime,
		End:   a.StartTime.AddMinutes(a.DurationMinutes),
	}
}
