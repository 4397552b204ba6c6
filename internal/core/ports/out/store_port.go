package out

import (
	"context"

	"github.com/clinicore/medical-automation-api/internal/core/domain"
	"github.com/clinicore/medical-automation-api/internal/core/json_types"
	"github.com/google/uuid"
)

// StorePort - шлюз к долговременному хранилищу. Кэширующей логики здесь нет.
// Отсутствие сущности - domain.ErrNotFound, пересечение записей - domain.ErrConflict,
// транспортные сбои оборачиваются в domain.ErrStoreFailure
type StorePort interface {
	FindDoctorByID(ctx context.Context, id uuid.UUID) (*domain.Doctor, error)
	ListDoctors(ctx context.Context) ([]domain.Doctor, error)
	CreateDoctor(ctx context.Context, doctor domain.Doctor) error
	UpdateDoctor(ctx context.Context, doctor domain.Doctor) error

	FindPatientByID(ctx context.Context, id uuid.UUID) (*domain.Patient, error)
	CreatePatient(ctx context.Context, patient domain.Patient) error
	UpdatePatient(ctx context.Context, patient domain.Patient) error
	FindPaymentProfileByPatientID(ctx context.Context, patientID uuid.UUID) (*domain.PaymentProfile, error)

	// ListAppointments возвращает записи врача на дату во всех статусах
	ListAppointments(ctx context.Context, doctorID uuid.UUID, date json_types.Date) ([]domain.Appointment, error)
	FindAppointmentByID(ctx context.Context, id uuid.UUID) (*domain.Appointment, error)

	// InsertAppointment атомарно проверяет пересечения со scheduled-записями врача
	// на эту дату и вставляет новую запись. При пересечении - domain.ErrConflict,
	// у конкурентных вставок побеждает ровно одна
	InsertAppointment(ctx context.Context, appointment domain.Appointment) error

	// UpdateAppointmentStatus переводит запись из scheduled в новый статус.
	// Если записи нет или она уже не scheduled - domain.ErrNotFound
	UpdateAppointmentStatus(ctx context.Context, id uuid.UUID, status domain.AppointmentStatus) error

	// ReplaceAppointment атомарно отменяет старую запись и вставляет новую:
	// проверка конфликта для новой записи и освобождение старого окна - одна
	// логическая единица. При конфликте старая запись остается scheduled
	ReplaceAppointment(ctx context.Context, oldID uuid.UUID, appointment domain.Appointment) error

	Ping(ctx context.Context) error
}
