package memstore

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicore/medical-automation-api/internal/adapters/out/logger"
	"github.com/clinicore/medical-automation-api/internal/core/domain"
	"github.com/clinicore/medical-automation-api/internal/core/json_types"
)

func newStore(t *testing.T) *MemoryStoreAdapter {
	t.Helper()

	log, err := logger.NewConsoleLogger("UTC", "error")
	require.NoError(t, err)

	return NewMemoryStoreAdapter(log)
}

func seedDoctor(t *testing.T, store *MemoryStoreAdapter) domain.Doctor {
	t.Helper()

	doctor := domain.Doctor{
		ID:                  uuid.New(),
		Name:                "Dr. Ana Souza",
		Specialty:           "cardiology",
		SlotDurationMinutes: 30,
		WorkingHours: map[domain.Weekday][]domain.WorkingWindow{
			domain.WeekdayMon: {{Start: json_types.NewTimeOfDay(9, 0), End: json_types.NewTimeOfDay(12, 0)}},
		},
	}
	require.NoError(t, store.CreateDoctor(context.Background(), doctor))

	return doctor
}

func appointmentAt(doctorID uuid.UUID, date json_types.Date, hour, minute, duration int) domain.Appointment {
	now := time.Now()
	return domain.Appointment{
		ID:              uuid.New(),
		DoctorID:        doctorID,
		PatientID:       uuid.New(),
		Date:            date,
		StartTime:       json_types.NewTimeOfDay(hour, minute),
		DurationMinutes: duration,
		Status:          domain.AppointmentStatusScheduled,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func TestInsertAppointmentRejectsOverlap(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	doctor := seedDoctor(t, store)
	date := json_types.NewDate(time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC))

	require.NoError(t, store.InsertAppointment(ctx, appointmentAt(doctor.ID, date, 9, 30, 30)))

	// 09:45-10:15 пересекается с 09:30-10:00
	err := store.InsertAppointment(ctx, appointmentAt(doctor.ID, date, 9, 45, 30))
	require.ErrorIs(t, err, domain.ErrConflict)

	appointments, err := store.ListAppointments(ctx, doctor.ID, date)
	require.NoError(t, err)
	assert.Len(t, appointments, 1)
}

func TestInsertAppointmentBoundaryTouch(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	doctor := seedDoctor(t, store)
	date := json_types.NewDate(time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC))

	require.NoError(t, store.InsertAppointment(ctx, appointmentAt(doctor.ID, date, 9, 0, 30)))
	// Конец 09:30 совпадает с началом следующего окна, это не пересечение
	require.NoError(t, store.InsertAppointment(ctx, appointmentAt(doctor.ID, date, 9, 30, 30)))
}

func TestInsertAppointmentIgnoresCancelled(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	doctor := seedDoctor(t, store)
	date := json_types.NewDate(time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC))

	first := appointmentAt(doctor.ID, date, 9, 30, 30)
	require.NoError(t, store.InsertAppointment(ctx, first))
	require.NoError(t, store.UpdateAppointmentStatus(ctx, first.ID, domain.AppointmentStatusCancelled))

	// Отмененная запись не блокирует окно
	require.NoError(t, store.InsertAppointment(ctx, appointmentAt(doctor.ID, date, 9, 30, 30)))
}

func TestInsertAppointmentUnknownDoctor(t *testing.T) {
	store := newStore(t)
	date := json_types.NewDate(time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC))

	err := store.InsertAppointment(context.Background(), appointmentAt(uuid.New(), date, 9, 0, 30))
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestInsertAppointmentSeparateDaysAndDoctors(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	doctor := seedDoctor(t, store)
	other := seedDoctorNamed(t, store, "Dr. Paulo Mendes")

	monday := json_types.NewDate(time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC))
	tuesday := json_types.NewDate(time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC))

	require.NoError(t, store.InsertAppointment(ctx, appointmentAt(doctor.ID, monday, 9, 0, 30)))
	// То же время в другой день и у другого врача свободно
	require.NoError(t, store.InsertAppointment(ctx, appointmentAt(doctor.ID, tuesday, 9, 0, 30)))
	require.NoError(t, store.InsertAppointment(ctx, appointmentAt(other.ID, monday, 9, 0, 30)))
}

func seedDoctorNamed(t *testing.T, store *MemoryStoreAdapter, name string) domain.Doctor {
	t.Helper()

	doctor := domain.Doctor{
		ID:                  uuid.New(),
		Name:                name,
		SlotDurationMinutes: 30,
		WorkingHours:        map[domain.Weekday][]domain.WorkingWindow{},
	}
	require.NoError(t, store.CreateDoctor(context.Background(), doctor))

	return doctor
}

func TestUpdateAppointmentStatusRequiresScheduled(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	doctor := seedDoctor(t, store)
	date := json_types.NewDate(time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC))

	appointment := appointmentAt(doctor.ID, date, 9, 0, 30)
	require.NoError(t, store.InsertAppointment(ctx, appointment))

	require.NoError(t, store.UpdateAppointmentStatus(ctx, appointment.ID, domain.AppointmentStatusCancelled))

	// Повторный перевод статуса у неактивной записи
	err := store.UpdateAppointmentStatus(ctx, appointment.ID, domain.AppointmentStatusCancelled)
	require.ErrorIs(t, err, domain.ErrNotFound)

	err = store.UpdateAppointmentStatus(ctx, uuid.New(), domain.AppointmentStatusCancelled)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListAppointmentsSortedByStart(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	doctor := seedDoctor(t, store)
	date := json_types.NewDate(time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC))

	require.NoError(t, store.InsertAppointment(ctx, appointmentAt(doctor.ID, date, 11, 0, 30)))
	require.NoError(t, store.InsertAppointment(ctx, appointmentAt(doctor.ID, date, 9, 0, 30)))
	require.NoError(t, store.InsertAppointment(ctx, appointmentAt(doctor.ID, date, 10, 0, 30)))

	appointments, err := store.ListAppointments(ctx, doctor.ID, date)
	require.NoError(t, err)
	require.Len(t, appointments, 3)
	assert.Equal(t, "09:00", appointments[0].StartTime.String())
	assert.Equal(t, "10:00", appointments[1].StartTime.String())
	assert.Equal(t, "11:00", appointments[2].StartTime.String())
}

func TestReplaceAppointmentMoves(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	doctor := seedDoctor(t, store)
	date := json_types.NewDate(time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC))

	original := appointmentAt(doctor.ID, date, 9, 0, 30)
	require.NoError(t, store.InsertAppointment(ctx, original))

	replacement := appointmentAt(doctor.ID, date, 10, 0, 30)
	require.NoError(t, store.ReplaceAppointment(ctx, original.ID, replacement))

	stored, err := store.FindAppointmentByID(ctx, original.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.AppointmentStatusCancelled, stored.Status)

	stored, err = store.FindAppointmentByID(ctx, replacement.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.AppointmentStatusScheduled, stored.Status)
}

func TestReplaceAppointmentConflictKeepsOriginal(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	doctor := seedDoctor(t, store)
	date := json_types.NewDate(time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC))

	original := appointmentAt(doctor.ID, date, 9, 0, 30)
	blocker := appointmentAt(doctor.ID, date, 10, 0, 30)
	require.NoError(t, store.InsertAppointment(ctx, original))
	require.NoError(t, store.InsertAppointment(ctx, blocker))

	err := store.ReplaceAppointment(ctx, original.ID, appointmentAt(doctor.ID, date, 10, 0, 30))
	require.ErrorIs(t, err, domain.ErrConflict)

	stored, err := store.FindAppointmentByID(ctx, original.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.AppointmentStatusScheduled, stored.Status)
}

func TestReplaceAppointmentOntoOwnWindow(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	doctor := seedDoctor(t, store)
	date := json_types.NewDate(time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC))

	original := appointmentAt(doctor.ID, date, 9, 0, 30)
	require.NoError(t, store.InsertAppointment(ctx, original))

	// Собственное окно не считается конфликтом при переносе
	replacement := appointmentAt(doctor.ID, date, 9, 0, 30)
	require.NoError(t, store.ReplaceAppointment(ctx, original.ID, replacement))
}

func TestReplaceAppointmentRequiresScheduled(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	doctor := seedDoctor(t, store)
	date := json_types.NewDate(time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC))

	original := appointmentAt(doctor.ID, date, 9, 0, 30)
	require.NoError(t, store.InsertAppointment(ctx, original))
	require.NoError(t, store.UpdateAppointmentStatus(ctx, original.ID, domain.AppointmentStatusCancelled))

	err := store.ReplaceAppointment(ctx, original.ID, appointmentAt(doctor.ID, date, 10, 0, 30))
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreatePatientRejectsDuplicateCPF(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	first := domain.Patient{ID: uuid.New(), Name: "Carlos Lima", CPF: "529.982.247-25"}
	require.NoError(t, store.CreatePatient(ctx, first))

	err := store.CreatePatient(ctx, domain.Patient{ID: uuid.New(), Name: "Outro Carlos", CPF: "529.982.247-25"})
	require.ErrorIs(t, err, domain.ErrConflict)

	err = store.CreatePatient(ctx, first)
	require.ErrorIs(t, err, domain.ErrConflict)
}

func TestDoctorLifecycle(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	doctor := seedDoctor(t, store)

	err := store.CreateDoctor(ctx, doctor)
	require.ErrorIs(t, err, domain.ErrConflict)

	doctor.Name = "Dr. Ana Souza Filha"
	require.NoError(t, store.UpdateDoctor(ctx, doctor))

	stored, err := store.FindDoctorByID(ctx, doctor.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dr. Ana Souza Filha", stored.Name)

	err = store.UpdateDoctor(ctx, domain.Doctor{ID: uuid.New()})
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = store.FindDoctorByID(ctx, uuid.New())
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPaymentProfileRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	patient := domain.Patient{ID: uuid.New(), Name: "Carlos Lima", CPF: "529.982.247-25"}
	require.NoError(t, store.CreatePatient(ctx, patient))

	_, err := store.FindPaymentProfileByPatientID(ctx, patient.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)

	store.SavePaymentProfile(domain.PaymentProfile{
		PatientID: patient.ID,
		Provider:  "unimed",
		PlanCode:  "premium",
	})

	profile, err := store.FindPaymentProfileByPatientID(ctx, patient.ID)
	require.NoError(t, err)
	assert.Equal(t, "unimed", profile.Provider)
}
