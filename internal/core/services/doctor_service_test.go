package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicore/medical-automation-api/internal/adapters/out/memstore"
	"github.com/clinicore/medical-automation-api/internal/core/domain"
	"github.com/clinicore/medical-automation-api/internal/core/json_types"
)

func newDoctorService(t *testing.T, backend *fakeCacheBackend) (*DoctorService, *memstore.MemoryStoreAdapter) {
	t.Helper()

	log := newTestLogger(t)
	store := memstore.NewMemoryStoreAdapter(log)
	cm := newTestCacheManager(t, backend)

	return NewDoctorService(store, cm, log, 5*time.Minute), store
}

func validDoctor() domain.Doctor {
	return domain.Doctor{
		Name:                "Dr. Ana Souza",
		Specialty:           "cardiology",
		SlotDurationMinutes: 30,
		WorkingHours: map[domain.Weekday][]domain.WorkingWindow{
			domain.WeekdayMon: {{Start: json_types.NewTimeOfDay(9, 0), End: json_types.NewTimeOfDay(12, 0)}},
		},
	}
}

func TestCreateDoctorAssignsID(t *testing.T) {
	service, _ := newDoctorService(t, newFakeCacheBackend())

	created, err := service.CreateDoctor(context.Background(), validDoctor())
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
}

func TestCreateDoctorValidation(t *testing.T) {
	service, _ := newDoctorService(t, newFakeCacheBackend())

	tests := []struct {
		name   string
		mutate func(*domain.Doctor)
	}{
		{"empty name", func(d *domain.Doctor) { d.Name = "" }},
		{"zero slot duration", func(d *domain.Doctor) { d.SlotDurationMinutes = 0 }},
		{"negative slot duration", func(d *domain.Doctor) { d.SlotDurationMinutes = -30 }},
		{"empty working window", func(d *domain.Doctor) {
			d.WorkingHours[domain.WeekdayMon] = []domain.WorkingWindow{
				{Start: json_types.NewTimeOfDay(9, 0), End: json_types.NewTimeOfDay(9, 0)},
			}
		}},
		{"inverted working window", func(d *domain.Doctor) {
			d.WorkingHours[domain.WeekdayMon] = []domain.WorkingWindow{
				{Start: json_types.NewTimeOfDay(12, 0), End: json_types.NewTimeOfDay(9, 0)},
			}
		}},
		{"window out of day range", func(d *domain.Doctor) {
			d.WorkingHours[domain.WeekdayMon] = []domain.WorkingWindow{
				{Start: json_types.NewTimeOfDay(23, 0), End: json_types.NewTimeOfDay(25, 0)},
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doctor := validDoctor()
			tt.mutate(&doctor)

			_, err := service.CreateDoctor(context.Background(), doctor)
			require.ErrorIs(t, err, domain.ErrInvalidArgument)
		})
	}
}

func TestGetDoctorReadThrough(t *testing.T) {
	ctx := context.Background()
	backend := newFakeCacheBackend()
	service, _ := newDoctorService(t, backend)

	created, err := service.CreateDoctor(ctx, validDoctor())
	require.NoError(t, err)

	first, err := service.GetDoctor(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Name, first.Name)
	assert.Contains(t, backend.data, "doctors:"+created.ID.String())

	second, err := service.GetDoctor(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	_, err = service.GetDoctor(ctx, uuid.New())
	require.ErrorIs(t, err, domain.ErrNotFound)
}

// Смена шаблона рабочих часов сбрасывает врача и все рассчитанные
// слоты: какие даты задеты, заранее неизвестно
func TestUpdateDoctorInvalidatesAvailability(t *testing.T) {
	ctx := context.Background()
	backend := newFakeCacheBackend()
	service, _ := newDoctorService(t, backend)

	created, err := service.CreateDoctor(ctx, validDoctor())
	require.NoError(t, err)

	created.SlotDurationMinutes = 20
	_, err = service.UpdateDoctor(ctx, *created)
	require.NoError(t, err)

	assert.Contains(t, backend.deleted, "doctors:"+created.ID.String())
	assert.Contains(t, backend.prefixes, "availability:")
}

func TestUpdateDoctorUnknown(t *testing.T) {
	service, _ := newDoctorService(t, newFakeCacheBackend())

	doctor := validDoctor()
	doctor.ID = uuid.New()

	_, err := service.UpdateDoctor(context.Background(), doctor)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListDoctorsSortedByName(t *testing.T) {
	ctx := context.Background()
	service, _ := newDoctorService(t, newFakeCacheBackend())

	second := validDoctor()
	second.Name = "Dr. Paulo Mendes"
	_, err := service.CreateDoctor(ctx, second)
	require.NoError(t, err)

	first := validDoctor()
	_, err = service.CreateDoctor(ctx, first)
	require.NoError(t, err)

	doctors, err := service.ListDoctors(ctx)
	require.NoError(t, err)
	require.Len(t, doctors, 2)
	assert.Equal(t, "Dr. Ana Souza", doctors[0].Name)
	assert.Equal(t, "Dr. Paulo Mendes", doctors[1].Name)
}
