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
)

func newPatientService(t *testing.T, backend *fakeCacheBackend) (*PatientService, *memstore.MemoryStoreAdapter) {
	t.Helper()

	log := newTestLogger(t)
	store := memstore.NewMemoryStoreAdapter(log)
	cm := newTestCacheManager(t, backend)

	return NewPatientService(store, cm, log, 5*time.Minute, 5*time.Minute), store
}

func validPatient() domain.Patient {
	return domain.Patient{
		Name:  "Carlos Lima",
		CPF:   "529.982.247-25",
		Email: "carlos.lima@example.com",
		Phone: "(11) 91234-5678",
	}
}

func TestCreatePatientAssignsID(t *testing.T) {
	service, _ := newPatientService(t, newFakeCacheBackend())

	created, err := service.CreatePatient(context.Background(), validPatient())
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
}

func TestCreatePatientValidation(t *testing.T) {
	service, _ := newPatientService(t, newFakeCacheBackend())

	tests := []struct {
		name   string
		mutate func(*domain.Patient)
	}{
		{"empty name", func(p *domain.Patient) { p.Name = "" }},
		{"invalid cpf", func(p *domain.Patient) { p.CPF = "111.111.111-11" }},
		{"invalid email", func(p *domain.Patient) { p.Email = "carlos" }},
		{"invalid phone", func(p *domain.Patient) { p.Phone = "123" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			patient := validPatient()
			tt.mutate(&patient)

			_, err := service.CreatePatient(context.Background(), patient)
			require.ErrorIs(t, err, domain.ErrInvalidArgument)
		})
	}
}

func TestGetPatientReadThrough(t *testing.T) {
	ctx := context.Background()
	backend := newFakeCacheBackend()
	service, _ := newPatientService(t, backend)

	created, err := service.CreatePatient(ctx, validPatient())
	require.NoError(t, err)

	first, err := service.GetPatient(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Name, first.Name)
	assert.Contains(t, backend.data, "patients:"+created.ID.String())

	// Второе чтение приходит из кэша
	second, err := service.GetPatient(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	_, err = service.GetPatient(ctx, uuid.New())
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdatePatientInvalidatesCaches(t *testing.T) {
	ctx := context.Background()
	backend := newFakeCacheBackend()
	service, _ := newPatientService(t, backend)

	created, err := service.CreatePatient(ctx, validPatient())
	require.NoError(t, err)

	created.Phone = "(11) 98888-7777"
	_, err = service.UpdatePatient(ctx, *created)
	require.NoError(t, err)

	// Профиль пациента и платежный профиль сброшены из кэша
	assert.Contains(t, backend.deleted, "patients:"+created.ID.String())
	assert.Contains(t, backend.deleted, "payment-info:"+created.ID.String())
}

func TestUpdatePatientUnknown(t *testing.T) {
	service, _ := newPatientService(t, newFakeCacheBackend())

	patient := validPatient()
	patient.ID = uuid.New()

	_, err := service.UpdatePatient(context.Background(), patient)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetPaymentProfile(t *testing.T) {
	ctx := context.Background()
	backend := newFakeCacheBackend()
	service, store := newPatientService(t, backend)

	created, err := service.CreatePatient(ctx, validPatient())
	require.NoError(t, err)

	_, err = service.GetPaymentProfile(ctx, created.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)

	store.SavePaymentProfile(domain.PaymentProfile{
		PatientID: created.ID,
		Provider:  "unimed",
		PlanCode:  "premium",
	})

	profile, err := service.GetPaymentProfile(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "unimed", profile.Provider)
	assert.Contains(t, backend.data, "payment-info:"+created.ID.String())
}
