package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicore/medical-automation-api/internal/adapters/out/classifier"
	"github.com/clinicore/medical-automation-api/internal/adapters/out/logger"
	"github.com/clinicore/medical-automation-api/internal/adapters/out/memstore"
	"github.com/clinicore/medical-automation-api/internal/adapters/out/metrics"
	"github.com/clinicore/medical-automation-api/internal/config"
	"github.com/clinicore/medical-automation-api/internal/core/domain"
	"github.com/clinicore/medical-automation-api/internal/core/json_types"
	"github.com/clinicore/medical-automation-api/internal/core/services"
)

type apiFixture struct {
	router  *gin.Engine
	store   *memstore.MemoryStoreAdapter
	doctor  domain.Doctor
	patient domain.Patient
}

// newAPIFixture поднимает полный HTTP-стек поверх memstore
// с выключенным кэшем
func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	gin.SetMode(gin.TestMode)
	require.NoError(t, RegisterCustomValidators())

	log, err := logger.NewConsoleLogger("UTC", "error")
	require.NoError(t, err)

	store := memstore.NewMemoryStoreAdapter(log)
	cacheManager := services.NewCacheManager(nil, metrics.NewPrometheusMetrics(), log, time.Minute)

	availabilityService := services.NewAvailabilityService(store, cacheManager, metrics.NewPrometheusMetrics(), log, 5*time.Minute, "UTC")
	doctorService := services.NewDoctorService(store, cacheManager, log, time.Hour)
	patientService := services.NewPatientService(store, cacheManager, log, 5*time.Minute, 5*time.Minute)
	statsService := services.NewStatsService(cacheManager, store, log)
	assistantService := services.NewAssistantService(classifier.NewRulesClassifier(log), availabilityService, log)

	cfg := &config.Config{}
	cfg.App.Version = "test"

	router := gin.New()
	NewAvailabilityController(availabilityService).RegisterRoutes(router)
	NewDoctorController(doctorService).RegisterRoutes(router)
	NewPatientController(patientService).RegisterRoutes(router)
	NewStatusController(statsService, cfg).RegisterRoutes(router)
	NewAssistantController(assistantService).RegisterRoutes(router)

	everyDay := map[domain.Weekday][]domain.WorkingWindow{}
	window := domain.WorkingWindow{
		Start: json_types.NewTimeOfDay(9, 0),
		End:   json_types.NewTimeOfDay(12, 0),
	}
	for _, weekday := range domain.WeekdayMap {
		everyDay[weekday] = []domain.WorkingWindow{window}
	}

	doctor := domain.Doctor{
		ID:                  uuid.New(),
		Name:                "Dr. Ana Souza",
		Specialty:           "cardiology",
		SlotDurationMinutes: 30,
		WorkingHours:        everyDay,
	}
	require.NoError(t, store.CreateDoctor(context.Background(), doctor))

	patient := domain.Patient{
		ID:    uuid.New(),
		Name:  "Carlos Lima",
		CPF:   "529.982.247-25",
		Email: "carlos.lima@example.com",
		Phone: "(11) 91234-5678",
	}
	require.NoError(t, store.CreatePatient(context.Background(), patient))

	return &apiFixture{
		router:  router,
		store:   store,
		doctor:  doctor,
		patient: patient,
	}
}

func tomorrowStr() string {
	return json_types.NewDate(time.Now().UTC().AddDate(0, 0, 1)).String()
}

func (fx *apiFixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	recorder := httptest.NewRecorder()
	fx.router.ServeHTTP(recorder, req)

	return recorder
}

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))

	return body
}

func (fx *apiFixture) bookViaAPI(t *testing.T, startTime string) string {
	t.Helper()

	recorder := fx.do(t, http.MethodPost, "/api/v1/appointments", gin.H{
		"doctorId":  fx.doctor.ID,
		"patientId": fx.patient.ID,
		"date":      tomorrowStr(),
		"startTime": startTime,
	})
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	body := decodeBody(t, recorder)
	id, _ := body["id"].(string)
	require.NotEmpty(t, id)

	return id
}

func TestGetSlotsEndpoint(t *testing.T) {
	fx := newAPIFixture(t)

	recorder := fx.do(t, http.MethodGet,
		"/api/v1/doctors/"+fx.doctor.ID.String()+"/slots?date="+tomorrowStr(), nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	body := decodeBody(t, recorder)
	slots, ok := body["slots"].([]any)
	require.True(t, ok)
	require.Len(t, slots, 6)

	first, ok := slots[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "09:00", first["start"])
	assert.Equal(t, "09:30", first["end"])
}

func TestGetSlotsEndpointValidation(t *testing.T) {
	fx := newAPIFixture(t)

	tests := []struct {
		name string
		path string
		code int
	}{
		{"bad doctor id", "/api/v1/doctors/not-a-uuid/slots?date=" + tomorrowStr(), http.StatusBadRequest},
		{"bad date", "/api/v1/doctors/" + fx.doctor.ID.String() + "/slots?date=07/09/2026", http.StatusBadRequest},
		{"missing date", "/api/v1/doctors/" + fx.doctor.ID.String() + "/slots", http.StatusBadRequest},
		{"past date", "/api/v1/doctors/" + fx.doctor.ID.String() + "/slots?date=2020-01-01", http.StatusBadRequest},
		{"unknown doctor", "/api/v1/doctors/" + uuid.NewString() + "/slots?date=" + tomorrowStr(), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := fx.do(t, http.MethodGet, tt.path, nil)
			assert.Equal(t, tt.code, recorder.Code, recorder.Body.String())
		})
	}
}

func TestBookAppointmentEndpoint(t *testing.T) {
	fx := newAPIFixture(t)

	recorder := fx.do(t, http.MethodPost, "/api/v1/appointments", gin.H{
		"doctorId":  fx.doctor.ID,
		"patientId": fx.patient.ID,
		"date":      tomorrowStr(),
		"startTime": "09:30",
	})
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	body := decodeBody(t, recorder)
	assert.Equal(t, "scheduled", body["status"])
	assert.Equal(t, "09:30", body["startTime"])
	assert.NotEmpty(t, body["id"])

	// Окно ушло из свободных
	recorder = fx.do(t, http.MethodGet,
		"/api/v1/doctors/"+fx.doctor.ID.String()+"/slots?date="+tomorrowStr(), nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Len(t, decodeBody(t, recorder)["slots"].([]any), 5)

	// Повторная бронь того же окна
	recorder = fx.do(t, http.MethodPost, "/api/v1/appointments", gin.H{
		"doctorId":  fx.doctor.ID,
		"patientId": fx.patient.ID,
		"date":      tomorrowStr(),
		"startTime": "09:30",
	})
	assert.Equal(t, http.StatusConflict, recorder.Code)
}

func TestBookAppointmentEndpointValidation(t *testing.T) {
	fx := newAPIFixture(t)

	tests := []struct {
		name string
		body gin.H
		code int
	}{
		{
			"missing start time",
			gin.H{"doctorId": fx.doctor.ID, "patientId": fx.patient.ID, "date": tomorrowStr()},
			http.StatusBadRequest,
		},
		{
			"bad time format",
			gin.H{"doctorId": fx.doctor.ID, "patientId": fx.patient.ID, "date": tomorrowStr(), "startTime": "9h30"},
			http.StatusBadRequest,
		},
		{
			"bad date format",
			gin.H{"doctorId": fx.doctor.ID, "patientId": fx.patient.ID, "date": "07/09/2026", "startTime": "09:30"},
			http.StatusBadRequest,
		},
		{
			"unknown doctor",
			gin.H{"doctorId": uuid.New(), "patientId": fx.patient.ID, "date": tomorrowStr(), "startTime": "09:30"},
			http.StatusNotFound,
		},
		{
			"outside working hours",
			gin.H{"doctorId": fx.doctor.ID, "patientId": fx.patient.ID, "date": tomorrowStr(), "startTime": "08:00"},
			http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := fx.do(t, http.MethodPost, "/api/v1/appointments", tt.body)
			assert.Equal(t, tt.code, recorder.Code, recorder.Body.String())
		})
	}
}

func TestCancelAppointmentEndpoint(t *testing.T) {
	fx := newAPIFixture(t)
	appointmentID := fx.bookViaAPI(t, "09:30")

	recorder := fx.do(t, http.MethodDelete, "/api/v1/appointments/"+appointmentID, nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "cancelled", decodeBody(t, recorder)["status"])

	// Повторная отмена
	recorder = fx.do(t, http.MethodDelete, "/api/v1/appointments/"+appointmentID, nil)
	assert.Equal(t, http.StatusNotFound, recorder.Code)

	recorder = fx.do(t, http.MethodDelete, "/api/v1/appointments/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestRescheduleAppointmentEndpoint(t *testing.T) {
	fx := newAPIFixture(t)
	appointmentID := fx.bookViaAPI(t, "09:30")

	recorder := fx.do(t, http.MethodPost, "/api/v1/appointments/"+appointmentID+"/reschedule", gin.H{
		"date":      tomorrowStr(),
		"startTime": "10:00",
	})
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	body := decodeBody(t, recorder)
	assert.Equal(t, "10:00", body["startTime"])
	assert.Equal(t, "scheduled", body["status"])
	assert.NotEqual(t, appointmentID, body["id"])
}

func TestRescheduleAppointmentEndpointErrors(t *testing.T) {
	fx := newAPIFixture(t)
	appointmentID := fx.bookViaAPI(t, "09:30")
	fx.bookViaAPI(t, "10:00")

	// Новое окно занято, запись остается на месте
	recorder := fx.do(t, http.MethodPost, "/api/v1/appointments/"+appointmentID+"/reschedule", gin.H{
		"date":      tomorrowStr(),
		"startTime": "10:00",
	})
	assert.Equal(t, http.StatusConflict, recorder.Code)

	recorder = fx.do(t, http.MethodPost, "/api/v1/appointments/"+uuid.NewString()+"/reschedule", gin.H{
		"date":      tomorrowStr(),
		"startTime": "11:00",
	})
	assert.Equal(t, http.StatusNotFound, recorder.Code)

	recorder = fx.do(t, http.MethodPost, "/api/v1/appointments/"+appointmentID+"/reschedule", gin.H{
		"date": tomorrowStr(),
	})
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}
