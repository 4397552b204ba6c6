package http

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doctorBody() gin.H {
	return gin.H{
		"name":                "Dr. Paulo Mendes",
		"specialty":           "dermatology",
		"slotDurationMinutes": 20,
		"workingHours": gin.H{
			"mon": []gin.H{{"start": "08:00", "end": "11:00"}},
			"wed": []gin.H{{"start": "14:00", "end": "18:00"}},
		},
	}
}

func TestCreateDoctorEndpoint(t *testing.T) {
	fx := newAPIFixture(t)

	recorder := fx.do(t, http.MethodPost, "/api/v1/doctors", doctorBody())
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	body := decodeBody(t, recorder)
	assert.NotEmpty(t, body["id"])
	assert.Equal(t, "Dr. Paulo Mendes", body["name"])

	// Созданный врач сразу доступен по идентификатору
	recorder = fx.do(t, http.MethodGet, "/api/v1/doctors/"+body["id"].(string), nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "dermatology", decodeBody(t, recorder)["specialty"])
}

func TestCreateDoctorEndpointValidation(t *testing.T) {
	fx := newAPIFixture(t)

	unknownWeekday := doctorBody()
	unknownWeekday["workingHours"] = gin.H{
		"monday": []gin.H{{"start": "08:00", "end": "11:00"}},
	}

	badTime := doctorBody()
	badTime["workingHours"] = gin.H{
		"mon": []gin.H{{"start": "8am", "end": "11:00"}},
	}

	missingDuration := doctorBody()
	delete(missingDuration, "slotDurationMinutes")

	invertedWindow := doctorBody()
	invertedWindow["workingHours"] = gin.H{
		"mon": []gin.H{{"start": "11:00", "end": "08:00"}},
	}

	tests := []struct {
		name     string
		body     gin.H
		errPiece string
	}{
		{"unknown weekday key", unknownWeekday, "unknown weekday"},
		{"bad time format", badTime, "failed to parse time"},
		{"missing slot duration", missingDuration, "SlotDurationMinutes"},
		{"inverted window", invertedWindow, "is empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := fx.do(t, http.MethodPost, "/api/v1/doctors", tt.body)
			require.Equal(t, http.StatusBadRequest, recorder.Code)
			assert.Contains(t, recorder.Body.String(), tt.errPiece)
		})
	}
}

func TestListDoctorsEndpoint(t *testing.T) {
	fx := newAPIFixture(t)

	recorder := fx.do(t, http.MethodGet, "/api/v1/doctors", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	doctors, ok := decodeBody(t, recorder)["doctors"].([]any)
	require.True(t, ok)
	require.Len(t, doctors, 1)
}

func TestGetDoctorEndpointErrors(t *testing.T) {
	fx := newAPIFixture(t)

	recorder := fx.do(t, http.MethodGet, "/api/v1/doctors/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	recorder = fx.do(t, http.MethodGet, "/api/v1/doctors/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestUpdateDoctorEndpoint(t *testing.T) {
	fx := newAPIFixture(t)

	body := doctorBody()
	body["name"] = "Dr. Ana Souza Filha"

	recorder := fx.do(t, http.MethodPut, "/api/v1/doctors/"+fx.doctor.ID.String(), body)
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	// Идентификатор берется из пути, тело его не задает
	updated := decodeBody(t, recorder)
	assert.Equal(t, fx.doctor.ID.String(), updated["id"])
	assert.Equal(t, "Dr. Ana Souza Filha", updated["name"])

	recorder = fx.do(t, http.MethodPut, "/api/v1/doctors/"+uuid.NewString(), doctorBody())
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}
