package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthEndpoint(t *testing.T) {
	fx := newAPIFixture(t)

	recorder := fx.do(t, http.MethodGet, "/api/v1/health", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	body := decodeBody(t, recorder)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "test", body["version"])
	// Кэш в фикстуре выключен, на готовность это не влияет
	assert.Equal(t, false, body["cacheHealthy"])
}

func TestStatsEndpoint(t *testing.T) {
	fx := newAPIFixture(t)

	// Несколько чтений без кэша дают только промахи
	fx.do(t, http.MethodGet, "/api/v1/doctors/"+fx.doctor.ID.String()+"/slots?date="+tomorrowStr(), nil)
	fx.do(t, http.MethodGet, "/api/v1/doctors/"+fx.doctor.ID.String()+"/slots?date="+tomorrowStr(), nil)

	recorder := fx.do(t, http.MethodGet, "/api/v1/stats", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	body := decodeBody(t, recorder)
	assert.Equal(t, float64(0), body["hits"])
	assert.Equal(t, float64(2), body["misses"])
	assert.Equal(t, float64(0), body["sets"])
	assert.Equal(t, false, body["healthy"])
}
