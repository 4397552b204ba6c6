package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusMetrics держит собственный Registry, поэтому несколько
// экземпляров в одном процессе не конфликтуют регистрацией
type PrometheusMetrics struct {
	registry *prometheus.Registry

	cacheOps     *prometheus.CounterVec
	cacheHealthy prometheus.Gauge
	appointments *prometheus.CounterVec
}

func NewPrometheusMetrics() *PrometheusMetrics {
	registry := prometheus.NewRegistry()

	cacheOps := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "clinic",
		Subsystem: "cache",
		Name:      "operations_total",
		Help:      "Cache operations by outcome.",
	}, []string{"outcome"})

	cacheHealthy := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "clinic",
		Subsystem: "cache",
		Name:      "healthy",
		Help:      "1 if the cache backend passed the last probe.",
	})

	appointments := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "clinic",
		Subsystem: "appointments",
		Name:      "events_total",
		Help:      "Appointment lifecycle events.",
	}, []string{"event"})

	registry.MustRegister(cacheOps, cacheHealthy, appointments)

	return &PrometheusMetrics{
		registry:     registry,
		cacheOps:     cacheOps,
		cacheHealthy: cacheHealthy,
		appointments: appointments,
	}
}

func (m *PrometheusMetrics) IncCacheHit()  { m.cacheOps.WithLabelValues("hit").Inc() }
func (m *PrometheusMetrics) IncCacheMiss() { m.cacheOps.WithLabelValues("miss").Inc() }
func (m *PrometheusMetrics) IncCacheSet()  { m.cacheOps.WithLabelValues("set").Inc() }

func (m *PrometheusMetrics) IncCacheError() {
	m.cacheOps.WithLabelValues("error").Inc()
}

func (m *PrometheusMetrics) SetCacheHealthy(healthy bool) {
	if healthy {
		m.cacheHealthy.Set(1)
		return
	}
	m.cacheHealthy.Set(0)
}

func (m *PrometheusMetrics) IncAppointmentBooked() {
	m.appointments.WithLabelValues("booked").Inc()
}

func (m *PrometheusMetrics) IncAppointmentCancelled() {
	m.appointments.WithLabelValues("cancelled").Inc()
}

func (m *PrometheusMetrics) IncAppointmentRescheduled() {
	m.appointments.WithLabelValues("rescheduled").Inc()
}

// Handler отдает метрики этого реестра
func (m *PrometheusMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
