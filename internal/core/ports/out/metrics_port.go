package out

// MetricsPort - экспорт метрик для скрейпинга. Снимок для getStats
// менеджер кэша ведет сам на атомарных счетчиках
type MetricsPort interface {
	IncCacheHit()
	IncCacheMiss()
	IncCacheSet()
	IncCacheError()
	SetCacheHealthy(healthy bool)

	IncAppointmentBooked()
	IncAppointmentCancelled()
	IncAppointmentRescheduled()
}
