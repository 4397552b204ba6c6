package domain

import (
	"github.com/clinicore/medical-automation-api/internal/core/json_types"
	"github.com/google/uuid"
)

// Пространства имён ключей кэша. Полный ключ имеет вид
// {namespace}:{identifier}
const (
	CacheNamespacePatients     = "patients"
	CacheNamespaceDoctors      = "doctors"
	CacheNamespaceAvailability = "availability"
	CacheNamespacePaymentInfo  = "payment-info"
)

// AvailabilityCacheKey - идентификатор записи внутри пространства
// CacheNamespaceAvailability, вида {doctorId}:{YYYY-MM-DD}.
// Формат общий для сервиса доступности и слушателя инвалидации
func AvailabilityCacheKey(doctorID uuid.UUID, date json_types.Date) string {
	return doctorID.String() + ":" + date.String()
}
