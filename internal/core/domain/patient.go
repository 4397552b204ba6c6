package domain

import (
	"time"

	"github.com/google/uuid"
)

type Patient struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	CPF   string    `json:"cpf"`
	Email string    `json:"email"`
	Phone string    `json:"phone"`
}

// PaymentProfile - платежный профиль пациента. Ядро его только читает,
// административные изменения приходят извне и инвалидируют кэш
type PaymentProfile struct {
	PatientID uuid.UUID `json:"patientId"`
	Provider  string    `json:"provider"`
	PlanCode  string    `json:"planCode"`
	CardToken string    `json:"cardToken"`
	UpdatedAt time.Time `json:"updatedAt"`
}
