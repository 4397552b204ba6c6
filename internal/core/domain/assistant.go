package domain

type IntentName string

const (
	IntentGreeting  IntentName = "greeting"
	IntentListSlots IntentName = "list_slots"
	IntentBook      IntentName = "book_appointment"
	IntentCancel    IntentName = "cancel_appointment"
	IntentUnknown   IntentName = "unknown"
)

// Ключи извлекаемых из текста параметров
const (
	IntentSlotDoctorID      = "doctor_id"
	IntentSlotAppointmentID = "appointment_id"
	IntentSlotDate          = "date"
	IntentSlotTime          = "time"
)

// Intent - распознанное намерение пользователя с извлеченными параметрами
type Intent struct {
	Name  IntentName        `json:"name"`
	Slots map[string]string `json:"slots"`
}

type AssistantReply struct {
	Text   string     `json:"text"`
	Intent IntentName `json:"intent"`
}
