package classifier

import (
	"context"
	"regexp"
	"strings"

	"github.com/clinicore/medical-automation-api/internal/core/domain"
	"github.com/clinicore/medical-automation-api/internal/core/ports/out"
)

var (
	uuidPattern = regexp.MustCompile(`[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`)
	datePattern = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
	timePattern = regexp.MustCompile(`([01]?[0-9]|2[0-3]):[0-5][0-9]`)
)

var (
	greetingWords = []string{"oi", "olá", "ola", "bom dia", "boa tarde", "boa noite", "hello", "hi"}
	cancelWords   = []string{"cancelar", "desmarcar", "cancel"}
	bookWords     = []string{"agendar", "marcar", "agende", "book"}
	listWords     = []string{"horários", "horarios", "disponível", "disponivel", "livres", "slots", "available"}
)

// RulesClassifier - классификатор по ключевым словам, работает без
// внешних сервисов. Идентификаторы, даты и время вытаскиваются из
// текста регулярными выражениями
type RulesClassifier struct {
	logger out.LoggerPort
}

func NewRulesClassifier(logger out.LoggerPort) *RulesClassifier {
	return &RulesClassifier{
		logger: logger.WithModule("rules_classifier"),
	}
}

func (c *RulesClassifier) Classify(ctx context.Context, text string) (*domain.Intent, error) {
	lower := strings.ToLower(text)

	slots := make(map[string]string)
	if match := datePattern.FindString(text); match != "" {
		slots[domain.IntentSlotDate] = match
	}
	if match := timePattern.FindString(text); match != "" {
		slots[domain.IntentSlotTime] = match
	}

	// Порядок важен: запрос "cancelar" может содержать и слова
	// приветствия, отмена и бронирование проверяются первыми
	switch {
	case containsAny(lower, cancelWords):
		if match := uuidPattern.FindString(text); match != "" {
			slots[domain.IntentSlotAppointmentID] = match
		}
		return &domain.Intent{Name: domain.IntentCancel, Slots: slots}, nil
	case containsAny(lower, bookWords):
		if match := uuidPattern.FindString(text); match != "" {
			slots[domain.IntentSlotDoctorID] = match
		}
		return &domain.Intent{Name: domain.IntentBook, Slots: slots}, nil
	case containsAny(lower, listWords):
		if match := uuidPattern.FindString(text); match != "" {
			slots[domain.IntentSlotDoctorID] = match
		}
		return &domain.Intent{Name: domain.IntentListSlots, Slots: slots}, nil
	case containsAny(lower, greetingWords):
		return &domain.Intent{Name: domain.IntentGreeting, Slots: slots}, nil
	default:
		return &domain.Intent{Name: domain.IntentUnknown, Slots: slots}, nil
	}
}

func containsAny(text string, words []string) bool {
	for _, word := range words {
		if strings.Contains(text, word) {
			return true
		}
	}

	return false
}
