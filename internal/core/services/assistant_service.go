package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/clinicore/medical-automation-api/internal/core/domain"
	"github.com/clinicore/medical-automation-api/internal/core/json_types"
	"github.com/clinicore/medical-automation-api/internal/core/ports/in"
	"github.com/clinicore/medical-automation-api/internal/core/ports/out"
	"github.com/google/uuid"
)

const assistantFallbackText = "Desculpe, não entendi. Posso consultar horários, agendar ou cancelar consultas."

// AssistantService превращает распознанные намерения пациента в вызовы
// движка доступности. Ошибки классификатора и транспорта наружу не
// выходят, пациент всегда получает осмысленный текст
type AssistantService struct {
	classifier   out.ClassifierPort
	availability in.AvailabilityUseCase
	logger       out.LoggerPort
}

func NewAssistantService(
	classifier out.ClassifierPort,
	availability in.AvailabilityUseCase,
	logger out.LoggerPort,
) *AssistantService {
	return &AssistantService{
		classifier:   classifier,
		availability: availability,
		logger:       logger.WithModule("assistant_service"),
	}
}

func (s *AssistantService) ProcessMessage(ctx context.Context, patientID uuid.UUID, text string) (*domain.AssistantReply, error) {
	intent, err := s.classifier.Classify(ctx, text)
	if err != nil {
		s.logger.Warn("assistant.classify.failed", out.LogFields{
			"patientId": patientID,
			"error":     err.Error(),
		})
		return fallbackReply(), nil
	}

	s.logger.Debug("assistant.intent", out.LogFields{
		"patientId": patientID,
		"intent":    intent.Name,
		"slots":     intent.Slots,
	})

	switch intent.Name {
	case domain.IntentGreeting:
		return &domain.AssistantReply{
			Text:   "Olá! Posso consultar horários disponíveis, agendar ou cancelar consultas.",
			Intent: domain.IntentGreeting,
		}, nil
	case domain.IntentListSlots:
		return s.replyListSlots(ctx, intent)
	case domain.IntentBook:
		return s.replyBook(ctx, patientID, intent)
	case domain.IntentCancel:
		return s.replyCancel(ctx, intent)
	default:
		return fallbackReply(), nil
	}
}

func (s *AssistantService) replyListSlots(ctx context.Context, intent *domain.Intent) (*domain.AssistantReply, error) {
	doctorID, date, _, err := parseIntentSlots(intent)
	if err != nil {
		return &domain.AssistantReply{
			Text:   "Para ver os horários, informe o médico e a data (AAAA-MM-DD).",
			Intent: domain.IntentListSlots,
		}, nil
	}

	windows, err := s.availability.GetAvailableSlots(ctx, doctorID, date)
	if err != nil {
		return &domain.AssistantReply{
			Text:   availabilityErrorText(err),
			Intent: domain.IntentListSlots,
		}, nil
	}

	if len(windows) == 0 {
		return &domain.AssistantReply{
			Text:   fmt.Sprintf("Nenhum horário livre em %s.", date),
			Intent: domain.IntentListSlots,
		}, nil
	}

	items := make([]string, 0, len(windows))
	for _, window := range windows {
		items = append(items, window.String())
	}

	return &domain.AssistantReply{
		Text:   fmt.Sprintf("Horários livres em %s: %s.", date, strings.Join(items, ", ")),
		Intent: domain.IntentListSlots,
	}, nil
}

func (s *AssistantService) replyBook(ctx context.Context, patientID uuid.UUID, intent *domain.Intent) (*domain.AssistantReply, error) {
	doctorID, date, start, err := parseIntentSlots(intent)
	if err != nil || intent.Slots[domain.IntentSlotTime] == "" {
		return &domain.AssistantReply{
			Text:   "Para agendar, informe o médico, a data (AAAA-MM-DD) e o horário (HH:MM).",
			Intent: domain.IntentBook,
		}, nil
	}

	appointment, err := s.availability.BookAppointment(ctx, in.BookAppointmentParams{
		DoctorID:  doctorID,
		PatientID: patientID,
		Date:      date,
		StartTime: start,
	})
	if err != nil {
		return &domain.AssistantReply{
			Text:   availabilityErrorText(err),
			Intent: domain.IntentBook,
		}, nil
	}

	return &domain.AssistantReply{
		Text: fmt.Sprintf("Consulta confirmada para %s às %s. Código: %s.",
			appointment.Date, appointment.StartTime, appointment.ID),
		Intent: domain.IntentBook,
	}, nil
}

func (s *AssistantService) replyCancel(ctx context.Context, intent *domain.Intent) (*domain.AssistantReply, error) {
	appointmentID, err := uuid.Parse(intent.Slots[domain.IntentSlotAppointmentID])
	if err != nil {
		return &domain.AssistantReply{
			Text:   "Para cancelar, informe o código da consulta.",
			Intent: domain.IntentCancel,
		}, nil
	}

	if err := s.availability.CancelAppointment(ctx, appointmentID); err != nil {
		return &domain.AssistantReply{
			Text:   availabilityErrorText(err),
			Intent: domain.IntentCancel,
		}, nil
	}

	return &domain.AssistantReply{
		Text:   "Consulta cancelada com sucesso.",
		Intent: domain.IntentCancel,
	}, nil
}

func parseIntentSlots(intent *domain.Intent) (uuid.UUID, json_types.Date, json_types.TimeOfDay, error) {
	doctorID, err := uuid.Parse(intent.Slots[domain.IntentSlotDoctorID])
	if err != nil {
		return uuid.Nil, json_types.Date{}, json_types.TimeOfDay{}, err
	}

	date, err := json_types.ParseDate(intent.Slots[domain.IntentSlotDate])
	if err != nil {
		return uuid.Nil, json_types.Date{}, json_types.TimeOfDay{}, err
	}

	start := json_types.TimeOfDay{}
	if raw := intent.Slots[domain.IntentSlotTime]; raw != "" {
		start, err = json_types.ParseTimeOfDay(raw)
		if err != nil {
			return uuid.Nil, json_types.Date{}, json_types.TimeOfDay{}, err
		}
	}

	return doctorID, date, start, nil
}

func availabilityErrorText(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return "Não encontrei esse registro. Confira os dados informados."
	case errors.Is(err, domain.ErrConflict):
		return "Esse horário não está disponível. Escolha outro, por favor."
	case errors.Is(err, domain.ErrInvalidArgument):
		return "Data ou horário inválido. Use os formatos AAAA-MM-DD e HH:MM."
	default:
		return "Não consegui concluir a operação agora. Tente novamente em instantes."
	}
}

func fallbackReply() *domain.AssistantReply {
	return &domain.AssistantReply{
		Text:   assistantFallbackText,
		Intent: domain.IntentUnknown,
	}
}
