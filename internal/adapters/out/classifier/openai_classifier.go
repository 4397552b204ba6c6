package classifier

import (
	"context"
	"encoding/json"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/clinicore/medical-automation-api/internal/core/domain"
	"github.com/clinicore/medical-automation-api/internal/core/ports/out"
)

const classifierSystemPrompt = `You classify patient messages for a clinic scheduling assistant.
Reply with a JSON object: {"name": "<intent>", "slots": {...}}.
Intents: greeting, list_slots, book_appointment, cancel_appointment, unknown.
Slots (include only those present in the message): doctor_id (UUID),
appointment_id (UUID), date (YYYY-MM-DD), time (HH:MM).`

// OpenAIClassifier распознает намерения через chat completion.
// Ошибки транспорта отдаются наверх, фоллбэк выбирает сервис
type OpenAIClassifier struct {
	client *openai.Client
	model  string
	logger out.LoggerPort
}

func NewOpenAIClassifier(apiKey string, model string, logger out.LoggerPort) *OpenAIClassifier {
	return &OpenAIClassifier{
		client: openai.NewClient(apiKey),
		model:  model,
		logger: logger.WithModule("openai_classifier"),
	}
}

func (c *OpenAIClassifier) Classify(ctx context.Context, text string) (*domain.Intent, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: 0,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: classifierSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
	})
	if err != nil {
		c.logger.Warn("classifier.completion.failed", out.LogFields{
			"error": err.Error(),
		})
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty completion response")
	}

	var intent domain.Intent
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &intent); err != nil {
		c.logger.Warn("classifier.completion.malformed", out.LogFields{
			"content": resp.Choices[0].Message.Content,
			"error":   err.Error(),
		})
		return nil, err
	}

	if intent.Slots == nil {
		intent.Slots = make(map[string]string)
	}
	if !knownIntent(intent.Name) {
		intent.Name = domain.IntentUnknown
	}

	return &intent, nil
}

func knownIntent(name domain.IntentName) bool {
	switch name {
	case domain.IntentGreeting, domain.IntentListSlots, domain.IntentBook, domain.IntentCancel, domain.IntentUnknown:
		return true
	default:
		return false
	}
}
