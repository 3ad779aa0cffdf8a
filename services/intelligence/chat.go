package intelligence

import (
	"context"
	"fmt"
	"strings"

	"citaflow/models"
	"citaflow/services/dialogue"
	"citaflow/utils"

	"go.uber.org/zap"
)

const fallbackReply = "¡Hola! 👋 Soy el asistente de citas de la institución. Escribe *agendar* para programar una cita, *cancelar cita* para cancelarla o *mis citas* para consultarlas."

const chatPreamble = `Eres el asistente virtual de una institución educativa por WhatsApp.
Ayudas a padres de familia a agendar, cancelar y consultar citas con los docentes.
Responde en español, en máximo tres frases, con un tono amable.
Si la persona quiere una cita, recuérdale que puede escribir "agendar".
No inventes fechas, docentes ni datos de la institución.`

// ChatService is the front door for every inbound message: it routes
// to the active flow, opens one from a detected intent, or answers
// small talk with the model.
type ChatService interface {
	Respond(ctx context.Context, contact, text string) (string, error)
}

// Generator produces one model completion for a prompt. *GeminiClient
// satisfies it; tests substitute a canned one.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

type DefaultChatService struct {
	Dialogue dialogue.DialogueService
	History  *RedisChatStore
	Gemini   Generator // nil disables model small talk and classification
}

func (s *DefaultChatService) Respond(ctx context.Context, contact, text string) (string, error) {
	reply, active, err := s.Dialogue.HandleTurn(ctx, contact, text)
	if err != nil {
		return "", err
	}
	if active {
		return reply, nil
	}

	intent := DetectIntent(text)
	if intent == IntentChat && MentionsAppointment(text) {
		intent = s.classifyIntent(ctx, contact, text)
	}
	switch intent {
	case IntentSchedule:
		return s.Dialogue.BeginBooking(ctx, contact)
	case IntentCancel:
		return s.Dialogue.BeginCancellation(ctx, contact)
	case IntentList:
		return s.Dialogue.ListAppointments(ctx, contact)
	case IntentReschedule:
		return s.Dialogue.Reschedule(ctx, contact, text)
	default:
		return s.smallTalk(ctx, contact, text), nil
	}
}

// classifyIntent asks the model to disambiguate a message that talks
// about a cita without an explicit verb ("ya no quiero la cita").
// Without a model, or on any failure, it reads as a scheduling
// request so those contacts still land in a flow.
func (s *DefaultChatService) classifyIntent(ctx context.Context, contact, text string) Intent {
	if s.Gemini == nil {
		return IntentSchedule
	}
	raw, err := s.Gemini.GenerateContent(ctx, fmt.Sprintf(intentPrompt, text))
	if err != nil {
		utils.GetLogger().Warn("intent classification failed, assuming schedule",
			zap.String("contact", contact), zap.Error(err))
		return IntentSchedule
	}
	intent, ok := parseIntentReply(raw)
	if !ok {
		utils.GetLogger().Warn("unparseable intent reply, assuming schedule",
			zap.String("contact", contact), zap.String("reply", raw))
		return IntentSchedule
	}
	return intent
}

// smallTalk never fails the turn: any model or store problem degrades
// to the static greeting.
func (s *DefaultChatService) smallTalk(ctx context.Context, contact, text string) string {
	if s.Gemini == nil {
		return fallbackReply
	}
	logger := utils.GetLogger().With(zap.String("contact", contact))

	var history *models.ChatContext
	if s.History != nil {
		var err error
		history, err = s.History.Get(ctx, contact)
		if err != nil {
			logger.Warn("failed to load chat history", zap.Error(err))
			history = &models.ChatContext{}
		}
	} else {
		history = &models.ChatContext{}
	}

	var prompt strings.Builder
	prompt.WriteString(chatPreamble)
	prompt.WriteString("\n\nConversación:\n")
	for _, m := range history.Messages {
		fmt.Fprintf(&prompt, "%s: %s\n", m.Role, m.Content)
	}
	fmt.Fprintf(&prompt, "usuario: %s\nasistente:", text)

	answer, err := s.Gemini.GenerateContent(ctx, prompt.String())
	if err != nil {
		logger.Warn("model reply failed, using fallback", zap.Error(err))
		return fallbackReply
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return fallbackReply
	}

	if s.History != nil {
		if err := s.History.Append(ctx, contact,
			models.ChatMessage{Role: "usuario", Content: text},
			models.ChatMessage{Role: "asistente", Content: answer},
		); err != nil {
			logger.Warn("failed to persist chat history", zap.Error(err))
		}
	}
	return answer
}
