package chat

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/moodcal/moodcal-api/internal/apperr"
	"github.com/moodcal/moodcal-api/internal/services/ai"
)

// HistoryWindow caps how many prior messages are replayed to the model.
const HistoryWindow = 20

// Service runs the conversational companion: each message goes to the model
// together with the user's recent history, and both sides of the exchange
// are stored.
type Service struct {
	generator ai.TextGenerator
	history   HistoryStore
	logger    *zap.Logger
	now       func() time.Time
}

// NewService creates a new chat service.
func NewService(generator ai.TextGenerator, history HistoryStore, log *zap.Logger) *Service {
	return &Service{
		generator: generator,
		history:   history,
		logger:    log,
		now:       time.Now,
	}
}

// Send forwards a user message to the model and returns the reply. The user
// message is stored before the model call so a model failure still leaves
// the user's side of the conversation on record.
func (s *Service) Send(ctx context.Context, userID, text string) (string, error) {
	if text == "" {
		return "", apperr.New(apperr.Validation, "message must not be empty")
	}

	past, err := s.history.History(ctx, userID, HistoryWindow)
	if err != nil {
		return "", err
	}

	userMsg := Message{Role: "user", Content: text, SentAt: s.now()}
	if err := s.history.Append(ctx, userID, userMsg); err != nil {
		return "", err
	}

	messages := make([]ai.ChatMessage, 0, len(past)+1)
	for _, msg := range past {
		messages = append(messages, ai.ChatMessage{Role: msg.Role, Content: msg.Content})
	}
	messages = append(messages, ai.ChatMessage{Role: "user", Content: text})

	reply, err := s.generator.Chat(ctx, ai.ChatbotInstruction, messages)
	if err != nil {
		return "", apperr.Wrap(apperr.Upstream, "chat generation failed", err)
	}

	assistantMsg := Message{Role: "assistant", Content: reply, SentAt: s.now()}
	if err := s.history.Append(ctx, userID, assistantMsg); err != nil {
		// The reply already exists; losing its history record is not worth
		// failing the request over.
		s.logger.Warn("chat_history_append_failed",
			zap.String("role", "assistant"),
			zap.Error(err),
		)
	}

	return reply, nil
}

// History returns the user's recent conversation.
func (s *Service) History(ctx context.Context, userID string, limit int) ([]Message, error) {
	if limit <= 0 {
		limit = HistoryWindow
	}
	return s.history.History(ctx, userID, limit)
}
