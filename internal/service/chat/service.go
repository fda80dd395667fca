package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/zhouzirui/medbridge/backend/internal/model/chat"
)

var (
	ErrConversationRequired = errors.New("conversation id is required")
	ErrSummaryPayload       = errors.New("summary message requires a summary payload")
)

// Service is the message store API used by the orchestrator and handlers.
type Service struct {
	store Store
}

// NewService wraps a Store. A nil store selects a fresh MemoryStore.
func NewService(store Store) *Service {
	if store == nil {
		store = NewMemoryStore()
	}
	return &Service{store: store}
}

// ListMessages returns the conversation in insertion order, empty when
// nothing has been appended yet.
func (s *Service) ListMessages(ctx context.Context, conversationID string) ([]chat.Message, error) {
	messages, err := s.store.List(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	if messages == nil {
		messages = []chat.Message{}
	}
	return messages, nil
}

// AppendMessage stores the draft and returns the record with its assigned
// id and timestamp.
func (s *Service) AppendMessage(ctx context.Context, draft chat.Draft) (chat.Message, error) {
	if draft.ConversationID == "" {
		return chat.Message{}, ErrConversationRequired
	}
	if !draft.SenderRole.Valid() {
		return chat.Message{}, chat.ErrInvalidRole
	}
	if draft.IsSummary && draft.Summary == nil {
		return chat.Message{}, ErrSummaryPayload
	}

	message, err := s.store.Append(ctx, draft)
	if err != nil {
		return chat.Message{}, fmt.Errorf("append message: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"conversation_id": message.ConversationID,
		"message_id":      message.ID,
		"sender_role":     message.SenderRole,
		"summary":         message.IsSummary,
	}).Debug("message appended")
	return message, nil
}

// TranscriptText renders eligible messages as "<role>: <text>" lines joined
// by a single newline.
func (s *Service) TranscriptText(ctx context.Context, conversationID string) (string, error) {
	messages, err := s.ListMessages(ctx, conversationID)
	if err != nil {
		return "", err
	}
	return FormatTranscript(messages), nil
}

// FormatTranscript skips summary messages and messages without original text.
func FormatTranscript(messages []chat.Message) string {
	lines := make([]string, 0, len(messages))
	for _, msg := range messages {
		if !msg.Eligible() {
			continue
		}
		lines = append(lines, string(msg.SenderRole)+": "+msg.OriginalText)
	}
	return strings.Join(lines, "\n")
}

// Search filters the conversation to messages whose original or translated
// text contains query, case-insensitively. An empty query returns everything.
func (s *Service) Search(ctx context.Context, conversationID, query string) ([]chat.Message, error) {
	messages, err := s.ListMessages(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return messages, nil
	}

	matched := make([]chat.Message, 0, len(messages))
	for _, msg := range messages {
		if strings.Contains(strings.ToLower(msg.OriginalText), needle) ||
			strings.Contains(strings.ToLower(msg.TranslatedText), needle) {
			matched = append(matched, msg)
		}
	}
	return matched, nil
}

// Seed appends drafts in order, typically the demo opening exchange.
func (s *Service) Seed(ctx context.Context, drafts []chat.Draft) error {
	for _, draft := range drafts {
		if _, err := s.AppendMessage(ctx, draft); err != nil {
			return fmt.Errorf("seed conversation %s: %w", draft.ConversationID, err)
		}
	}
	return nil
}
