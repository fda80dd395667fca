package chat

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zhouzirui/medbridge/backend/internal/model/chat"
)

// Store is the storage capability the rest of the backend depends on:
// append, and list by conversation.
type Store interface {
	Append(ctx context.Context, draft chat.Draft) (chat.Message, error)
	List(ctx context.Context, conversationID string) ([]chat.Message, error)
}

// MemoryStore keeps messages in process memory. Restarting clears it.
type MemoryStore struct {
	mu       sync.RWMutex
	messages map[string][]chat.Message
	last     time.Time
	now      func() time.Time
	newID    func() string
}

// NewMemoryStore bootstraps an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		messages: make(map[string][]chat.Message),
		now:      func() time.Time { return time.Now().UTC() },
		newID:    uuid.NewString,
	}
}

// Append assigns a fresh id and timestamp and appends the message.
func (s *MemoryStore) Append(_ context.Context, draft chat.Draft) (chat.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// wall clocks can step backwards; keep createdAt in insertion order
	createdAt := s.now()
	if createdAt.Before(s.last) {
		createdAt = s.last
	}
	s.last = createdAt

	message := chat.Message{
		ID:             s.newID(),
		ConversationID: draft.ConversationID,
		SenderRole:     draft.SenderRole,
		OriginalText:   draft.OriginalText,
		TranslatedText: draft.TranslatedText,
		AudioURL:       draft.AudioURL,
		CreatedAt:      createdAt,
		IsSummary:      draft.IsSummary,
		Summary:        copySummary(draft.Summary),
	}

	s.messages[draft.ConversationID] = append(s.messages[draft.ConversationID], message)
	return message, nil
}

// List returns a copy of the conversation's messages in insertion order.
func (s *MemoryStore) List(_ context.Context, conversationID string) ([]chat.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	messages := s.messages[conversationID]
	copied := make([]chat.Message, len(messages))
	copy(copied, messages)
	return copied, nil
}

func copySummary(summary *chat.Summary) *chat.Summary {
	if summary == nil {
		return nil
	}
	clone := *summary
	return &clone
}
