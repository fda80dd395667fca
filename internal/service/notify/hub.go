package notify

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Reasons attached to invalidation events.
const (
	ReasonMessagesAppended = "messages.appended"
	ReasonAudioAppended    = "audio.appended"
	ReasonSummaryAppended  = "summary.appended"
)

// Event tells subscribers that a conversation's message list changed and
// should be fetched again.
type Event struct {
	ConversationID string    `json:"conversationId"`
	Reason         string    `json:"reason"`
	MessageIDs     []string  `json:"messageIds"`
	At             time.Time `json:"at"`
}

const defaultBuffer = 16

// Hub fans events out to per-conversation subscribers. Publish never
// blocks: a subscriber whose buffer is full misses the event.
type Hub struct {
	mu     sync.RWMutex
	subs   map[string]map[*Subscription]struct{}
	buffer int
	now    func() time.Time
}

// NewHub creates a hub whose subscriptions buffer up to buffer events.
func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	return &Hub{
		subs:   make(map[string]map[*Subscription]struct{}),
		buffer: buffer,
		now:    time.Now,
	}
}

// Subscription receives events for one conversation until closed.
type Subscription struct {
	conversationID string
	ch             chan Event
	hub            *Hub
	once           sync.Once
}

// Events is closed when the subscription is closed.
func (s *Subscription) Events() <-chan Event {
	return s.ch
}

func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.remove(s)
	})
}

func (h *Hub) Subscribe(conversationID string) *Subscription {
	sub := &Subscription{
		conversationID: conversationID,
		ch:             make(chan Event, h.buffer),
		hub:            h,
	}

	h.mu.Lock()
	if h.subs[conversationID] == nil {
		h.subs[conversationID] = make(map[*Subscription]struct{})
	}
	h.subs[conversationID][sub] = struct{}{}
	h.mu.Unlock()

	return sub
}

func (h *Hub) remove(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if set, ok := h.subs[sub.conversationID]; ok {
		delete(set, sub)
		if len(set) == 0 {
			delete(h.subs, sub.conversationID)
		}
	}
	close(sub.ch)
}

// Publish delivers ev to every subscriber of its conversation.
func (h *Hub) Publish(ev Event) {
	if ev.At.IsZero() {
		ev.At = h.now()
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.subs[ev.ConversationID] {
		select {
		case sub.ch <- ev:
		default:
			logrus.WithFields(logrus.Fields{
				"conversation_id": ev.ConversationID,
				"reason":          ev.Reason,
			}).Warn("subscriber buffer full, dropping event")
		}
	}
}

// SubscriberCount reports how many subscriptions are open for a conversation.
func (h *Hub) SubscriberCount(conversationID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[conversationID])
}
