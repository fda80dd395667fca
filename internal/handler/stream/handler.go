package stream

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/zhouzirui/medbridge/backend/internal/service/notify"
	"github.com/zhouzirui/medbridge/backend/pkg/utils"
)

const (
	eventConnected  = "connected"
	eventInvalidate = "invalidate"
)

// Handler pushes invalidation events to the UI over SSE or websocket, so
// clients refetch the message list after each action.
type Handler struct {
	hub       *notify.Hub
	keepAlive time.Duration
	upgrader  websocket.Upgrader
}

func New(hub *notify.Hub) *Handler {
	return &Handler{
		hub:       hub,
		keepAlive: 25 * time.Second,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes mounts the routes on a router scoped to
// /conversations/{conversationID}.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/events", h.handleEvents)
	r.Get("/ws", h.handleWebSocket)
}

func (h *Handler) handleEvents(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversationID")

	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	sub := h.hub.Subscribe(conversationID)
	defer sub.Close()

	utils.SetupSSEHeaders(w)
	w.WriteHeader(http.StatusOK)

	log := logrus.WithField("conversation_id", conversationID)
	log.Debug("sse subscriber connected")

	if err := utils.SendSSEEvent(w, flusher, eventConnected, map[string]string{"conversationId": conversationID}); err != nil {
		return
	}

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			log.Debug("sse subscriber disconnected")
			return
		case ev, ok := <-sub.Events():
			if !ok {
				return
			}
			if err := utils.SendSSEEvent(w, flusher, eventInvalidate, ev); err != nil {
				log.WithError(err).Debug("sse write failed")
				return
			}
		case <-ticker.C:
			if err := utils.SendSSEComment(w, flusher, "keep-alive"); err != nil {
				return
			}
		}
	}
}
