package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/zhouzirui/medbridge/backend/internal/handler/chat"
	"github.com/zhouzirui/medbridge/backend/internal/handler/language"
	"github.com/zhouzirui/medbridge/backend/internal/handler/stream"
	middlewarePkg "github.com/zhouzirui/medbridge/backend/internal/middleware"
	languageModel "github.com/zhouzirui/medbridge/backend/internal/model/language"
	chatService "github.com/zhouzirui/medbridge/backend/internal/service/chat"
	"github.com/zhouzirui/medbridge/backend/internal/service/notify"
	"github.com/zhouzirui/medbridge/backend/pkg/utils"
)

// Deps are the services the HTTP layer is wired to.
type Deps struct {
	Languages     languageModel.Store
	Messages      *chatService.Service
	Actions       chat.Orchestrator
	Hub           *notify.Hub
	AudioMaxBytes int64
}

// NewRouter wires HTTP routes to core services.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middlewarePkg.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewarePkg.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	languageHandler := language.New(deps.Languages)
	chatHandler := chat.New(deps.Messages, deps.Actions, deps.AudioMaxBytes)
	streamHandler := stream.New(deps.Hub)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(api chi.Router) {
		languageHandler.RegisterRoutes(api)

		api.Route("/conversations/{conversationID}", func(conv chi.Router) {
			chatHandler.RegisterRoutes(conv)
			streamHandler.RegisterRoutes(conv)
		})
	})

	return r
}
