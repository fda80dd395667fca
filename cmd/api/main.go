package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/zhouzirui/medbridge/backend/internal/config"
	"github.com/zhouzirui/medbridge/backend/internal/handler"
	"github.com/zhouzirui/medbridge/backend/internal/logging"
	chatModel "github.com/zhouzirui/medbridge/backend/internal/model/chat"
	"github.com/zhouzirui/medbridge/backend/internal/model/language"
	"github.com/zhouzirui/medbridge/backend/internal/service/ai"
	"github.com/zhouzirui/medbridge/backend/internal/service/chat"
	"github.com/zhouzirui/medbridge/backend/internal/service/conversation"
	"github.com/zhouzirui/medbridge/backend/internal/service/notify"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("failed to load configuration: %v", err)
	}

	closer, err := logging.Setup(cfg.Log)
	if err != nil {
		logrus.Fatalf("failed to set up logging: %v", err)
	}
	defer closer.Close()

	if envErr != nil {
		logrus.WithError(envErr).Warn("failed to load .env file, continuing with system environment variables only")
	}

	languages, err := language.NewMemoryStore(language.Seed())
	if err != nil {
		logrus.Fatalf("failed to load language catalog: %v", err)
	}

	chatService := chat.NewService(chat.NewMemoryStore())
	if cfg.Chat.SeedDemo {
		if err := chatService.Seed(ctx, chatModel.DemoSeed(cfg.Chat.ConversationID)); err != nil {
			logrus.Fatalf("failed to seed demo conversation: %v", err)
		}
		logrus.WithField("conversation_id", cfg.Chat.ConversationID).Info("demo conversation seeded")
	}

	hub := notify.NewHub(0)
	deps := conversation.Dependencies{
		Messages:  chatService,
		Languages: languages,
		Notifier:  hub,
	}

	if cfg.AI.Enabled() {
		aiService, err := ai.NewService(ctx, cfg.AI)
		if err != nil {
			logrus.WithError(err).Warn("failed to initialize AI service, continuing without translation or replies")
		} else {
			deps.Translator = aiService.Translator()
			deps.Replies = aiService.ReplyGenerator()
			deps.Summarizer = aiService.Summarizer()
		}
	} else {
		logrus.WithField("provider", cfg.AI.Provider).Warn("model credentials not configured, skipping AI initialization")
	}

	actions, err := conversation.NewService(deps, conversation.Options{
		AutoReply:     cfg.Chat.AutoReply,
		AudioMaxBytes: cfg.Chat.AudioMaxBytes,
	})
	if err != nil {
		logrus.Fatalf("failed to create conversation service: %v", err)
	}

	router := handler.NewRouter(handler.Deps{
		Languages:     languages,
		Messages:      chatService,
		Actions:       actions,
		Hub:           hub,
		AudioMaxBytes: cfg.Chat.AudioMaxBytes,
	})

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	logrus.Infof("MedBridge backend listening on %s", addr)
	if err := runServer(ctx, srv); err != nil {
		logrus.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
