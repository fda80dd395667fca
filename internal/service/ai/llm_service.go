package ai

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/sirupsen/logrus"

	"github.com/zhouzirui/medbridge/backend/internal/config"
)

// Service bundles the three model-backed flows over one chat model.
type Service struct {
	translator *Translator
	replies    *ReplyGenerator
	summarizer *Summarizer
}

// NewChatModel builds the chat model for the configured provider.
func NewChatModel(ctx context.Context, cfg config.AIConfig) (model.BaseChatModel, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		chatModel, err := newOpenAIChatModel(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel, cfg.Temperature, cfg.MaxTokens)
		if err != nil {
			return nil, err
		}
		return chatModel, nil
	default:
		return cfg.NewArkChatModel(ctx)
	}
}

// PolicyFrom maps configuration onto the model call policy.
func PolicyFrom(cfg config.AIConfig) Policy {
	return Policy{
		Timeout:     cfg.Timeout,
		MaxAttempts: cfg.MaxAttempts,
		Backoff:     cfg.RetryBackoff,
	}
}

// NewService creates the provider's chat model and compiles every flow.
func NewService(ctx context.Context, cfg config.AIConfig) (*Service, error) {
	chatModel, err := NewChatModel(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}

	svc, err := NewServiceWithModel(ctx, chatModel, PolicyFrom(cfg))
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"provider":     cfg.Provider,
		"timeout":      cfg.Timeout,
		"max_attempts": cfg.MaxAttempts,
	}).Info("ai service initialized")
	return svc, nil
}

// NewServiceWithModel compiles every flow over an existing chat model.
func NewServiceWithModel(ctx context.Context, chatModel model.BaseChatModel, policy Policy) (*Service, error) {
	translator, err := NewTranslator(ctx, chatModel, policy)
	if err != nil {
		return nil, err
	}
	replies, err := NewReplyGenerator(ctx, chatModel, policy)
	if err != nil {
		return nil, err
	}
	summarizer, err := NewSummarizer(ctx, chatModel, policy)
	if err != nil {
		return nil, err
	}

	return &Service{
		translator: translator,
		replies:    replies,
		summarizer: summarizer,
	}, nil
}

func (s *Service) Translator() *Translator { return s.translator }

func (s *Service) ReplyGenerator() *ReplyGenerator { return s.replies }

func (s *Service) Summarizer() *Summarizer { return s.summarizer }
