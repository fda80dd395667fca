package ai

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// openAIChatModel adapts the OpenAI chat completions API to eino's
// BaseChatModel so the same chains run against either provider. Responses
// are requested in JSON-object mode.
type openAIChatModel struct {
	client      openai.Client
	model       string
	temperature *float64
	maxTokens   *int
}

func newOpenAIChatModel(apiKey, baseURL, modelName string, temperature *float64, maxTokens *int) (*openAIChatModel, error) {
	if apiKey == "" {
		return nil, errors.New("OPENAI_API_KEY is required")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		// retries are owned by Policy
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	if modelName == "" {
		modelName = "gpt-4o-mini"
	}

	return &openAIChatModel{
		client:      openai.NewClient(opts...),
		model:       modelName,
		temperature: temperature,
		maxTokens:   maxTokens,
	}, nil
}

func (m *openAIChatModel) Generate(ctx context.Context, input []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	params := openai.ChatCompletionNewParams{
		Model:    m.model,
		Messages: convertMessages(input),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &openai.ResponseFormatJSONObjectParam{},
		},
	}
	if m.temperature != nil {
		params.Temperature = openai.Float(*m.temperature)
	}
	if m.maxTokens != nil {
		params.MaxTokens = openai.Int(int64(*m.maxTokens))
	}

	resp, err := m.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai chat: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response")
	}

	choice := resp.Choices[0]
	return &schema.Message{
		Role:    schema.Assistant,
		Content: choice.Message.Content,
		ResponseMeta: &schema.ResponseMeta{
			FinishReason: string(choice.FinishReason),
			Usage: &schema.TokenUsage{
				PromptTokens:     int(resp.Usage.PromptTokens),
				CompletionTokens: int(resp.Usage.CompletionTokens),
				TotalTokens:      int(resp.Usage.TotalTokens),
			},
		},
	}, nil
}

// Stream yields the complete response as a single chunk.
func (m *openAIChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := m.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

func convertMessages(input []*schema.Message) []openai.ChatCompletionMessageParamUnion {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(input))
	for _, msg := range input {
		if msg == nil {
			continue
		}
		switch msg.Role {
		case schema.System:
			messages = append(messages, openai.SystemMessage(msg.Content))
		case schema.Assistant:
			messages = append(messages, openai.AssistantMessage(msg.Content))
		default:
			messages = append(messages, openai.UserMessage(msg.Content))
		}
	}
	return messages
}
