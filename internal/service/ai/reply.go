package ai

import (
	"context"

	"github.com/cloudwego/eino/components/model"

	"github.com/zhouzirui/medbridge/backend/internal/model/chat"
)

type replyOutput struct {
	ReplyText *string `json:"replyText" jsonschema_description:"The generated reply text." validate:"required"`
}

// ReplyGenerator speaks for the participant who did not send the last message.
type ReplyGenerator struct {
	flow *structuredFlow[replyOutput]
}

// NewReplyGenerator compiles the reply chain over chatModel.
func NewReplyGenerator(ctx context.Context, chatModel model.BaseChatModel, policy Policy) (*ReplyGenerator, error) {
	flow, err := newStructuredFlow[replyOutput](ctx, "reply", chatModel, replySystemPrompt, replyUserPrompt, policy)
	if err != nil {
		return nil, err
	}
	return &ReplyGenerator{flow: flow}, nil
}

// GenerateReply returns one candidate utterance in responderLanguage. The
// output is not deterministic across calls.
func (g *ReplyGenerator) GenerateReply(ctx context.Context, transcript, currentMessage string, senderRole, responderRole chat.Role, responderLanguage string) (string, error) {
	out, err := g.flow.run(ctx, map[string]any{
		"transcript":         transcript,
		"current_message":    currentMessage,
		"sender_role":        string(senderRole),
		"responder_role":     string(responderRole),
		"responder_language": responderLanguage,
	})
	if err != nil {
		return "", err
	}
	return *out.ReplyText, nil
}
