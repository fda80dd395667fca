package ai

import (
	"context"

	"github.com/cloudwego/eino/components/model"

	"github.com/zhouzirui/medbridge/backend/internal/model/chat"
)

// Pointers let validation require each field's presence while still
// accepting empty or placeholder strings.
type summaryOutput struct {
	Symptoms    *string `json:"symptoms" jsonschema_description:"A list of symptoms discussed in the conversation." validate:"required"`
	Diagnosis   *string `json:"diagnosis" jsonschema_description:"The diagnosis, if any, mentioned in the conversation." validate:"required"`
	Medications *string `json:"medications" jsonschema_description:"A list of medications mentioned in the conversation." validate:"required"`
	FollowUp    *string `json:"followUp" jsonschema_description:"Recommended follow-up actions based on the conversation." validate:"required"`
}

// Summarizer extracts a structured clinical summary from a transcript.
type Summarizer struct {
	flow *structuredFlow[summaryOutput]
}

// NewSummarizer compiles the summary chain over chatModel.
func NewSummarizer(ctx context.Context, chatModel model.BaseChatModel, policy Policy) (*Summarizer, error) {
	flow, err := newStructuredFlow[summaryOutput](ctx, "summarize", chatModel, summarySystemPrompt, summaryUserPrompt, policy)
	if err != nil {
		return nil, err
	}
	return &Summarizer{flow: flow}, nil
}

func (s *Summarizer) Summarize(ctx context.Context, transcript string) (chat.Summary, error) {
	out, err := s.flow.run(ctx, map[string]any{"transcript": transcript})
	if err != nil {
		return chat.Summary{}, err
	}
	return chat.Summary{
		Symptoms:    *out.Symptoms,
		Diagnosis:   *out.Diagnosis,
		Medications: *out.Medications,
		FollowUp:    *out.FollowUp,
	}, nil
}
