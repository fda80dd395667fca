package ai

import (
	"context"

	"github.com/cloudwego/eino/components/model"
)

type translationOutput struct {
	TranslatedText *string `json:"translatedText" jsonschema_description:"The translated text." validate:"required"`
}

// Translator turns text in one catalog language into another.
type Translator struct {
	flow *structuredFlow[translationOutput]
}

// NewTranslator compiles the translation chain over chatModel.
func NewTranslator(ctx context.Context, chatModel model.BaseChatModel, policy Policy) (*Translator, error) {
	flow, err := newStructuredFlow[translationOutput](ctx, "translate", chatModel, translateSystemPrompt, translateUserPrompt, policy)
	if err != nil {
		return nil, err
	}
	return &Translator{flow: flow}, nil
}

// Translate makes one bounded model call. Language codes are passed through
// verbatim; callers validate them against the catalog.
func (t *Translator) Translate(ctx context.Context, text, sourceLanguage, targetLanguage string) (string, error) {
	out, err := t.flow.run(ctx, map[string]any{
		"text":            text,
		"source_language": sourceLanguage,
		"target_language": targetLanguage,
	})
	if err != nil {
		return "", err
	}
	return *out.TranslatedText, nil
}
