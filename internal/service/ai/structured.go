package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/sirupsen/logrus"
)

// Policy bounds every model call: each attempt gets Timeout, and at most
// MaxAttempts are made with exponential Backoff between them.
type Policy struct {
	Timeout     time.Duration
	MaxAttempts int
	Backoff     time.Duration
}

func (p Policy) normalized() Policy {
	if p.Timeout <= 0 {
		p.Timeout = 30 * time.Second
	}
	if p.MaxAttempts < 1 {
		p.MaxAttempts = 1
	}
	if p.Backoff < 0 {
		p.Backoff = 0
	}
	return p
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// structuredFlow is one prompt template compiled into a chain with the chat
// model, whose JSON output is decoded into T.
type structuredFlow[T any] struct {
	name   string
	schema string
	chain  compose.Runnable[map[string]any, *schema.Message]
	policy Policy
	sleep  func(ctx context.Context, d time.Duration) error
}

func newStructuredFlow[T any](ctx context.Context, name string, chatModel model.BaseChatModel, systemPrompt, userPrompt string, policy Policy) (*structuredFlow[T], error) {
	if chatModel == nil {
		return nil, fmt.Errorf("%s: chat model is required", name)
	}

	schemaJSON, err := schemaFor[T]()
	if err != nil {
		return nil, fmt.Errorf("%s: build schema: %w", name, err)
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(userPrompt),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile %s chain: %w", name, err)
	}

	return &structuredFlow[T]{
		name:   name,
		schema: schemaJSON,
		chain:  runnable,
		policy: policy.normalized(),
		sleep:  sleepContext,
	}, nil
}

// run invokes the chain, retrying within the policy, and returns the decoded
// output. Every failure other than caller cancellation is an *UpstreamError.
func (f *structuredFlow[T]) run(ctx context.Context, vars map[string]any) (T, error) {
	var zero T

	input := make(map[string]any, len(vars)+1)
	for k, v := range vars {
		input[k] = v
	}
	input["schema"] = f.schema

	log := logrus.WithField("flow", f.name)
	start := time.Now()

	var lastErr error
	for attempt := 0; attempt < f.policy.MaxAttempts; attempt++ {
		if attempt > 0 {
			if err := f.sleep(ctx, f.policy.Backoff<<(attempt-1)); err != nil {
				lastErr = err
				break
			}
		}

		out, err := f.attempt(ctx, input)
		if err == nil {
			log.WithFields(logrus.Fields{
				"attempt":    attempt + 1,
				"latency_ms": time.Since(start).Milliseconds(),
			}).Debug("model call completed")
			return out, nil
		}
		lastErr = err

		if ctx.Err() != nil || !retryable(err) {
			break
		}
		log.WithFields(logrus.Fields{
			"attempt": attempt + 1,
			"error":   err,
		}).Warn("model call failed, retrying")
	}

	if errors.Is(lastErr, context.Canceled) {
		log.WithField("latency_ms", time.Since(start).Milliseconds()).Warn("model call canceled by caller")
		return zero, fmt.Errorf("%s: %w", f.name, lastErr)
	}

	log.WithFields(logrus.Fields{
		"latency_ms": time.Since(start).Milliseconds(),
		"error":      lastErr,
	}).Error("model call failed")
	return zero, &UpstreamError{Op: f.name, Err: lastErr}
}

func (f *structuredFlow[T]) attempt(ctx context.Context, input map[string]any) (T, error) {
	var zero T

	attemptCtx, cancel := context.WithTimeout(ctx, f.policy.Timeout)
	defer cancel()

	msg, err := f.chain.Invoke(attemptCtx, input)
	if err != nil {
		return zero, fmt.Errorf("failed to run %s chain: %w", f.name, err)
	}
	if msg == nil {
		return zero, fmt.Errorf("%w: empty response", errSchema)
	}
	logUsage(f.name, msg)

	return decodeStructured[T](msg.Content)
}

// decodeStructured extracts the outermost JSON object from content, which
// tolerates code fences or stray prose around it, and validates the result.
func decodeStructured[T any](content string) (T, error) {
	var out T

	trimmed := strings.TrimSpace(content)
	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start == -1 || end == -1 || end <= start {
		return out, fmt.Errorf("%w: missing json object", errSchema)
	}

	if err := json.Unmarshal([]byte(trimmed[start:end+1]), &out); err != nil {
		return out, fmt.Errorf("%w: %v", errSchema, err)
	}
	if err := validate.Struct(out); err != nil {
		return out, fmt.Errorf("%w: %v", errSchema, err)
	}
	return out, nil
}

func schemaFor[T any]() (string, error) {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	raw, err := json.Marshal(reflector.Reflect(v))
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func logUsage(flow string, msg *schema.Message) {
	if msg.ResponseMeta == nil || msg.ResponseMeta.Usage == nil {
		return
	}
	logrus.WithFields(logrus.Fields{
		"flow":              flow,
		"prompt_tokens":     msg.ResponseMeta.Usage.PromptTokens,
		"completion_tokens": msg.ResponseMeta.Usage.CompletionTokens,
	}).Debug("model usage")
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
