package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/openai/openai-go"
)

// ErrUpstreamModel matches every failure of the model-serving API: transport
// errors, timeouts, and output that does not conform to the flow's schema.
var ErrUpstreamModel = errors.New("upstream model error")

// UpstreamError records which flow failed and why.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, ErrUpstreamModel, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

func (e *UpstreamError) Is(target error) bool { return target == ErrUpstreamModel }

// errSchema marks model output that could not be decoded or validated.
var errSchema = errors.New("output does not match schema")

// retryable decides whether another attempt may succeed. The parent context
// is checked separately by the caller.
func retryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == http.StatusTooManyRequests,
			apiErr.StatusCode == http.StatusRequestTimeout,
			apiErr.StatusCode >= 500:
			return true
		default:
			return false
		}
	}

	// network errors, attempt timeouts and malformed output
	return true
}
