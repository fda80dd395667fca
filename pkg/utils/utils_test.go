package utils

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type samplePayload struct {
	Text string `json:"text" validate:"required"`
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{name: "valid", body: `{"text":"hi"}`},
		{name: "missing field", body: `{}`, wantErr: true},
		{name: "broken", body: `{"text":`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var dst samplePayload
			err := DecodeJSON(req, 1<<10, &dst)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidBody))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "hi", dst.Text)
		})
	}
}

func TestSendSSEEvent(t *testing.T) {
	resp := httptest.NewRecorder()
	SetupSSEHeaders(resp)
	require.NoError(t, SendSSEEvent(resp, resp, "invalidate", map[string]string{"conversationId": "1"}))

	assert.Equal(t, "text/event-stream", resp.Header().Get("Content-Type"))
	assert.Equal(t, "event: invalidate\ndata: {\"conversationId\":\"1\"}\n\n", resp.Body.String())
	assert.True(t, resp.Flushed)
}

func TestRespondError(t *testing.T) {
	resp := httptest.NewRecorder()
	RespondError(resp, http.StatusBadGateway, "upstream failed")
	assert.Equal(t, http.StatusBadGateway, resp.Code)
	assert.JSONEq(t, `{"error":"upstream failed"}`, resp.Body.String())
}
