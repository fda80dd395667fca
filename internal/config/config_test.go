package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "AI_PROVIDER", "AI_TIMEOUT_SECONDS", "AI_MAX_ATTEMPTS", "AI_RETRY_BACKOFF_MS",
		"CHAT_CONVERSATION_ID", "CHAT_AUTO_REPLY", "CHAT_SEED_DEMO", "AUDIO_MAX_BYTES",
		"LOG_LEVEL", "LOG_FORMAT", "LOG_DIR", "ARK_API_KEY", "Model", "OPENAI_API_KEY",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, ProviderArk, cfg.AI.Provider)
	assert.Equal(t, 30*time.Second, cfg.AI.Timeout)
	assert.Equal(t, 2, cfg.AI.MaxAttempts)
	assert.Equal(t, 500*time.Millisecond, cfg.AI.RetryBackoff)
	assert.False(t, cfg.AI.Enabled())
	assert.Equal(t, "1", cfg.Chat.ConversationID)
	assert.True(t, cfg.Chat.AutoReply)
	assert.True(t, cfg.Chat.SeedDemo)
	assert.Equal(t, int64(10<<20), cfg.Chat.AudioMaxBytes)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "127.0.0.1:9000")
	t.Setenv("AI_PROVIDER", "OpenAI")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("AI_TIMEOUT_SECONDS", "5")
	t.Setenv("AI_MAX_ATTEMPTS", "0")
	t.Setenv("CHAT_AUTO_REPLY", "false")
	t.Setenv("AUDIO_MAX_BYTES", "1024")
	t.Setenv("LOG_FORMAT", "JSON")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, ProviderOpenAI, cfg.AI.Provider)
	assert.True(t, cfg.AI.Enabled())
	assert.Equal(t, 5*time.Second, cfg.AI.Timeout)
	assert.Equal(t, 1, cfg.AI.MaxAttempts)
	assert.False(t, cfg.Chat.AutoReply)
	assert.Equal(t, int64(1024), cfg.Chat.AudioMaxBytes)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"PORT":               "80 80",
		"AI_PROVIDER":        "gemini",
		"AI_TIMEOUT_SECONDS": "-1",
		"CHAT_AUTO_REPLY":    "maybe",
		"AUDIO_MAX_BYTES":    "lots",
		"LOG_FORMAT":         "xml",
		"ARK_TEMPERATURE":    "warm",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestArkEnabledRequiresModelAndCredentials(t *testing.T) {
	assert.False(t, AIConfig{Provider: ProviderArk, APIKey: "key"}.Enabled())
	assert.True(t, AIConfig{Provider: ProviderArk, APIKey: "key", Model: "ep-1"}.Enabled())
	assert.True(t, AIConfig{Provider: ProviderArk, AccessKey: "ak", SecretKey: "sk", Model: "ep-1"}.Enabled())
	assert.False(t, AIConfig{Provider: ProviderArk, AccessKey: "ak", Model: "ep-1"}.Enabled())
}
