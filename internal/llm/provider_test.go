package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/earlybird-app/earlybird/internal/store"
)

func TestMockProvider_Script(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"cycles":5}`), Usage: Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}},
		failWith(&ErrRateLimit{}),
	)
	mock.Respond = func(req Request) MockResponse {
		return MockResponse{Content: json.RawMessage(`{"echo":"` + req.System + `"}`)}
	}

	first, err := mock.Generate(t.Context(), Request{System: "coach"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"cycles":5}`, string(first.Content))
	assert.Equal(t, 15, first.Usage.TotalTokens)
	assert.Equal(t, "end", first.StopReason)

	_, err = mock.Generate(t.Context(), Request{})
	assert.ErrorAs(t, err, new(*ErrRateLimit))

	after, err := mock.Generate(t.Context(), Request{System: "late"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"echo":"late"}`, string(after.Content))

	require.Equal(t, 3, mock.CallCount())
	assert.Equal(t, "coach", mock.Calls()[0].System)
	assert.Equal(t, "mock", mock.ModelID())
}

func TestMockProvider_RunsDry(t *testing.T) {
	_, err := NewMockProvider().Generate(t.Context(), Request{})
	assert.ErrorAs(t, err, new(*ErrProviderUnavailable))
}

func TestTag(t *testing.T) {
	assert.Equal(t, Tag{Purpose: "unknown"}, TagFrom(context.Background()))

	ctx := WithTag(context.Background(), Tag{Purpose: "coach", SessionID: "night-1"})
	assert.Equal(t, Tag{Purpose: "coach", SessionID: "night-1"}, TagFrom(ctx))
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		ok   bool
	}{
		{"anthropic without key", Config{Provider: "anthropic"}, false},
		{"anthropic with key", Config{Provider: "anthropic", Anthropic: AnthropicConfig{APIKey: "sk-test"}}, true},
		{"openai without key", Config{Provider: "openai"}, false},
		{"openai with key", Config{Provider: "openai", OpenAI: OpenAIConfig{APIKey: "sk-test"}}, true},
		{"gemini without key", Config{Provider: "gemini"}, false},
		{"mock needs no key", Config{Provider: "mock"}, true},
		{"openrouter goes through openai", Config{Provider: "openrouter"}, false},
		{"unknown", Config{Provider: "unknown"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("EARLYBIRD_LLM_PROVIDER", "openai")
	t.Setenv("EARLYBIRD_OPENAI_API_KEY", "sk-test")
	t.Setenv("EARLYBIRD_OPENAI_BASE_URL", "https://openrouter.ai/api/v1")
	t.Setenv("EARLYBIRD_LLM_RETRY_ATTEMPTS", "5")

	cfg, err := ConfigFromEnv()
	require.NoError(t, err)
	assert.True(t, cfg.Enabled())
	assert.Equal(t, OpenAIConfig{APIKey: "sk-test", Model: "gpt-4o-mini", BaseURL: "https://openrouter.ai/api/v1"}, cfg.OpenAI)
	assert.Equal(t, uint(5), cfg.Retry.Attempts)
	assert.Equal(t, time.Second, cfg.Retry.Delay)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.NoError(t, cfg.Validate())
}

func TestConfigFromEnv_Unset(t *testing.T) {
	t.Setenv("EARLYBIRD_LLM_PROVIDER", "")
	cfg, err := ConfigFromEnv()
	require.NoError(t, err)
	assert.False(t, cfg.Enabled())
}

func TestDiscoverConfig(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "ak")

	cfg, ok := DiscoverConfig()
	require.True(t, ok)
	assert.Equal(t, "anthropic", cfg.Provider)
	assert.Equal(t, "ak", cfg.Anthropic.APIKey)

	t.Setenv("GEMINI_API_KEY", "gk")
	cfg, ok = DiscoverConfig()
	require.True(t, ok)
	assert.Equal(t, "gemini", cfg.Provider, "gemini is preferred")
}

func TestFinish_TruncationOnlyFailsStructuredRequests(t *testing.T) {
	cut := json.RawMessage(`{"headline":"x"`)

	resp, err := finish(Request{}, cut, Usage{}, "m", "max_tokens")
	require.NoError(t, err)
	assert.Equal(t, "max_tokens", resp.StopReason)

	_, err = finish(Request{Schema: nightSchema()}, cut, Usage{}, "m", "max_tokens")
	assert.ErrorAs(t, err, new(*ErrMaxTokensExceeded))
}

type recordingRepo struct {
	events []store.LLMRequestEventData
}

func (r *recordingRepo) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	r.events = append(r.events, data)
	return nil
}

func (r *recordingRepo) RecentLLMRequests(context.Context, int) ([]store.LLMRequestEvent, error) {
	return nil, nil
}

func TestLogging_RecordsRequests(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{}`), Usage: Usage{InputTokens: 12, OutputTokens: 4}},
		failWith(&ErrProviderUnavailable{Err: errors.New("down")}),
	)
	repo := &recordingRepo{}
	p := WithLogging(mock, "mock", repo, nil)
	ctx := WithTag(t.Context(), Tag{Purpose: "coach", SessionID: "night-3"})

	_, err := p.Generate(ctx, Request{})
	require.NoError(t, err)
	_, err = p.Generate(ctx, Request{})
	require.Error(t, err)

	require.Len(t, repo.events, 2)
	ok, failed := repo.events[0], repo.events[1]
	assert.True(t, ok.Success)
	assert.Equal(t, 12, ok.InputTokens)
	assert.Equal(t, "coach", ok.Purpose)
	assert.Equal(t, "night-3", ok.SessionID)
	assert.Equal(t, "mock", ok.Provider)
	assert.False(t, failed.Success)
	assert.NotEmpty(t, failed.ErrorMessage)
}

func TestNewProvider(t *testing.T) {
	p, err := NewProvider(t.Context(), Config{Provider: "mock"}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "mock", p.ModelID())

	_, err = NewProvider(t.Context(), Config{Provider: "openai"}, nil, nil)
	assert.Error(t, err, "missing key")
}
