package llm

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chatServer answers every chat completion with status and body, and
// hands the decoded request to seen.
func chatServer(t *testing.T, status int, body any, seen func(map[string]any)) *OpenAIProvider {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if seen != nil {
			var req map[string]any
			if assert.NoError(t, json.NewDecoder(r.Body).Decode(&req)) {
				seen(req)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)

	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = srv.URL + "/v1"
	return &OpenAIProvider{client: openai.NewClientWithConfig(cfg), model: "gpt-4o-mini"}
}

func completion(content, reason string) map[string]any {
	return map[string]any{
		"id":     "chatcmpl-night",
		"object": "chat.completion",
		"model":  "gpt-4o-mini-2024-07-18",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": content},
			"finish_reason": reason,
		}},
		"usage": map[string]any{"prompt_tokens": 40, "completion_tokens": 25, "total_tokens": 65},
	}
}

func TestOpenAIProvider_StructuredAdvice(t *testing.T) {
	var sent map[string]any
	p := chatServer(t, http.StatusOK,
		completion(`{"headline":"Solid night","cycles":5}`, "stop"),
		func(req map[string]any) { sent = req })

	resp, err := p.Generate(t.Context(), Request{
		System:    "You are a sleep coach.",
		Messages:  []Message{{Role: RoleUser, Content: "Five cycles, 22% deep."}},
		Schema:    nightSchema(),
		MaxTokens: 256,
	})
	require.NoError(t, err)
	assert.Equal(t, Usage{InputTokens: 40, OutputTokens: 25, TotalTokens: 65}, resp.Usage)
	assert.Equal(t, "end", resp.StopReason)
	assert.Equal(t, "gpt-4o-mini-2024-07-18", resp.Model)

	require.NotNil(t, sent)
	msgs, _ := sent["messages"].([]any)
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
	format, _ := sent["response_format"].(map[string]any)
	assert.Equal(t, "json_schema", format["type"])
	assert.Equal(t, "test-night", format["json_schema"].(map[string]any)["name"])
}

func TestOpenAIProvider_Failures(t *testing.T) {
	apiError := func(typ string) map[string]any {
		return map[string]any{"error": map[string]any{"type": typ, "message": typ}}
	}
	tests := []struct {
		name   string
		status int
		body   any
		want   any
	}{
		{"rate limited", http.StatusTooManyRequests, apiError("tokens"), new(*ErrRateLimit)},
		{"rejected", http.StatusBadRequest, apiError("invalid_request_error"), new(*ErrBadRequest)},
		{"server down", http.StatusInternalServerError, apiError("server_error"), new(*ErrProviderUnavailable)},
		{"no choices", http.StatusOK, map[string]any{"id": "x", "choices": []any{}}, new(*ErrInvalidResponse)},
		{"truncated", http.StatusOK, completion(`{"headline":"So`, "length"), new(*ErrMaxTokensExceeded)},
		{"off schema", http.StatusOK, completion(`{"headline":"No cycles"}`, "stop"), new(*ErrInvalidResponse)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := chatServer(t, tt.status, tt.body, nil)
			_, err := p.Generate(t.Context(), Request{
				Messages:  []Message{{Role: RoleUser, Content: "How was it?"}},
				Schema:    nightSchema(),
				MaxTokens: 64,
			})
			require.Error(t, err)
			assert.ErrorAs(t, err, tt.want)
		})
	}
}

func TestNewOpenAIProvider(t *testing.T) {
	_, err := NewOpenAIProvider(OpenAIConfig{Model: "gpt-4o"})
	assert.Error(t, err, "key required")

	p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "k", Model: "gpt-4o", BaseURL: "https://openrouter.ai/api/v1"})
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", p.ModelID())

	p, err = NewOpenAIProvider(OpenAIConfig{APIKey: "k", Model: "meta-llama/llama-3.1-8b-instruct"})
	require.NoError(t, err)
	assert.Equal(t, "meta-llama/llama-3.1-8b-instruct", p.ModelID(), "unknown names pass through")
}
