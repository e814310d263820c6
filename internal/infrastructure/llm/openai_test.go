package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexusqa/agents/pkg/config"
	"github.com/nexusqa/agents/pkg/errors"
	"github.com/nexusqa/agents/pkg/logger"
)

type chatRequestBody struct {
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
	Messages    []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func newOpenAIServer(t *testing.T, status int, handle func(body chatRequestBody) string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var body chatRequestBody
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(handle(body)))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOpenAIClientComplete(t *testing.T) {
	var seen chatRequestBody
	srv := newOpenAIServer(t, http.StatusOK, func(body chatRequestBody) string {
		seen = body
		return `{"id":"c1","object":"chat.completion","model":"gpt-4o-mini-2024-07-18",
			"choices":[{"index":0,"message":{"role":"assistant","content":"[]"},"finish_reason":"stop"}],
			"usage":{"prompt_tokens":12,"completion_tokens":3,"total_tokens":15}}`
	})

	client := NewOpenAIClient(config.LLMConfig{OpenAIAPIKey: "sk-test", OpenAIBaseURL: srv.URL + "/v1", Model: "gpt-4o-mini"})
	resp, err := client.Complete(context.Background(), ChatRequest{
		System:      TextSystemPrompt,
		Prompt:      "login page",
		Temperature: 0.7,
		MaxTokens:   4000,
	})
	require.NoError(t, err)

	assert.Equal(t, "[]", resp.Text)
	assert.Equal(t, "gpt-4o-mini-2024-07-18", resp.Model)
	assert.Equal(t, Usage{InputTokens: 12, OutputTokens: 3, TotalTokens: 15}, resp.Usage)

	assert.Equal(t, "gpt-4o-mini", seen.Model)
	assert.Equal(t, 4000, seen.MaxTokens)
	assert.InDelta(t, 0.7, seen.Temperature, 1e-6)
	require.Len(t, seen.Messages, 2)
	assert.Equal(t, "system", seen.Messages[0].Role)
	assert.Equal(t, TextSystemPrompt, seen.Messages[0].Content)
	assert.Equal(t, "user", seen.Messages[1].Role)
}

func TestOpenAIClientModelOverride(t *testing.T) {
	var seen string
	srv := newOpenAIServer(t, http.StatusOK, func(body chatRequestBody) string {
		seen = body.Model
		return `{"choices":[{"message":{"role":"assistant","content":"ok"}}],"usage":{}}`
	})

	client := NewOpenAIClient(config.LLMConfig{OpenAIAPIKey: "sk-test", OpenAIBaseURL: srv.URL + "/v1", Model: "gpt-4o-mini"})
	resp, err := client.Complete(context.Background(), ChatRequest{Model: "gpt-4o", Prompt: "big doc"})
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", seen)
	assert.Equal(t, "gpt-4o", resp.Model)
}

func TestOpenAIClientErrorIsExternalService(t *testing.T) {
	srv := newOpenAIServer(t, http.StatusUnauthorized, func(chatRequestBody) string {
		return `{"error":{"message":"bad key","type":"invalid_request_error"}}`
	})

	client := NewOpenAIClient(config.LLMConfig{OpenAIAPIKey: "sk-test", OpenAIBaseURL: srv.URL + "/v1"})
	_, err := client.Complete(context.Background(), ChatRequest{Prompt: "x"})
	require.Error(t, err)

	appErr, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrExternalService, appErr.Code)
}

func TestNewClientFallsBackToOffline(t *testing.T) {
	c, err := NewClient(config.LLMConfig{Provider: ProviderOpenAI}, stubResponder{}, logger.NewNop())
	require.NoError(t, err)
	assert.Equal(t, ProviderOffline, c.Provider())

	c, err = NewClient(config.LLMConfig{Provider: ProviderOffline, OpenAIAPIKey: "sk"}, stubResponder{}, logger.NewNop())
	require.NoError(t, err)
	assert.Equal(t, ProviderOffline, c.Provider())

	c, err = NewClient(config.LLMConfig{Provider: ProviderOpenAI, OpenAIAPIKey: "sk"}, stubResponder{}, logger.NewNop())
	require.NoError(t, err)
	assert.Equal(t, ProviderOpenAI, c.Provider())
}
