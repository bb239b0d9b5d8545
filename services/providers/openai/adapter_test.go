package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/willckim/ClaimInvestigator-AI/services/providers"
)

func TestNewAdapter(t *testing.T) {
	adapter := NewAdapter(Config{APIKey: "test-key"}, nil)

	assert.Equal(t, providers.OpenAI, adapter.Identity())
	assert.Equal(t, defaultModel, adapter.Model())
	assert.Equal(t, defaultBaseURL, adapter.config.BaseURL)
}

func TestAdapter_Call(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var body ChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "gpt-4o", body.Model)
		assert.Equal(t, 4096, body.MaxTokens)
		assert.Equal(t, 0.3, body.Temperature)
		require.Len(t, body.Messages, 2)
		assert.Equal(t, "system", body.Messages[0].Role)
		assert.Equal(t, "You are a claims assistant.", body.Messages[0].Content)
		assert.Equal(t, "user", body.Messages[1].Role)
		require.NotNil(t, body.ResponseFormat)
		assert.Equal(t, "json_object", body.ResponseFormat.Type)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-123",
			"model": "gpt-4o",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "{\"ok\":true}"}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15}
		}`))
	}))
	defer server.Close()

	adapter := NewAdapter(Config{APIKey: "test-key", BaseURL: server.URL + "/"}, nil)

	raw, err := adapter.Call(context.Background(), &providers.Request{
		Prompt:       "Summarize the loss",
		SystemPrompt: "You are a claims assistant.",
		MaxTokens:    4096,
		Temperature:  0.3,
		JSONMode:     true,
	})
	require.NoError(t, err)

	text, err := adapter.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, text)
}

func TestAdapter_CallError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Invalid API key","type":"invalid_request_error"}}`))
	}))
	defer server.Close()

	adapter := NewAdapter(Config{APIKey: "bad", BaseURL: server.URL}, nil)
	_, err := adapter.Call(context.Background(), &providers.Request{Prompt: "hi"})

	var terr *providers.TransportError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, http.StatusUnauthorized, terr.StatusCode)
	assert.Equal(t, "Invalid API key", terr.Message)
}

func TestBuildChatRequest(t *testing.T) {
	t.Run("no system prompt", func(t *testing.T) {
		req := BuildChatRequest("gpt-4o", &providers.Request{Prompt: "hi"})

		require.Len(t, req.Messages, 1)
		assert.Equal(t, "user", req.Messages[0].Role)
		assert.Nil(t, req.ResponseFormat)
	})

	t.Run("empty model is omitted", func(t *testing.T) {
		body, err := json.Marshal(BuildChatRequest("", &providers.Request{Prompt: "hi"}))
		require.NoError(t, err)
		assert.NotContains(t, string(body), `"model"`)
	})
}

func TestParseChatResponse(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		want      string
		wantShape bool
	}{
		{"content", `{"choices":[{"message":{"content":"hello"}}]}`, "hello", false},
		{"empty content is valid", `{"choices":[{"message":{"content":""}}]}`, "", false},
		{"no choices", `{"choices":[]}`, "", true},
		{"null content", `{"choices":[{"message":{"content":null}}]}`, "", true},
		{"missing message", `{"choices":[{"index":0}]}`, "", true},
		{"not json", `<html>`, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseChatResponse(providers.OpenAI, &providers.RawResponse{StatusCode: 200, Body: []byte(tt.body)})
			if tt.wantShape {
				assert.True(t, providers.IsResponseShapeError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
