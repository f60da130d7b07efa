package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healthassistant/internal/generation"
)

func TestNewClient_RequiresKey(t *testing.T) {
	_, err := NewClient(Config{})
	assert.Error(t, err)

	c, err := NewClient(Config{APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, c.cfg.BaseURL)
}

func TestGenerate_Success(t *testing.T) {
	var got ChatCompletionRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{\"intent\":\"diet\"}"}}],"usage":{"prompt_tokens":10,"completion_tokens":3,"total_tokens":13}}`))
	}))
	defer server.Close()

	c, err := NewClient(Config{APIKey: "test-key", BaseURL: server.URL + "/v1/", Model: "test-model"})
	require.NoError(t, err)

	out, err := c.Generate(context.Background(), generation.GenerateRequest{
		SystemPrompt: "You classify.",
		UserPrompt:   "I ate rice",
		Schema:       `{"intent": string}`,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"intent":"diet"}`, out)

	assert.Equal(t, "test-model", got.Model)
	require.NotNil(t, got.ResponseFormat)
	assert.Equal(t, "json_object", got.ResponseFormat.Type)
	require.Len(t, got.Messages, 2)
	assert.Contains(t, got.Messages[0].Content[0].Text, `{"intent": string}`)
	assert.Equal(t, "I ate rice", got.Messages[1].Content[0].Text)
}

func TestGenerate_APIErrorNoRetry(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	}))
	defer server.Close()

	c, err := NewClient(Config{APIKey: "k", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = c.Generate(context.Background(), generation.GenerateRequest{UserPrompt: "hi"})
	assert.ErrorContains(t, err, "rate limited")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestGenerate_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	c, err := NewClient(Config{APIKey: "k", BaseURL: server.URL})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = c.Generate(ctx, generation.GenerateRequest{UserPrompt: "hi"})
	assert.ErrorIs(t, err, generation.ErrGenerationTimeout)
}
