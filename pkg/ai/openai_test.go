package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gomind-search/pipeline/pkg/logger"
)

const chatCompletionBody = `{
	"choices": [{"message": {"content": "hello there"}, "finish_reason": "stop"}],
	"usage": {"prompt_tokens": 5, "completion_tokens": 2, "total_tokens": 7}
}`

func TestOpenAIClient_UsesDefaultModelWhenOptionsOmitIt(t *testing.T) {
	var gotModel string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		gotModel = payload["model"].(string)
		w.Write([]byte(chatCompletionBody))
	}))
	defer server.Close()

	client := NewOpenAIClient("key", "gpt-4o-mini", logger.NewDefaultLogger())
	client.baseURL = server.URL

	resp, err := client.GenerateResponse(context.Background(), "hi", nil)
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", gotModel)
	assert.Equal(t, "hello there", resp.Content)
}

func TestOpenAIClient_ExplicitModelOverridesDefault(t *testing.T) {
	var gotModel string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		gotModel = payload["model"].(string)
		w.Write([]byte(chatCompletionBody))
	}))
	defer server.Close()

	client := NewOpenAIClient("key", "gpt-4o-mini", logger.NewDefaultLogger())
	client.baseURL = server.URL

	_, err := client.GenerateResponse(context.Background(), "hi", &GenerationOptions{Model: "gpt-4-turbo"})
	require.NoError(t, err)
	assert.Equal(t, "gpt-4-turbo", gotModel)
}

func TestOpenAIClient_RetriesOnServerError(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(chatCompletionBody))
	}))
	defer server.Close()

	client := NewOpenAIClient("key", "", logger.NewDefaultLogger())
	client.baseURL = server.URL
	client.maxRetries = 3
	client.backoffUnit = time.Millisecond

	resp, err := client.GenerateResponse(context.Background(), "hi", nil)
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, "hello there", resp.Content)
}

func TestOpenAIClient_DoesNotRetryOnBadRequest(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewOpenAIClient("key", "", logger.NewDefaultLogger())
	client.baseURL = server.URL
	client.maxRetries = 3

	_, err := client.GenerateResponse(context.Background(), "hi", nil)
	assert.Error(t, err)
	assert.Equal(t, 1, attempts)
}
