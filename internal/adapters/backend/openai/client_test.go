package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llmnexus/nexus/internal/domain"
)

func completionResponse(content string) string {
	payload := map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"model":   "gpt-4o",
		"choices": []map[string]any{
			{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			},
		},
		"usage": map[string]any{"prompt_tokens": 4, "completion_tokens": 8, "total_tokens": 12},
	}

	data, _ := json.Marshal(payload)
	return string(data)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	t.Setenv("TEST_BACKEND_KEY", "sk-test")
	catalog := []domain.ModelSpec{
		{ID: "gpt-4o", BaseURL: server.URL + "/v1", APIKeyEnv: "TEST_BACKEND_KEY"},
	}

	return NewClient(catalog, zerolog.Nop()), server
}

func TestClientCallReturnsCompletionContent(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o", req["model"])

		_, _ = fmt.Fprint(w, completionResponse("hello back"))
	})

	response, err := client.Call(context.Background(), "gpt-4o", "hello")
	require.NoError(t, err)
	assert.Equal(t, "hello back", response)
}

func TestClientCallUnknownModelFails(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, completionResponse("unused"))
	})

	_, err := client.Call(context.Background(), "unlisted-model", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not in the catalog")
}

func TestClientCallBackendErrorSurfaces(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = fmt.Fprint(w, `{"error":{"message":"upstream exploded","type":"server_error"}}`)
	})

	_, err := client.Call(context.Background(), "gpt-4o", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat completion for \"gpt-4o\"")
}

func TestClientCallHonorsContextDeadline(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		_, _ = fmt.Fprint(w, completionResponse("too late"))
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Call(ctx, "gpt-4o", "hello")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClientCallEmptyChoicesFails(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, `{"id":"chatcmpl-test","object":"chat.completion","model":"gpt-4o","choices":[]}`)
	})

	_, err := client.Call(context.Background(), "gpt-4o", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}
