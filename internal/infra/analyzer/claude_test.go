package analyzer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"headline-desk/internal/resilience/retry"
)

func TestClaude_Analyze(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "msg_1",
			"type": "message",
			"role": "assistant",
			"model": "test-model",
			"content": [{"type": "text", "text": "સમાચાર ભ્રામક છે."}],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 10, "output_tokens": 5}
		}`))
	}))
	defer srv.Close()

	c := NewClaude(testConfig(ProviderClaude, srv.URL), srv.Client())
	rec := quiet(c.caller)

	got, err := c.Analyze(context.Background(), sampleImage())
	require.NoError(t, err)
	assert.Equal(t, "સમાચાર ભ્રામક છે.", got)

	assert.Equal(t, "test-model", body["model"])
	assert.EqualValues(t, 700, body["max_tokens"])

	system := body["system"].([]any)
	require.Len(t, system, 1)
	assert.Equal(t, DefaultSystemPrompt, system[0].(map[string]any)["text"])

	content := body["messages"].([]any)[0].(map[string]any)["content"].([]any)
	require.Len(t, content, 1)
	image := content[0].(map[string]any)
	assert.Equal(t, "image", image["type"])
	source := image["source"].(map[string]any)
	assert.Equal(t, "base64", source["type"])
	assert.Equal(t, "image/jpeg", source["media_type"])
	assert.Equal(t, "/9j/", source["data"])

	assert.Equal(t, []recordedCall{{provider: ProviderClaude, success: true}}, rec.calls)
}

func TestClaude_ServerErrorRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"type": "error", "error": {"type": "api_error", "message": "boom"}}`))
	}))
	defer srv.Close()

	c := NewClaude(testConfig(ProviderClaude, srv.URL), srv.Client())
	quiet(c.caller)

	_, err := c.Analyze(context.Background(), sampleImage())
	require.Error(t, err)
	assert.Equal(t, int32(2), calls.Load())

	var httpErr *retry.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusInternalServerError, httpErr.StatusCode)
}

func TestClaude_NoTextBlocks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "msg_1", "type": "message", "role": "assistant", "model": "m", "content": [], "stop_reason": "end_turn", "usage": {"input_tokens": 1, "output_tokens": 0}}`))
	}))
	defer srv.Close()

	c := NewClaude(testConfig(ProviderClaude, srv.URL), srv.Client())
	quiet(c.caller)

	_, err := c.Analyze(context.Background(), sampleImage())
	assert.ErrorIs(t, err, ErrEmptyResponse)
}
