package anthropic_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiranshivaraju/integrity/internal/ai/anthropic"
	"github.com/kiranshivaraju/integrity/internal/config"
	"github.com/kiranshivaraju/integrity/pkg/models"
)

func newTestProvider(url string) *anthropic.Provider {
	return anthropic.NewProvider(
		config.AnthropicConfig{APIKey: "sk-ant-test", Model: "claude-sonnet-4-5-20250929"},
		option.WithBaseURL(url),
	)
}

func TestGenerate_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "sk-ant-test", r.Header.Get("X-Api-Key"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "msg_1",
			"type": "message",
			"role": "assistant",
			"model": "claude-sonnet-4-5-20250929",
			"content": [
				{"type": "text", "text": "The draft reads as human. "},
				{"type": "text", "text": "Confidence: Low"}
			],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 10, "output_tokens": 8}
		}`))
	}))
	defer srv.Close()

	p := newTestProvider(srv.URL)
	assert.Equal(t, "anthropic", p.Name())

	text, err := p.Generate(context.Background(), "judge")
	require.NoError(t, err)
	assert.Equal(t, "The draft reads as human. Confidence: Low", text)
}

func TestGenerate_RateLimitIsQuota(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"type":"error","error":{"type":"rate_limit_error","message":"slow down"}}`))
	}))
	defer srv.Close()

	_, err := newTestProvider(srv.URL).Generate(context.Background(), "judge")
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrQuotaExceeded)
}

func TestGenerate_OverloadedIsTransport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(529)
		w.Write([]byte(`{"type":"error","error":{"type":"overloaded_error","message":"busy"}}`))
	}))
	defer srv.Close()

	_, err := newTestProvider(srv.URL).Generate(context.Background(), "judge")
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrTransport)
}
