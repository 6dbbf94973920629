package ai_test

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"

	"github.com/kiranshivaraju/integrity/internal/ai"
	"github.com/kiranshivaraju/integrity/internal/ai/mock"
	"github.com/kiranshivaraju/integrity/internal/config"
	"github.com/kiranshivaraju/integrity/pkg/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func clientConfig(retries int) config.AIConfig {
	return config.AIConfig{
		InferenceTimeout: time.Second,
		MaxRetries:       retries,
		RetryBaseDelay:   time.Millisecond,
	}
}

func TestClient_Success(t *testing.T) {
	p := mock.NewTextProvider("Confidence: High")
	c := ai.NewClient(p, clientConfig(0))

	out := c.Generate(context.Background(), "prompt")

	assert.Equal(t, models.Succeeded("Confidence: High"), out)
	assert.Equal(t, 1, p.Calls())
	assert.Equal(t, "mock", c.Name())
}

func TestClient_QuotaIsNeverRetried(t *testing.T) {
	p := mock.NewFailingProvider(fmt.Errorf("%w: 429 too many requests", ai.ErrQuotaExceeded))
	c := ai.NewClient(p, clientConfig(3))

	out := c.Generate(context.Background(), "prompt")

	assert.False(t, out.Success)
	assert.Empty(t, out.Text)
	assert.Equal(t, models.ErrorKindQuotaExceeded, out.ErrorKind)
	assert.Equal(t, ai.QuotaExceededMessage, out.ErrorMessage)
	assert.Equal(t, 1, p.Calls())
}

func TestClient_TransportRetriedThenSucceeds(t *testing.T) {
	p := mock.NewSequenceProvider(
		mock.Step{Err: fmt.Errorf("%w: 503", ai.ErrTransport)},
		mock.Step{Err: &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("refused")}},
		mock.Step{Text: "Confidence: Low"},
	)
	c := ai.NewClient(p, clientConfig(2))

	out := c.Generate(context.Background(), "prompt")

	assert.True(t, out.Success)
	assert.Equal(t, "Confidence: Low", out.Text)
	assert.Equal(t, 3, p.Calls())
}

func TestClient_TransportRetriesExhausted(t *testing.T) {
	p := mock.NewFailingProvider(fmt.Errorf("%w: connection reset", ai.ErrTransport))
	c := ai.NewClient(p, clientConfig(2))

	out := c.Generate(context.Background(), "prompt")

	assert.Equal(t, models.ErrorKindTransport, out.ErrorKind)
	assert.Contains(t, out.ErrorMessage, "connection reset")
	assert.Equal(t, 3, p.Calls())
}

func TestClient_DefaultIsSingleAttempt(t *testing.T) {
	p := mock.NewFailingProvider(ai.ErrTransport)
	c := ai.NewClient(p, clientConfig(0))

	c.Generate(context.Background(), "prompt")
	assert.Equal(t, 1, p.Calls())
}

func TestClient_UnknownErrorCarriesMessage(t *testing.T) {
	p := mock.NewFailingProvider(errors.New("model not found"))
	c := ai.NewClient(p, clientConfig(3))

	out := c.Generate(context.Background(), "prompt")

	assert.Equal(t, models.ErrorKindUnknown, out.ErrorKind)
	assert.Equal(t, "model not found", out.ErrorMessage)
	assert.Equal(t, 1, p.Calls())
}

func TestClient_TimeoutIsTransport(t *testing.T) {
	p := mock.NewTimeoutProvider()
	cfg := clientConfig(0)
	cfg.InferenceTimeout = 20 * time.Millisecond
	c := ai.NewClient(p, cfg)

	start := time.Now()
	out := c.Generate(context.Background(), "prompt")

	assert.Equal(t, models.ErrorKindTransport, out.ErrorKind)
	assert.Equal(t, "ai inference timeout", out.ErrorMessage)
	assert.Less(t, time.Since(start), time.Second)
}

func TestClient_CancelledContextStopsRetrying(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := &mock.MockProvider{
		Name_: "cancelling",
		GenerateFunc: func(_ context.Context, _ string) (string, error) {
			cancel()
			return "", ai.ErrTransport
		},
	}
	c := ai.NewClient(p, clientConfig(5))

	out := c.Generate(ctx, "prompt")

	assert.Equal(t, models.ErrorKindTransport, out.ErrorKind)
	assert.Equal(t, 1, p.Calls())
}
