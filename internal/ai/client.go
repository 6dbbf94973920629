package ai

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/kiranshivaraju/integrity/internal/config"
	"github.com/kiranshivaraju/integrity/pkg/models"
)

// Client wraps a Generator with a per-attempt timeout, transport-only retry
// and classification of failures into GenerationOutcome.
type Client struct {
	gen        models.Generator
	timeout    time.Duration
	maxRetries int
	baseDelay  time.Duration
}

// NewClient creates a Client. A non-positive timeout disables the per-attempt
// deadline; MaxRetries of zero means a single attempt.
func NewClient(gen models.Generator, cfg config.AIConfig) *Client {
	return &Client{
		gen:        gen,
		timeout:    cfg.InferenceTimeout,
		maxRetries: max(cfg.MaxRetries, 0),
		baseDelay:  cfg.RetryBaseDelay,
	}
}

// Name returns the underlying provider name.
func (c *Client) Name() string { return c.gen.Name() }

// Generate sends prompt to the provider. It never returns an error: every
// failure is reported through the outcome's ErrorKind. Quota failures are
// never retried.
func (c *Client) Generate(ctx context.Context, prompt string) models.GenerationOutcome {
	var text string
	attempts := 0

	op := func() error {
		attempts++
		out, err := c.attempt(ctx, prompt)
		if err != nil {
			if classify(err) != models.ErrorKindTransport || ctx.Err() != nil {
				return backoff.Permanent(err)
			}
			return err
		}
		text = out
		return nil
	}

	err := backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(c.newBackOff(), uint64(c.maxRetries)), ctx))
	if err != nil {
		kind := classify(err)
		slog.Warn("generation failed",
			"provider", c.gen.Name(),
			"error_kind", kind,
			"attempts", attempts,
			"error", err,
		)
		return models.Failed(kind, failureMessage(kind, err))
	}
	return models.Succeeded(text)
}

func (c *Client) attempt(ctx context.Context, prompt string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	return c.gen.Generate(ctx, prompt)
}

func (c *Client) newBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	if c.baseDelay > 0 {
		b.InitialInterval = c.baseDelay
	}
	b.MaxElapsedTime = 0
	return b
}

func classify(err error) models.ErrorKind {
	var netErr net.Error
	switch {
	case errors.Is(err, models.ErrQuotaExceeded):
		return models.ErrorKindQuotaExceeded
	case errors.Is(err, models.ErrTransport),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled),
		errors.As(err, &netErr):
		return models.ErrorKindTransport
	default:
		return models.ErrorKindUnknown
	}
}

func failureMessage(kind models.ErrorKind, err error) string {
	switch {
	case kind == models.ErrorKindQuotaExceeded:
		return QuotaExceededMessage
	case errors.Is(err, context.DeadlineExceeded):
		return inferenceTimeoutMessage
	default:
		return err.Error()
	}
}
