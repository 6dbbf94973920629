// Package anthropic implements models.Generator on the Anthropic Messages API.
package anthropic

import (
	"context"
	"errors"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/kiranshivaraju/integrity/internal/ai/aierr"
	"github.com/kiranshivaraju/integrity/internal/config"
	"github.com/kiranshivaraju/integrity/pkg/models"
)

const maxTokens = 2048

// Provider implements models.Generator using github.com/anthropics/anthropic-sdk-go.
type Provider struct {
	client sdk.Client
	model  string
}

// NewProvider creates an Anthropic provider. Extra request options are
// appended after the configured ones.
func NewProvider(cfg config.AnthropicConfig, opts ...option.RequestOption) *Provider {
	base := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	return &Provider{
		client: sdk.NewClient(append(base, opts...)...),
		model:  cfg.Model,
	}
}

func (p *Provider) Name() string { return "anthropic" }

// Generate sends prompt as one user message and concatenates the text blocks
// of the reply.
func (p *Provider) Generate(ctx context.Context, prompt string) (string, error) {
	msg, err := p.client.Messages.New(ctx, sdk.MessageNewParams{
		Model:     sdk.Model(p.model),
		MaxTokens: maxTokens,
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		var apiErr *sdk.Error
		if errors.As(err, &apiErr) {
			return "", aierr.FromStatus(apiErr.StatusCode, err)
		}
		return "", aierr.FromNetwork(err)
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	if b.Len() == 0 {
		return "", errors.New("anthropic: response has no text content")
	}
	return b.String(), nil
}

var _ models.Generator = (*Provider)(nil)
