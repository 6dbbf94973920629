// Package openai implements models.Generator on the Chat Completions API,
// for OpenAI itself and for OpenAI-compatible servers.
package openai

import (
	"context"
	"errors"
	"fmt"
	neturl "net/url"
	"strings"

	oai "github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"github.com/kiranshivaraju/integrity/internal/ai/aierr"
	"github.com/kiranshivaraju/integrity/internal/config"
	"github.com/kiranshivaraju/integrity/pkg/models"
)

// Provider implements models.Generator using github.com/openai/openai-go.
type Provider struct {
	name   string
	client oai.Client
	model  string
}

// NewProvider creates a provider for api.openai.com.
func NewProvider(cfg config.OpenAIConfig) *Provider {
	return newProvider("openai", cfg.Model,
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	)
}

// NewCompatible creates a provider for a self-hosted OpenAI-compatible
// server such as Ollama or vLLM. baseURL may omit the /v1 suffix.
func NewCompatible(name, baseURL, model string) *Provider {
	return newProvider(name, model,
		option.WithAPIKey(name),
		option.WithBaseURL(NormalizeBaseURL(baseURL)),
		option.WithMaxRetries(0),
	)
}

func newProvider(name, model string, opts ...option.RequestOption) *Provider {
	return &Provider{name: name, client: oai.NewClient(opts...), model: model}
}

func (p *Provider) Name() string { return p.name }

// Generate sends prompt as a single user message and returns the first choice.
func (p *Provider) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := p.client.Chat.Completions.New(ctx, oai.ChatCompletionNewParams{
		Model: oai.ChatModel(p.model),
		Messages: []oai.ChatCompletionMessageParamUnion{
			oai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", p.classify(err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s: response has no choices", p.name)
	}
	return resp.Choices[0].Message.Content, nil
}

func (p *Provider) classify(err error) error {
	var apiErr *oai.Error
	if errors.As(err, &apiErr) {
		return aierr.FromStatus(apiErr.StatusCode, err)
	}
	return aierr.FromNetwork(err)
}

// NormalizeBaseURL ensures an OpenAI-compatible base URL ends in /v1.
func NormalizeBaseURL(raw string) string {
	base := strings.TrimSpace(raw)
	if base == "" {
		return ""
	}
	parsed, err := neturl.Parse(base)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return strings.TrimRight(base, "/")
	}

	path := strings.TrimRight(parsed.Path, "/")
	if !strings.HasSuffix(path, "/v1") {
		path += "/v1"
	}
	parsed.Path = path
	return strings.TrimRight(parsed.String(), "/")
}

var _ models.Generator = (*Provider)(nil)
