// Package gemini implements models.Generator on Google's Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/kiranshivaraju/integrity/internal/ai/aierr"
	"github.com/kiranshivaraju/integrity/internal/config"
	"github.com/kiranshivaraju/integrity/pkg/models"
)

// Provider implements models.Generator using google.golang.org/genai.
type Provider struct {
	client *genai.Client
	model  string
}

// NewProvider creates a Gemini provider. baseURL overrides the API endpoint
// and is empty in production.
func NewProvider(ctx context.Context, cfg config.GeminiConfig, baseURL string) (*Provider, error) {
	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return &Provider{client: client, model: cfg.Model}, nil
}

func (p *Provider) Name() string { return "gemini" }

// Generate sends prompt as a single user turn and returns the response text.
func (p *Provider) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(prompt), nil)
	if err != nil {
		return "", classify(err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", errors.New("gemini: response has no candidates")
	}
	return resp.Text(), nil
}

func classify(err error) error {
	var ptrErr *genai.APIError
	if errors.As(err, &ptrErr) {
		return fromAPIError(*ptrErr, err)
	}
	var valErr genai.APIError
	if errors.As(err, &valErr) {
		return fromAPIError(valErr, err)
	}
	return aierr.FromNetwork(err)
}

func fromAPIError(apiErr genai.APIError, err error) error {
	if strings.EqualFold(apiErr.Status, "RESOURCE_EXHAUSTED") {
		return fmt.Errorf("%w: %v", models.ErrQuotaExceeded, err)
	}
	return aierr.FromStatus(apiErr.Code, err)
}

var _ models.Generator = (*Provider)(nil)
