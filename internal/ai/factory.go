package ai

import (
	"context"
	"fmt"

	"github.com/kiranshivaraju/integrity/internal/ai/anthropic"
	"github.com/kiranshivaraju/integrity/internal/ai/gemini"
	"github.com/kiranshivaraju/integrity/internal/ai/ollama"
	"github.com/kiranshivaraju/integrity/internal/ai/openai"
	"github.com/kiranshivaraju/integrity/internal/ai/vllm"
	"github.com/kiranshivaraju/integrity/internal/config"
	"github.com/kiranshivaraju/integrity/pkg/models"
)

// NewProvider constructs the appropriate generator based on config.
// Called once at server startup.
func NewProvider(ctx context.Context, cfg config.AIConfig) (models.Generator, error) {
	switch cfg.Provider {
	case "gemini":
		p, err := gemini.NewProvider(ctx, cfg.Gemini, "")
		if err != nil {
			return nil, err
		}
		return p, nil
	case "ollama":
		return ollama.NewProvider(cfg.Ollama), nil
	case "vllm":
		return vllm.NewProvider(cfg.VLLM), nil
	case "openai":
		return openai.NewProvider(cfg.OpenAI), nil
	case "anthropic":
		return anthropic.NewProvider(cfg.Anthropic), nil
	default:
		return nil, fmt.Errorf("unknown AI provider %q: must be one of gemini, ollama, vllm, openai, anthropic", cfg.Provider)
	}
}
