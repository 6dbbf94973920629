// Package ollama serves models through Ollama's OpenAI-compatible endpoint.
package ollama

import (
	"github.com/kiranshivaraju/integrity/internal/ai/openai"
	"github.com/kiranshivaraju/integrity/internal/config"
)

func NewProvider(cfg config.OllamaConfig) *openai.Provider {
	return openai.NewCompatible("ollama", cfg.BaseURL, cfg.Model)
}
