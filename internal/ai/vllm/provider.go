// Package vllm serves models through a vLLM OpenAI-compatible server.
package vllm

import (
	"github.com/kiranshivaraju/integrity/internal/ai/openai"
	"github.com/kiranshivaraju/integrity/internal/config"
)

func NewProvider(cfg config.VLLMConfig) *openai.Provider {
	return openai.NewCompatible("vllm", cfg.BaseURL, cfg.Model)
}
