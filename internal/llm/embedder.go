package llm

import (
	"strings"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"readerschat/internal/config"
)

// NewEmbedder creates the embedding client for the configured provider.
// "ollama" talks to a local Ollama server; anything else is treated as an
// OpenAI-compatible endpoint (OpenAI, OpenRouter, vLLM).
func NewEmbedder(cfg *config.LLMConfig) (embeddings.Embedder, error) {
	if cfg.Provider == "ollama" {
		client, err := ollama.New(
			ollama.WithServerURL(cfg.BaseURL),
			ollama.WithModel(cfg.Model),
		)
		if err != nil {
			return nil, err
		}
		return embeddings.NewEmbedder(client)
	}

	opts := []openai.Option{
		openai.WithToken(strings.TrimPrefix(cfg.Key(), "Bearer ")),
		openai.WithModel(cfg.Model),
		openai.WithEmbeddingModel(cfg.Model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}
	client, err := openai.New(opts...)
	if err != nil {
		return nil, err
	}
	return embeddings.NewEmbedder(client)
}
