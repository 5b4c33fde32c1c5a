package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"readerschat/internal/config"
)

// Generator is the completion service contract the answer pipeline depends
// on: one blocking call and one streaming call whose concatenated fragments
// equal the blocking answer.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Stream(ctx context.Context, prompt string, fn func(ctx context.Context, chunk []byte) error) (string, error)
}

// Client implements Generator over a langchaingo chat model
type Client struct {
	model llms.Model
}

func NewClient(cfg *config.LLMConfig) (*Client, error) {
	if cfg.Provider == "ollama" {
		model, err := ollama.New(
			ollama.WithServerURL(cfg.BaseURL),
			ollama.WithModel(cfg.Model),
		)
		if err != nil {
			return nil, err
		}
		return &Client{model: model}, nil
	}

	opts := []openai.Option{
		openai.WithToken(strings.TrimPrefix(cfg.Key(), "Bearer ")),
		openai.WithModel(cfg.Model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}
	model, err := openai.New(opts...)
	if err != nil {
		return nil, err
	}
	return &Client{model: model}, nil
}

func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	res, err := c.model.GenerateContent(ctx, promptMessages(prompt), llms.WithTemperature(0))
	if err != nil {
		return "", err
	}
	if len(res.Choices) == 0 {
		return "", fmt.Errorf("completion returned no choices")
	}
	return res.Choices[0].Content, nil
}

func (c *Client) Stream(ctx context.Context, prompt string, fn func(ctx context.Context, chunk []byte) error) (string, error) {
	var full strings.Builder
	res, err := c.model.GenerateContent(ctx, promptMessages(prompt),
		llms.WithTemperature(0),
		llms.WithStreamingFunc(func(ctx context.Context, chunk []byte) error {
			full.Write(chunk)
			return fn(ctx, chunk)
		}),
	)
	if err != nil {
		return "", err
	}
	if full.Len() == 0 && len(res.Choices) > 0 {
		// some providers ignore the streaming option and answer in one shot
		return res.Choices[0].Content, nil
	}
	return full.String(), nil
}

func promptMessages(prompt string) []llms.MessageContent {
	return []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextContent{Text: prompt}},
		},
	}
}
