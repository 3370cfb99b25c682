package openai

import (
	"context"
	"errors"
	"log/slog"

	"github.com/poiesic/laqrag/ai"
	"github.com/tmc/langchaingo/llms"
)

// ErrNoChoices indicates the model returned no completion choices.
var ErrNoChoices = errors.New("model returned no choices")

// Generator implements ai.Generator using OpenAI-compatible chat APIs.
// Decoding is deterministic (temperature zero) and non-streaming.
type Generator struct {
	client llms.Model
	logger *slog.Logger
}

// newGenerator is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newGenerator(client llms.Model) *Generator {
	return &Generator{
		client: client,
		logger: slog.Default().With("component", "openai-generator"),
	}
}

// NewGenerator creates a generator using the provided configuration.
//
// Returns ai.Generator interface to enforce abstraction.
func NewGenerator(config *ai.Config) (ai.Generator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	client, err := newChatClient(config)
	if err != nil {
		return nil, err
	}
	return newGenerator(client), nil
}

// Generate produces the model's text completion for the prompt, unmodified.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	content := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(prompt)},
		},
	}

	response, err := g.client.GenerateContent(ctx, content, llms.WithTemperature(0.0))
	if err != nil {
		g.logger.Error("failed to generate content", "err", err)
		return "", err
	}
	if len(response.Choices) < 1 {
		return "", ErrNoChoices
	}

	return response.Choices[0].Content, nil
}
