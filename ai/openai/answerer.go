package openai

import (
	"context"
	"log/slog"
	"strings"

	"github.com/poiesic/loom/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Answerer implements ai.Answerer using OpenAI-compatible chat APIs.
type Answerer struct {
	client llms.Model
	logger *slog.Logger
}

// newAnswerer is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newAnswerer(config *ai.Config) (*Answerer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.ExtractorHost),
		openai.WithToken("none"),
		openai.WithModel(config.ExtractorModel),
	)
	if err != nil {
		return nil, err
	}

	return &Answerer{
		client: client,
		logger: slog.Default().With("component", "openai-answerer"),
	}, nil
}

// NewAnswerer creates a new answerer using the provided configuration.
//
// Returns ai.Answerer interface to enforce abstraction.
func NewAnswerer(config *ai.Config) (ai.Answerer, error) {
	return newAnswerer(config)
}

// Answer generates a response to the query grounded in the given evidence.
func (a *Answerer) Answer(ctx context.Context, query string, contextText string) (string, error) {
	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(buildAnswerPrompt(contextText)),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(query),
			},
		},
	}

	response, err := a.client.GenerateContent(ctx, content, llms.WithTemperature(0.2))
	if err != nil {
		a.logger.Error("failed to generate answer", "err", err)
		return "", err
	}

	if len(response.Choices) < 1 {
		a.logger.Debug("no choices returned from model")
		return "", nil
	}

	return strings.TrimSpace(response.Choices[0].Content), nil
}
