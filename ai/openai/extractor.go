// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package openai

import (
	"context"
	"encoding/json"
	"log/slog"
	"slices"
	"strings"

	"github.com/poiesic/loom/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// GraphExtractor implements ai.GraphExtractor using OpenAI-compatible chat APIs.
type GraphExtractor struct {
	client llms.Model
	logger *slog.Logger
}

// node and relationship are internal types used for JSON unmarshaling.
// They match the structure expected from the LLM.
type node struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

type relationship struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Type   string `json:"type"`
}

// extraction is the wrapper structure for the LLM's JSON response.
type extraction struct {
	Nodes         []node         `json:"nodes"`
	Relationships []relationship `json:"relationships"`
}

// newGraphExtractor is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newGraphExtractor(config *ai.Config) (*GraphExtractor, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Create OpenAI client configured for chat/extraction
	// Use "none" as token for local OpenAI-compatible services that don't require authentication
	client, err := openai.New(
		openai.WithBaseURL(config.ExtractorHost),
		openai.WithToken("none"),
		openai.WithModel(config.ExtractorModel),
	)
	if err != nil {
		return nil, err
	}

	return &GraphExtractor{
		client: client,
		logger: slog.Default().With("component", "openai-extractor"),
	}, nil
}

// NewGraphExtractor creates a new graph extractor using the provided configuration.
//
// Returns ai.GraphExtractor interface to enforce abstraction.
func NewGraphExtractor(config *ai.Config) (ai.GraphExtractor, error) {
	return newGraphExtractor(config)
}

// ExtractGraph extracts typed entities and relationships from text using an LLM.
// When the schema is closed, results outside its vocabularies are filtered out.
func (e *GraphExtractor) ExtractGraph(ctx context.Context, text string, schema ai.ExtractionSchema) (*ai.ExtractedGraph, error) {
	systemPrompt := buildExtractionPrompt(schema)
	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(systemPrompt),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(text),
			},
		},
	}

	// Try up to 3 times in case of malformed JSON
	var result extraction
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		response, err := e.client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
		if err != nil {
			e.logger.Error("failed to generate content", "attempt", attempt+1, "err", err)
			return nil, err
		}

		if len(response.Choices) < 1 {
			e.logger.Debug("no choices returned from model")
			return &ai.ExtractedGraph{}, nil
		}

		choice := response.Choices[0]

		// Strip markdown code fences if present
		responseText := strings.TrimSpace(choice.Content)
		responseText = strings.TrimPrefix(responseText, "```json")
		responseText = strings.TrimPrefix(responseText, "```")
		responseText = strings.TrimSuffix(responseText, "```")
		responseText = strings.TrimSpace(responseText)

		// Try to repair common JSON issues
		responseText = repairJSON(responseText)

		if err := json.Unmarshal([]byte(responseText), &result); err != nil {
			lastErr = err
			e.logger.Warn("error parsing extractor response",
				"attempt", attempt+1,
				"response", responseText,
				"err", err)
			continue
		}

		// Success
		lastErr = nil
		break
	}

	if lastErr != nil {
		e.logger.Error("failed to parse extractor response after retries", "err", lastErr)
		return nil, lastErr
	}

	graph := &ai.ExtractedGraph{
		Nodes:         make([]ai.ExtractedNode, 0, len(result.Nodes)),
		Relationships: make([]ai.ExtractedRelationship, 0, len(result.Relationships)),
	}

	for _, n := range result.Nodes {
		if len(schema.AllowedNodeTypes) > 0 && !slices.Contains(schema.AllowedNodeTypes, n.Type) {
			e.logger.Debug("dropping node outside vocabulary", "id", n.ID, "type", n.Type)
			continue
		}
		graph.Nodes = append(graph.Nodes, ai.ExtractedNode{
			ID:   n.ID,
			Type: n.Type,
		})
	}

	for _, r := range result.Relationships {
		if len(schema.AllowedRelationshipTypes) > 0 && !slices.Contains(schema.AllowedRelationshipTypes, r.Type) {
			e.logger.Debug("dropping relationship outside vocabulary", "type", r.Type)
			continue
		}
		graph.Relationships = append(graph.Relationships, ai.ExtractedRelationship{
			Source: r.Source,
			Target: r.Target,
			Type:   r.Type,
		})
	}

	e.logger.Debug("extracted graph",
		"nodes", len(graph.Nodes),
		"relationships", len(graph.Relationships))

	return graph, nil
}
