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


package ai

import (
	"errors"
	"strings"
)

// Config holds configuration for AI service providers.
type Config struct {
	// EmbeddingHost is the base URL for the embedding service API.
	// Example: "http://localhost:11434/v1" for a local OpenAI-compatible server
	EmbeddingHost string

	// ExtractorHost is the base URL for the extraction/answering service API.
	// Example: "http://localhost:11434/v1" for a local OpenAI-compatible server
	ExtractorHost string

	// EmbeddingModel is the model identifier to use for text embeddings.
	// Example: "embeddinggemma", "text-embedding-3-small"
	EmbeddingModel string

	// ExtractorModel is the model identifier to use for entity/relationship
	// extraction and answer generation.
	// Example: "qwen2.5:3b", "gpt-4o-mini"
	ExtractorModel string

	// Provider is a label recorded in VectorIndexMetadata so the status surface
	// can report which embedding provider built a collection.
	Provider string
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithEmbeddingHost sets the embedding service host URL.
func WithEmbeddingHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
	}
}

// WithExtractorHost sets the extraction service host URL.
func WithExtractorHost(host string) ConfigOption {
	return func(c *Config) {
		c.ExtractorHost = host
	}
}

// WithHost sets both embedding and extractor hosts to the same URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
		c.ExtractorHost = host
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithExtractorModel sets the extractor model identifier.
func WithExtractorModel(model string) ConfigOption {
	return func(c *Config) {
		c.ExtractorModel = model
	}
}

// WithProvider sets the provider label recorded in index metadata.
func WithProvider(provider string) ConfigOption {
	return func(c *Config) {
		c.Provider = provider
	}
}

// DefaultConfig returns a Config with sensible defaults for local OpenAI-compatible services.
// By default, both embedding and extraction use the same host.
func DefaultConfig() *Config {
	defaultHost := "http://localhost:11434/v1"
	return &Config{
		EmbeddingHost:  defaultHost,
		ExtractorHost:  defaultHost,
		EmbeddingModel: "embeddinggemma",
		ExtractorModel: "qwen2.5:3b",
		Provider:       "openai-compatible",
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
// This is the recommended way to create a Config with custom settings.
func NewConfig(opts ...ConfigOption) *Config {
	config := DefaultConfig()
	for _, opt := range opts {
		opt(config)
	}
	return config
}

// Config validation errors
var (
	// ErrEmbeddingHostRequired is returned when the embedding host is missing.
	ErrEmbeddingHostRequired = errors.New("embedding host required")

	// ErrExtractorHostRequired is returned when the extractor host is missing.
	ErrExtractorHostRequired = errors.New("extractor host required")

	// ErrEmbeddingModelRequired is returned when the embedding model is missing.
	ErrEmbeddingModelRequired = errors.New("embedding model required")

	// ErrExtractorModelRequired is returned when the extractor model is missing.
	ErrExtractorModelRequired = errors.New("extractor model required")
)

// Validate checks the configuration and normalizes host URLs.
// Trailing slashes are stripped so path joining behaves consistently.
func (c *Config) Validate() error {
	c.EmbeddingHost = strings.TrimRight(strings.TrimSpace(c.EmbeddingHost), "/")
	c.ExtractorHost = strings.TrimRight(strings.TrimSpace(c.ExtractorHost), "/")

	if c.EmbeddingHost == "" {
		return ErrEmbeddingHostRequired
	}
	if c.ExtractorHost == "" {
		return ErrExtractorHostRequired
	}
	if c.EmbeddingModel == "" {
		return ErrEmbeddingModelRequired
	}
	if c.ExtractorModel == "" {
		return ErrExtractorModelRequired
	}
	if c.Provider == "" {
		c.Provider = "openai-compatible"
	}
	return nil
}
