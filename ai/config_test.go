package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	require.NotNil(t, config)
	assert.Equal(t, "http://localhost:11434/v1", config.EmbeddingHost)
	assert.Equal(t, "http://localhost:11434/v1", config.ExtractorHost)
	assert.NotEmpty(t, config.EmbeddingModel)
	assert.NotEmpty(t, config.ExtractorModel)
	assert.NoError(t, config.Validate())
}

func TestNewConfig_Options(t *testing.T) {
	config := NewConfig(
		WithHost("http://ai.internal:8080/v1"),
		WithEmbeddingModel("text-embedding-3-small"),
		WithExtractorModel("gpt-4o-mini"),
		WithProvider("openai"),
	)

	assert.Equal(t, "http://ai.internal:8080/v1", config.EmbeddingHost)
	assert.Equal(t, "http://ai.internal:8080/v1", config.ExtractorHost)
	assert.Equal(t, "text-embedding-3-small", config.EmbeddingModel)
	assert.Equal(t, "gpt-4o-mini", config.ExtractorModel)
	assert.Equal(t, "openai", config.Provider)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:    "missing embedding host",
			mutate:  func(c *Config) { c.EmbeddingHost = "" },
			wantErr: ErrEmbeddingHostRequired,
		},
		{
			name:    "missing extractor host",
			mutate:  func(c *Config) { c.ExtractorHost = "" },
			wantErr: ErrExtractorHostRequired,
		},
		{
			name:    "missing embedding model",
			mutate:  func(c *Config) { c.EmbeddingModel = "" },
			wantErr: ErrEmbeddingModelRequired,
		},
		{
			name:    "missing extractor model",
			mutate:  func(c *Config) { c.ExtractorModel = "" },
			wantErr: ErrExtractorModelRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config)
			assert.ErrorIs(t, config.Validate(), tt.wantErr)
		})
	}
}

func TestConfig_Validate_NormalizesHosts(t *testing.T) {
	config := NewConfig(WithHost("http://localhost:11434/v1/ "))
	require.NoError(t, config.Validate())
	assert.Equal(t, "http://localhost:11434/v1", config.EmbeddingHost)
	assert.Equal(t, "http://localhost:11434/v1", config.ExtractorHost)
}

func TestRepoSchema(t *testing.T) {
	schema := RepoSchema()
	assert.False(t, schema.Open())
	assert.Contains(t, schema.AllowedNodeTypes, "Function")
	assert.Contains(t, schema.AllowedRelationshipTypes, "DEPENDS_ON")
}

func TestFileSchema_Open(t *testing.T) {
	assert.True(t, FileSchema().Open())
}
