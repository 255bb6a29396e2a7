package openai

import (
	"encoding/json"
	"testing"

	"github.com/poiesic/loom/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepairJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "valid json untouched",
			input: `{"nodes":[{"id":"a","type":"Class"}]}`,
			want:  `{"nodes":[{"id":"a","type":"Class"}]}`,
		},
		{
			name:  "missing opening quote on key",
			input: `{"id":"a", type":"Class"}`,
			want:  `{"id":"a", "type":"Class"}`,
		},
		{
			name:  "trailing comma in object",
			input: `{"id":"a","type":"Class",}`,
			want:  `{"id":"a","type":"Class"}`,
		},
		{
			name:  "trailing comma in array",
			input: `{"nodes":[{"id":"a","type":"b"},]}`,
			want:  `{"nodes":[{"id":"a","type":"b"}]}`,
		},
		{
			name: "trailing comma before newline",
			input: `{"nodes":[],
}`,
			want: `{"nodes":[]
}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := repairJSON(tt.input)
			assert.Equal(t, tt.want, got)

			var parsed map[string]any
			require.NoError(t, json.Unmarshal([]byte(got), &parsed), "repaired JSON must parse")
		})
	}
}

func TestBuildExtractionPrompt(t *testing.T) {
	open := buildExtractionPrompt(ai.FileSchema())
	assert.Contains(t, open, "free-form category label")

	constrained := buildExtractionPrompt(ai.RepoSchema())
	assert.Contains(t, constrained, "Class, Function, Module")
	assert.Contains(t, constrained, "USES, DEPENDS_ON")
}
