package core

import (
	"testing"
)

func TestIDFromContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "same content produces same ID",
			content: "test content",
		},
		{
			name:    "empty string",
			content: "",
		},
		{
			name:    "long content",
			content: "This is a much longer piece of content that should still hash consistently",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id1 := IDFromContent(tt.content)
			id2 := IDFromContent(tt.content)

			if id1 != id2 {
				t.Errorf("IDFromContent() produced different IDs for same content: %d vs %d", id1, id2)
			}
		})
	}
}

func TestIDFromContent_Different(t *testing.T) {
	id1 := IDFromContent("content1")
	id2 := IDFromContent("content2")

	if id1 == id2 {
		t.Errorf("IDFromContent() produced same ID for different content")
	}
}

func TestNewSourceID_Unique(t *testing.T) {
	if NewSourceID() == NewSourceID() {
		t.Errorf("NewSourceID() produced duplicate IDs")
	}
}

func TestCollectionName(t *testing.T) {
	tests := []struct {
		name     string
		sourceID string
		want     string
	}{
		{
			name:     "basic id",
			sourceID: "abc123",
			want:     "loom_abc123",
		},
		{
			name:     "uuid id",
			sourceID: "d2c0a960-1111-4b8f-9d93-6f2e1b6f0a11",
			want:     "loom_d2c0a960-1111-4b8f-9d93-6f2e1b6f0a11",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CollectionName(tt.sourceID); got != tt.want {
				t.Errorf("CollectionName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSourceStatus_CanTransition(t *testing.T) {
	tests := []struct {
		name string
		from SourceStatus
		to   SourceStatus
		want bool
	}{
		{"uploaded to indexing", StatusUploaded, StatusIndexing, true},
		{"uploaded to failed", StatusUploaded, StatusFailed, true},
		{"uploaded to indexed skips indexing", StatusUploaded, StatusIndexed, false},
		{"indexing to indexed", StatusIndexing, StatusIndexed, true},
		{"indexing to failed", StatusIndexing, StatusFailed, true},
		{"indexing back to uploaded", StatusIndexing, StatusUploaded, false},
		{"indexed is terminal", StatusIndexed, StatusIndexing, false},
		{"failed is terminal", StatusFailed, StatusIndexing, false},
		{"failed stays failed", StatusFailed, StatusFailed, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.from.CanTransition(tt.to); got != tt.want {
				t.Errorf("CanTransition(%v -> %v) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestRelationship_Key(t *testing.T) {
	a := Relationship{SourceID: "s1", From: "parser", To: "lexer", Type: "USES"}
	b := Relationship{SourceID: "s1", From: "parser", To: "lexer", Type: "USES"}
	c := Relationship{SourceID: "s2", From: "parser", To: "lexer", Type: "USES"}

	if a.Key() != b.Key() {
		t.Errorf("identical relationships produced different keys")
	}
	if a.Key() == c.Key() {
		t.Errorf("relationships in different scopes produced the same key")
	}
}

func TestChunk_Path(t *testing.T) {
	chunk := &Chunk{Metadata: map[string]string{MetaPath: "pkg/parser.go"}}
	if got := chunk.Path(); got != "pkg/parser.go" {
		t.Errorf("Path() = %q, want %q", got, "pkg/parser.go")
	}

	empty := &Chunk{}
	if got := empty.Path(); got != "" {
		t.Errorf("Path() on chunk without metadata = %q, want empty", got)
	}
}
