package ai

// ExtractedNode is one entity identified in text. The extractor's identifier
// doubles as the graph merge key within a source scope.
type ExtractedNode struct {
	// ID is the entity identifier as it appeared in the text, e.g. "ParseConfig"
	// or "eiffel tower".
	ID string

	// Type categorizes the entity (e.g. "Function", "place"). Constrained by the
	// schema when one is given.
	Type string
}

// ExtractedRelationship is one directed, typed edge identified in text.
// Source and Target reference ExtractedNode IDs from the same extraction pass.
type ExtractedRelationship struct {
	Source string
	Target string
	Type   string
}

// ExtractedGraph is the result of one extraction call over one chunk of text.
type ExtractedGraph struct {
	Nodes         []ExtractedNode
	Relationships []ExtractedRelationship
}

// ExtractionSchema constrains the vocabularies an extractor may use.
// Empty slices mean the vocabulary is open.
type ExtractionSchema struct {
	AllowedNodeTypes         []string
	AllowedRelationshipTypes []string
}

// Open reports whether the schema places no vocabulary constraints.
func (s ExtractionSchema) Open() bool {
	return len(s.AllowedNodeTypes) == 0 && len(s.AllowedRelationshipTypes) == 0
}

// RepoNodeTypes is the constrained node vocabulary for repository sources.
// Code structure is regular enough that a fixed vocabulary keeps the graph coherent.
var RepoNodeTypes = []string{
	"Class",
	"Function",
	"Module",
	"Component",
	"Service",
	"Concept",
}

// RepoRelationshipTypes is the constrained relationship vocabulary for repository sources.
var RepoRelationshipTypes = []string{
	"USES",
	"DEPENDS_ON",
	"IMPLEMENTS",
	"PART_OF",
	"RELATED_TO",
}

// FileSchema returns the open-vocabulary schema used for document sources.
func FileSchema() ExtractionSchema {
	return ExtractionSchema{}
}

// RepoSchema returns the constrained schema used for repository sources.
func RepoSchema() ExtractionSchema {
	return ExtractionSchema{
		AllowedNodeTypes:         RepoNodeTypes,
		AllowedRelationshipTypes: RepoRelationshipTypes,
	}
}
