package openai

import (
	"fmt"
	"strings"

	"github.com/poiesic/loom/ai"
)

const extractionResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "nodes": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "id": {
            "type": "string"
          },
          "type": {
            "type": "string"
          }
        },
        "required": ["id", "type"],
        "additionalProperties": false
      }
    },
    "relationships": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "source": {
            "type": "string"
          },
          "target": {
            "type": "string"
          },
          "type": {
            "type": "string"
          }
        },
        "required": ["source", "target", "type"],
        "additionalProperties": false
      }
    }
  },
  "required": ["nodes", "relationships"],
  "additionalProperties": false
}`

const extractionPromptTemplate = `Extract the entities and relationships described by the given text and return them as JSON.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
greeting, or acknowledgment. Start your response directly with the opening brace { and end with the closing
brace }. Your output must exactly follow this schema:

%s

Rules:
- A node's "id" is the entity identifier exactly as it appears in the text.
- %s
- %s
- A relationship's "source" and "target" must reference node ids from the same response.
- Include only entities and relationships that are explicitly mentioned or clearly implied by the text. Do not hallucinate.
- If nothing can be identified, return "nodes": [] and "relationships": [].
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.

Example (prose):
Input: "The Eiffel Tower is a landmark in Paris."
Output:
{
  "nodes": [
    {"id":"Eiffel Tower","type":"building"},
    {"id":"Paris","type":"place"}
  ],
  "relationships": [
    {"source":"Eiffel Tower","target":"Paris","type":"LOCATED_IN"}
  ]
}

Example (code):
Input: "func NewServer(store Store) *Server — Server dispatches requests to the Store interface."
Output:
{
  "nodes": [
    {"id":"Server","type":"Class"},
    {"id":"Store","type":"Class"},
    {"id":"NewServer","type":"Function"}
  ],
  "relationships": [
    {"source":"Server","target":"Store","type":"USES"},
    {"source":"NewServer","target":"Server","type":"RELATED_TO"}
  ]
}`

// buildExtractionPrompt constructs the system prompt for graph extraction,
// constrained by the schema's vocabularies when they are closed.
func buildExtractionPrompt(schema ai.ExtractionSchema) string {
	nodeRule := `The "type" field is a free-form category label for the entity (e.g. "person", "place", "technology").`
	if len(schema.AllowedNodeTypes) > 0 {
		nodeRule = fmt.Sprintf(`A node's "type" must match exactly one of the listed values: %s.`,
			strings.Join(schema.AllowedNodeTypes, ", "))
	}

	relRule := `A relationship's "type" is a short UPPER_SNAKE_CASE predicate (e.g. "LOCATED_IN", "AUTHORED_BY").`
	if len(schema.AllowedRelationshipTypes) > 0 {
		relRule = fmt.Sprintf(`A relationship's "type" must match exactly one of the listed values: %s.`,
			strings.Join(schema.AllowedRelationshipTypes, ", "))
	}

	return fmt.Sprintf(extractionPromptTemplate, extractionResponseSchema, nodeRule, relRule)
}

const answerPromptTemplate = `You answer questions using only the evidence provided below. The evidence consists of
text excerpts and graph facts retrieved from the user's ingested sources.

Rules:
- Ground every claim in the evidence; do not use outside knowledge.
- If the evidence does not answer the question, say so plainly.
- Cite file paths from the evidence when they are present.

Evidence:
%s`

// buildAnswerPrompt constructs the system prompt for grounded answer generation.
func buildAnswerPrompt(contextText string) string {
	return fmt.Sprintf(answerPromptTemplate, contextText)
}
