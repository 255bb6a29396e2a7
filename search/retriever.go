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

package search

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/poiesic/loom/core"
	"github.com/poiesic/loom/storage"
)

const (
	// DefaultAnchorLimit caps how many anchor entities seed the expansion.
	DefaultAnchorLimit = 10

	// DefaultHopDepth is the relationship expansion radius.
	DefaultHopDepth = 2

	// MaxHopDepth bounds the expansion radius a caller may request.
	MaxHopDepth = 5
)

// Anchor match scores. Relation facts decay from their anchor's score.
const (
	scoreExact     = 3.0
	scorePrefix    = 2.0
	scoreSubstring = 1.0
	hopDecay       = 0.3
	scoreFloor     = 0.1
)

// FetchOptions tunes one FetchFacts call. Zero values take the defaults.
type FetchOptions struct {
	// AnchorLimit caps the number of anchor entities. Default 10.
	AnchorLimit int

	// HopDepth is the relationship expansion radius, an integer in [1,5].
	// Default 2.
	HopDepth int
}

// Retriever finds graph facts relevant to a query by anchoring on matching
// entities and expanding a bounded number of relationship hops around them.
// Traversal is typed calls against the graph store; no query text is ever
// assembled from user input.
type Retriever struct {
	graph  storage.GraphRepository
	logger *slog.Logger
}

// NewRetriever creates a graph retriever.
func NewRetriever(graph storage.GraphRepository, logger *slog.Logger) (*Retriever, error) {
	if graph == nil {
		return nil, ErrGraphRepositoryRequired
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Retriever{
		graph:  graph,
		logger: logger.With("component", "retriever"),
	}, nil
}

// anchor is a matched entity with its defining file resolved.
type anchor struct {
	entity *core.Entity
	score  float32
	path   string
}

// FetchFacts returns graph facts relevant to the query across the given
// source scopes, ordered by descending score. Ties keep insertion order:
// anchors before their expansions, earlier anchors first. No matching
// entities yields an empty result, not an error.
func (r *Retriever) FetchFacts(ctx context.Context, query string, sourceIDs []string, opts FetchOptions) ([]core.Fact, error) {
	if opts.AnchorLimit == 0 {
		opts.AnchorLimit = DefaultAnchorLimit
	}
	if opts.HopDepth == 0 {
		opts.HopDepth = DefaultHopDepth
	}
	if opts.HopDepth < 1 || opts.HopDepth > MaxHopDepth {
		return nil, ErrInvalidHopDepth
	}
	if opts.AnchorLimit < 1 {
		opts.AnchorLimit = DefaultAnchorLimit
	}

	anchors, err := r.findAnchors(ctx, query, sourceIDs, opts.AnchorLimit)
	if err != nil {
		return nil, err
	}
	if len(anchors) == 0 {
		return []core.Fact{}, nil
	}

	facts := make([]core.Fact, 0, len(anchors))
	seenEdges := make(map[string]bool)

	for _, a := range anchors {
		facts = append(facts, core.Fact{
			Kind:     core.FactEntity,
			SourceID: a.entity.SourceID,
			Name:     a.entity.Name,
			Type:     a.entity.Type,
			Path:     a.path,
			Hops:     0,
			Score:    a.score,
		})

		expanded, err := r.expand(ctx, a, opts.HopDepth, seenEdges)
		if err != nil {
			return nil, err
		}
		facts = append(facts, expanded...)
	}

	sort.SliceStable(facts, func(i, j int) bool {
		return facts[i].Score > facts[j].Score
	})
	return facts, nil
}

// findAnchors matches the query against entity names and types in each scope
// and keeps the top limit by match quality. Exact beats prefix beats
// substring; within a tier, scope order then store order decides.
func (r *Retriever) findAnchors(ctx context.Context, query string, sourceIDs []string, limit int) ([]anchor, error) {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return nil, nil
	}

	var anchors []anchor
	for _, sourceID := range sourceIDs {
		entities, err := r.graph.EntitiesByScope(ctx, sourceID)
		if err != nil {
			return nil, err
		}
		for _, entity := range entities {
			score := matchScore(entity, needle)
			if score == 0 {
				continue
			}
			anchors = append(anchors, anchor{entity: entity, score: score})
		}
	}

	sort.SliceStable(anchors, func(i, j int) bool {
		return anchors[i].score > anchors[j].score
	})
	if len(anchors) > limit {
		anchors = anchors[:limit]
	}

	// Ground each kept anchor in its defining file. A missing mention is not
	// an error; file sources have no file nodes at all.
	for i := range anchors {
		paths, err := r.graph.MentionsOf(ctx, anchors[i].entity.SourceID, anchors[i].entity.Name)
		if err != nil {
			return nil, err
		}
		if len(paths) > 0 {
			anchors[i].path = paths[0]
		}
	}

	return anchors, nil
}

// matchScore rates how well an entity matches the lowercased needle. Name
// match quality sets the tier; an entity whose type alone matches anchors at
// the lowest tier, so a type match never outranks any name match.
func matchScore(entity *core.Entity, needle string) float32 {
	score := fieldScore(strings.ToLower(entity.Name), needle)
	if score == 0 && fieldScore(strings.ToLower(entity.Type), needle) > 0 {
		score = scoreSubstring
	}
	return score
}

func fieldScore(field, needle string) float32 {
	switch {
	case field == needle:
		return scoreExact
	case strings.HasPrefix(field, needle):
		return scorePrefix
	case strings.Contains(field, needle):
		return scoreSubstring
	default:
		return 0
	}
}

// expand walks relationships breadth-first from the anchor, up to hopDepth
// hops, staying inside the anchor's scope. Each distinct edge becomes one
// relation fact; seenEdges dedups across anchors and paths.
func (r *Retriever) expand(ctx context.Context, a anchor, hopDepth int, seenEdges map[string]bool) ([]core.Fact, error) {
	var facts []core.Fact

	visited := map[string]bool{a.entity.Name: true}
	frontier := []string{a.entity.Name}

	for hop := 1; hop <= hopDepth && len(frontier) > 0; hop++ {
		score := a.score - hopDecay*float32(hop)
		if score < scoreFloor {
			score = scoreFloor
		}

		var next []string
		for _, name := range frontier {
			edges, err := r.graph.Neighbors(ctx, a.entity.SourceID, name)
			if err != nil {
				return nil, err
			}
			for _, edge := range edges {
				other := edge.To
				if other == name {
					other = edge.From
				}
				if !visited[other] {
					visited[other] = true
					next = append(next, other)
				}

				key := edge.Key()
				if seenEdges[key] {
					continue
				}
				seenEdges[key] = true

				facts = append(facts, core.Fact{
					Kind:      core.FactRelation,
					SourceID:  edge.SourceID,
					From:      edge.From,
					Predicate: edge.Type,
					To:        edge.To,
					Hops:      hop,
					Score:     score,
				})
			}
		}
		frontier = next
	}

	return facts, nil
}
