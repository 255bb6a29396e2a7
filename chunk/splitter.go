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


package chunk

import (
	"log/slog"
	"strings"

	"github.com/poiesic/loom/core"
	"github.com/tmc/langchaingo/textsplitter"
)

const (
	defaultDocWindow  = 1000
	defaultDocOverlap = 200

	// Repo files below this size are kept whole so structural extraction sees
	// full-file context; larger files get disjoint windows since cross-chunk
	// continuity matters less for code than losing unrelated content.
	defaultWholeFileLimit = 2000
	defaultRepoWindow     = 1500
)

// Splitter cuts ingested content into retrievable chunks with a source-aware
// strategy: overlapping windows for documents, per-file windows for repos.
type Splitter struct {
	docWindow      int
	docOverlap     int
	wholeFileLimit int
	repoWindow     int
	logger         *slog.Logger
}

// Option configures a Splitter.
type Option func(*Splitter) error

// WithDocumentWindow sets the window size and overlap for document content.
func WithDocumentWindow(window, overlap int) Option {
	return func(s *Splitter) error {
		if window < 1 {
			return ErrInvalidWindow
		}
		if overlap < 0 || overlap >= window {
			return ErrInvalidOverlap
		}
		s.docWindow = window
		s.docOverlap = overlap
		return nil
	}
}

// WithRepoWindow sets the whole-file limit and window size for repo content.
func WithRepoWindow(wholeFileLimit, window int) Option {
	return func(s *Splitter) error {
		if wholeFileLimit < 1 || window < 1 {
			return ErrInvalidWindow
		}
		s.wholeFileLimit = wholeFileLimit
		s.repoWindow = window
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Splitter) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewSplitter creates a splitter with default window sizes.
func NewSplitter(opts ...Option) (*Splitter, error) {
	s := &Splitter{
		docWindow:      defaultDocWindow,
		docOverlap:     defaultDocOverlap,
		wholeFileLimit: defaultWholeFileLimit,
		repoWindow:     defaultRepoWindow,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// SplitDocument splits document text into overlapping windows. The overlap
// guards against entities cut in half at a window boundary.
// Empty content is rejected before anything is written anywhere.
func (s *Splitter) SplitDocument(text string) ([]core.Chunk, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyContent
	}

	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(s.docWindow),
		textsplitter.WithChunkOverlap(s.docOverlap),
	)
	pieces, err := splitter.SplitText(text)
	if err != nil {
		return nil, err
	}

	chunks := make([]core.Chunk, 0, len(pieces))
	for i, piece := range pieces {
		chunks = append(chunks, core.Chunk{
			Text:     piece,
			Ordinal:  i,
			Metadata: map[string]string{},
		})
	}

	s.logger.Debug("split document", "chunks", len(chunks))
	return chunks, nil
}

// SplitRepo splits repository files at per-file granularity. Small files are
// kept as one chunk; large files are cut into disjoint windows. Every chunk is
// tagged with its path, inferred language and file type.
// An input with no non-empty files is rejected.
func (s *Splitter) SplitRepo(files []core.RepoFile) ([]core.Chunk, error) {
	if len(files) == 0 {
		return nil, ErrEmptyContent
	}

	var chunks []core.Chunk
	ordinal := 0
	for _, file := range files {
		if strings.TrimSpace(file.Content) == "" {
			s.logger.Debug("skipping empty file", "path", file.Path)
			continue
		}

		pieces, err := s.splitFile(file.Content)
		if err != nil {
			return nil, err
		}

		language := InferLanguage(file.Path)
		fileType := FileTypeFor(file.Path)
		for _, piece := range pieces {
			chunks = append(chunks, core.Chunk{
				Text:    piece,
				Ordinal: ordinal,
				Metadata: map[string]string{
					core.MetaPath:     file.Path,
					core.MetaLanguage: language,
					core.MetaFileType: fileType,
				},
			})
			ordinal++
		}
	}

	if len(chunks) == 0 {
		return nil, ErrEmptyContent
	}

	s.logger.Debug("split repo", "files", len(files), "chunks", len(chunks))
	return chunks, nil
}

func (s *Splitter) splitFile(content string) ([]string, error) {
	if len(content) < s.wholeFileLimit {
		return []string{content}, nil
	}

	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(s.repoWindow),
		textsplitter.WithChunkOverlap(0),
	)
	return splitter.SplitText(content)
}
