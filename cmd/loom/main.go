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


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/poiesic/loom"
	"github.com/poiesic/loom/ai"
	"github.com/poiesic/loom/core"
	"github.com/poiesic/loom/search"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "loom",
		Usage: "Dual-index content ingestion and graph retrieval",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "ingest-file",
				Usage:     "Ingest a single document",
				ArgsUsage: "<path>",
				Action:    ingestFileCommand,
				Flags: append(engineFlags(),
					&cli.StringFlag{
						Name:  "title",
						Usage: "Source title (defaults to the file name)",
					},
					&cli.BoolFlag{
						Name:  "wait",
						Usage: "Block until the graph build settles",
					},
				),
			},
			{
				Name:      "ingest-repo",
				Usage:     "Ingest a directory of files as one repository source",
				ArgsUsage: "<dir>",
				Action:    ingestRepoCommand,
				Flags: append(engineFlags(),
					&cli.StringFlag{
						Name:  "title",
						Usage: "Source title (defaults to the directory name)",
					},
					&cli.BoolFlag{
						Name:  "wait",
						Usage: "Block until the graph build settles",
					},
				),
			},
			{
				Name:      "search",
				Usage:     "Hybrid search across sources",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: append(engineFlags(),
					&cli.StringSliceFlag{
						Name:     "source",
						Aliases:  []string{"s"},
						Usage:    "Source ID to search (repeatable)",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "max-hits",
						Usage: "Maximum chunk results",
						Value: 8,
					},
					&cli.IntFlag{
						Name:  "hop-depth",
						Usage: "Graph expansion radius (1-5)",
						Value: search.DefaultHopDepth,
					},
					&cli.BoolFlag{
						Name:  "answer",
						Usage: "Generate a grounded answer from the results",
					},
				),
			},
			{
				Name:      "status",
				Usage:     "Report the indexing state of a source",
				ArgsUsage: "<source-id>",
				Action:    statusCommand,
				Flags:     engineFlags(),
			},
			{
				Name:   "list",
				Usage:  "List sources for an owner",
				Action: listCommand,
				Flags:  engineFlags(),
			},
			{
				Name:      "delete",
				Usage:     "Delete a source and its indexes",
				ArgsUsage: "<source-id>",
				Action:    deleteCommand,
				Flags:     engineFlags(),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// engineFlags are the flags shared by every command that opens an engine.
func engineFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "db",
			Aliases:  []string{"d"},
			Usage:    "Path to BadgerDB database directory",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "owner",
			Usage: "Owner ID for source records",
			Value: "local",
		},
		&cli.StringFlag{
			Name:  "embedding-host",
			Usage: "Embedding service host URL",
			Value: "http://localhost:11434/v1",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
			Value: "embeddinggemma",
		},
		&cli.StringFlag{
			Name:  "extractor-host",
			Usage: "Extraction service host URL (defaults to embedding-host)",
		},
		&cli.StringFlag{
			Name:  "extractor-model",
			Usage: "Extraction model name",
			Value: "qwen2.5:3b",
		},
	}
}

func openEngine(c *cli.Context) (*loom.Engine, error) {
	extractorHost := c.String("extractor-host")
	if extractorHost == "" {
		extractorHost = c.String("embedding-host")
	}

	config := ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithExtractorHost(extractorHost),
		ai.WithExtractorModel(c.String("extractor-model")),
	)
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	engine, err := loom.NewEngine(c.String("db"), loom.WithAIConfig(config))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return engine, nil
}

func ingestFileCommand(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		return fmt.Errorf("file path is required")
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	title := c.String("title")
	if title == "" {
		title = filepath.Base(path)
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	ctx := context.Background()
	source, err := engine.Ingest(ctx, c.String("owner"), title, string(content))
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	fmt.Printf("source %s created (%s)\n", source.ID, source.Status)
	if c.Bool("wait") {
		return waitForSettled(ctx, engine, source.ID)
	}
	return nil
}

func ingestRepoCommand(c *cli.Context) error {
	dir := c.Args().First()
	if dir == "" {
		return fmt.Errorf("directory path is required")
	}

	files, err := collectRepoFiles(dir)
	if err != nil {
		return fmt.Errorf("failed to read directory: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no text files found under %s", dir)
	}

	title := c.String("title")
	if title == "" {
		title = filepath.Base(filepath.Clean(dir))
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	ctx := context.Background()
	source, err := engine.IngestRepo(ctx, c.String("owner"), title, files)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	fmt.Printf("source %s created from %d files (%s)\n", source.ID, len(files), source.Status)
	if c.Bool("wait") {
		return waitForSettled(ctx, engine, source.ID)
	}
	return nil
}

// waitForSettled polls until the source leaves the Indexing state.
func waitForSettled(ctx context.Context, engine *loom.Engine, sourceID string) error {
	for {
		report, err := engine.Status(ctx, sourceID)
		if err != nil {
			return err
		}
		switch report.Status {
		case core.StatusIndexed:
			fmt.Printf("graph ready: %d entities, %d relationships\n",
				report.Graph.EntityCount, report.Graph.RelationCount)
			return nil
		case core.StatusFailed:
			return fmt.Errorf("indexing failed for source %s", sourceID)
		}
		time.Sleep(500 * time.Millisecond)
	}
}

func searchCommand(c *cli.Context) error {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("query is required")
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	ctx := context.Background()
	sourceIDs := c.StringSlice("source")

	if c.Bool("answer") {
		answer, result, err := engine.Answer(ctx, query, sourceIDs, c.Int("max-hits"))
		if err != nil {
			return err
		}
		fmt.Println(answer)
		fmt.Printf("\n(%d chunks, %d facts)\n", len(result.Chunks), len(result.Facts))
		return nil
	}

	result, err := engine.Searcher().SearchWithOptions(ctx, query, sourceIDs, c.Int("max-hits"),
		search.FetchOptions{HopDepth: c.Int("hop-depth")})
	if err != nil {
		return err
	}

	for _, fact := range result.Facts {
		switch fact.Kind {
		case core.FactEntity:
			fmt.Printf("[%.2f] %s (%s)", fact.Score, fact.Name, fact.Type)
			if fact.Path != "" {
				fmt.Printf("  %s", fact.Path)
			}
			fmt.Println()
		case core.FactRelation:
			fmt.Printf("[%.2f] %s %s %s  (hop %d)\n", fact.Score, fact.From, fact.Predicate, fact.To, fact.Hops)
		}
	}
	for _, match := range result.Chunks {
		fmt.Printf("[%.2f] %s\n", match.Score, firstLine(match.Chunk.Text))
	}
	return nil
}

func statusCommand(c *cli.Context) error {
	sourceID := c.Args().First()
	if sourceID == "" {
		return fmt.Errorf("source ID is required")
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	report, err := engine.Status(context.Background(), sourceID)
	if err != nil {
		return err
	}

	fmt.Printf("source:  %s\n", report.SourceID)
	fmt.Printf("status:  %s\n", report.Status)
	fmt.Printf("vector:  ready=%t\n", report.Vector.Ready)
	fmt.Printf("graph:   ready=%t entities=%d relationships=%d\n",
		report.Graph.Ready, report.Graph.EntityCount, report.Graph.RelationCount)
	return nil
}

func listCommand(c *cli.Context) error {
	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	sources, err := engine.List(context.Background(), c.String("owner"))
	if err != nil {
		return err
	}

	for _, source := range sources {
		fmt.Printf("%s  %-8s %-8s %s\n", source.ID, source.Type, source.Status, source.Title)
	}
	return nil
}

func deleteCommand(c *cli.Context) error {
	sourceID := c.Args().First()
	if sourceID == "" {
		return fmt.Errorf("source ID is required")
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	if err := engine.Delete(context.Background(), sourceID, c.String("owner")); err != nil {
		return err
	}
	fmt.Printf("source %s deleted\n", sourceID)
	return nil
}

func firstLine(text string) string {
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	if len(text) > 120 {
		text = text[:120] + "..."
	}
	return text
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
