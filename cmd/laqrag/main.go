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
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/poiesic/laqrag"
	"github.com/poiesic/laqrag/ai"
	"github.com/poiesic/laqrag/config"
	"github.com/poiesic/laqrag/core"
	"github.com/poiesic/laqrag/reembed"
	"github.com/poiesic/laqrag/search"
	"github.com/urfave/cli/v2"
)

// appConfig is loaded once in the Before hook and read by every command.
var appConfig *config.AppConfig

func main() {
	app := &cli.App{
		Name:  "laqrag",
		Usage: "Semantic search over Legislative Assembly Question archives",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML config file",
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to the database directory (overrides config)",
			},
		},
		Before: setup,
		Commands: []*cli.Command{
			{
				Name:      "upload",
				Usage:     "Ingest one or more LAQ PDF documents",
				ArgsUsage: "FILE [FILE...]",
				Action:    uploadCommand,
			},
			{
				Name:      "search",
				Usage:     "Search the archive for matching Q&A pairs",
				ArgsUsage: "QUERY",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "top-k",
						Aliases: []string{"k"},
						Usage:   "Number of results to return",
						Value:   search.DefaultTopK,
					},
				},
			},
			{
				Name:      "chat",
				Usage:     "Ask a question answered from the archive",
				ArgsUsage: "QUERY",
				Action:    chatCommand,
			},
			{
				Name:   "info",
				Usage:  "Show database statistics",
				Action: infoCommand,
			},
			{
				Name:   "clear",
				Usage:  "Delete every stored Q&A pair",
				Action: clearCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Skip the confirmation check",
					},
				},
			},
			{
				Name:   "reembed",
				Usage:  "Reembed all stored items with the configured embedding model",
				Action: reembedCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of items to process in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N items",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed operations",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func setup(c *cli.Context) error {
	_ = godotenv.Load()

	if err := setupLogger(c); err != nil {
		return err
	}

	var err error
	if path := c.String("config"); path != "" {
		appConfig, err = config.Load(path)
	} else {
		appConfig, _, err = config.LoadDefault()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	return nil
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

// openDatabase resolves the database path and AI settings and opens the
// database. Callers must Close it.
func openDatabase(c *cli.Context) (*laqrag.Database, error) {
	dbPath := c.String("db")
	if dbPath == "" {
		dbPath = appConfig.Database.Path
	}
	if dbPath == "" {
		return nil, fmt.Errorf("database path is required")
	}

	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(appConfig.AI.EmbeddingHost),
		ai.WithGeneratorHost(appConfig.AI.GeneratorHost),
		ai.WithEmbeddingModel(appConfig.AI.EmbeddingModel),
		ai.WithGeneratorModel(appConfig.AI.GeneratorModel),
		ai.WithMaxDocumentChars(appConfig.AI.MaxDocumentChars),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	return laqrag.NewDatabase(dbPath,
		laqrag.WithAIConfig(aiConfig),
		laqrag.WithEmbeddingWorkers(appConfig.Ingest.Workers),
	)
}

func uploadCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("at least one PDF file is required")
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	pipeline, err := db.NewIngestionPipeline()
	if err != nil {
		return err
	}

	ctx := context.Background()
	for _, path := range c.Args().Slice() {
		report, err := pipeline.Ingest(ctx, path)
		if err != nil {
			return fmt.Errorf("ingesting %s: %w", path, err)
		}

		fmt.Printf("%s: stored %d of %d Q&A pairs\n", path, report.Stored, report.Attempted)
		for _, skip := range report.Skipped {
			fmt.Printf("  pair %d skipped: %s\n", skip.Index, skip.Reason)
		}
	}
	return nil
}

func searchCommand(c *cli.Context) error {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("query is required")
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	searcher, err := db.NewSearcher()
	if err != nil {
		return err
	}

	results, err := searcher.Search(context.Background(), query, c.Int("top-k"))
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Println("No results found")
		return nil
	}

	stats := search.QualityStats(results)
	fmt.Printf("Found %d results (%d strong, %d moderate, %d weak)\n\n",
		len(results), stats.Strong, stats.Moderate, stats.Weak)

	for i, result := range results {
		printResult(i+1, result)
	}
	return nil
}

func printResult(rank int, result core.SearchResult) {
	meta := result.Metadata
	fmt.Printf("%d. [%s] %.2f%% match\n", rank, result.Quality, result.Similarity)
	fmt.Printf("   LAQ %s (%s), %s, %s\n",
		meta[core.MetaLAQNum], meta[core.MetaType], meta[core.MetaMinister], meta[core.MetaDate])
	fmt.Printf("   Q: %s\n", meta[core.MetaQuestion])
	fmt.Printf("   A: %s\n\n", meta[core.MetaAnswer])
}

func chatCommand(c *cli.Context) error {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("query is required")
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	chat, err := db.NewChat()
	if err != nil {
		return err
	}

	answer, sources, err := chat.Answer(context.Background(), query)
	if err != nil {
		return err
	}
	if len(sources) == 0 {
		fmt.Println("No matching LAQs found")
		return nil
	}

	fmt.Println(answer)
	fmt.Println("\nSources:")
	for _, source := range sources {
		fmt.Printf("  %s (%.2f%% match)\n", source.ID, source.Similarity)
	}
	return nil
}

func infoCommand(c *cli.Context) error {
	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	count, err := db.Count(context.Background())
	if err != nil {
		return err
	}

	fmt.Printf("Stored Q&A pairs: %d\n", count)
	fmt.Printf("Embedding model:  %s\n", appConfig.AI.EmbeddingModel)
	fmt.Printf("Generator model:  %s\n", appConfig.AI.GeneratorModel)
	return nil
}

func clearCommand(c *cli.Context) error {
	if !c.Bool("force") {
		return fmt.Errorf("refusing to clear without --force")
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Clear(context.Background()); err != nil {
		return err
	}

	fmt.Println("Database cleared")
	return nil
}

func reembedCommand(c *cli.Context) error {
	reembedConfig := &reembed.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}
	if reembedConfig.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if reembedConfig.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if reembedConfig.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	fmt.Fprintf(os.Stderr, "Embedding host: %s\n", appConfig.AI.EmbeddingHost)
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n\n", appConfig.AI.EmbeddingModel)

	if err := db.NewReembedder(reembedConfig, os.Stderr).Run(context.Background()); err != nil {
		return fmt.Errorf("reembedding failed: %w", err)
	}
	return nil
}
