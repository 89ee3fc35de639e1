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

	"github.com/poiesic/staffit"
	"github.com/poiesic/staffit/ai"
	"github.com/poiesic/staffit/config"
	"github.com/poiesic/staffit/core"
	"github.com/poiesic/staffit/ingestion"
	"github.com/poiesic/staffit/roster"
	"github.com/poiesic/staffit/search"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "staffit",
		Usage: "Hybrid retrieval engine for personnel profiles",
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
				Usage:   "Path to YAML configuration file",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "index",
				Usage:  "Build the vector index from an employee roster file",
				Action: indexCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "roster",
						Aliases:  []string{"r"},
						Usage:    "Path to the employees JSON roster",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "index-dir",
						Usage: "Directory to write the index file pair (overrides config)",
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Search indexed profiles with a free-text query and filters",
				ArgsUsage: "[query text]",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "index-dir",
						Usage: "Directory holding the index file pair (overrides config)",
					},
					&cli.StringFlag{
						Name:  "name",
						Usage: "Filter by name substring",
					},
					&cli.StringSliceFlag{
						Name:    "skills",
						Aliases: []string{"s"},
						Usage:   "Filter by skill (repeatable, matches any)",
					},
					&cli.StringFlag{
						Name:    "department",
						Aliases: []string{"d"},
						Usage:   "Filter by department",
					},
					&cli.IntFlag{
						Name:  "min-experience",
						Usage: "Minimum years of experience",
					},
					&cli.StringFlag{
						Name:  "availability",
						Usage: "Filter by availability (available, busy, unavailable)",
					},
					&cli.IntFlag{
						Name:    "top-k",
						Aliases: []string{"k"},
						Usage:   "Maximum number of results",
					},
					&cli.Float64Flag{
						Name:  "threshold",
						Usage: "Minimum similarity score to report",
					},
				},
			},
			{
				Name:   "stats",
				Usage:  "Print document counts for a persisted index",
				Action: statsCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "index-dir",
						Usage: "Directory holding the index file pair (overrides config)",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func loadConfig(c *cli.Context) (config.Config, error) {
	path := c.String("config")
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// newEngine assembles an engine from the loaded configuration. The embedding
// cache is only attached when the config names a cache directory.
func newEngine(cfg config.Config) (*staffit.Engine, error) {
	aiConfig := ai.NewConfig(
		ai.WithHost(cfg.Embedding.Host),
		ai.WithEmbeddingModel(cfg.Embedding.Model),
		ai.WithAPIToken(cfg.Embedding.APIToken),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid embedding configuration: %w", err)
	}

	opts := []staffit.EngineOption{
		staffit.WithAIConfig(aiConfig),
		staffit.WithPipelineOptions(
			ingestion.WithPoolSize(cfg.Pipeline.PoolSize),
			ingestion.WithBatchSize(cfg.Pipeline.BatchSize),
			ingestion.WithRetry(cfg.Pipeline.MaxAttempts, cfg.Pipeline.RetryDelay()),
		),
		staffit.WithSearchOptions(
			search.WithDefaultK(cfg.Search.DefaultK),
			search.WithScoreThreshold(cfg.Search.ScoreThreshold),
			search.WithKeywordBoost(cfg.Search.KeywordBoost),
		),
	}
	if cfg.Embedding.CacheDir != "" {
		opts = append(opts, staffit.WithEmbeddingCache(cfg.Embedding.CacheDir))
	}
	return staffit.NewEngine(opts...)
}

func indexDir(c *cli.Context, cfg config.Config) string {
	if dir := c.String("index-dir"); dir != "" {
		return dir
	}
	return cfg.Index.Dir
}

func indexCommand(c *cli.Context) error {
	ctx := context.Background()

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	records, err := roster.Load(c.String("roster"))
	if err != nil {
		return fmt.Errorf("failed to load roster: %w", err)
	}

	engine, err := newEngine(cfg)
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}
	defer engine.Close()

	if err := engine.Rebuild(ctx, records); err != nil {
		return fmt.Errorf("failed to build index: %w", err)
	}

	dir := indexDir(c, cfg)
	if err := engine.SaveIndex(dir); err != nil {
		return fmt.Errorf("failed to save index: %w", err)
	}

	idx := engine.Index()
	fmt.Fprintf(os.Stderr, "Indexed %d profiles into %d documents (%d dimensions)\n",
		len(records), idx.Len(), idx.Dimensions())
	fmt.Fprintf(os.Stderr, "Index written to %s\n", dir)
	return nil
}

func searchCommand(c *cli.Context) error {
	ctx := context.Background()

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	query := &core.Query{
		RawText:        strings.Join(c.Args().Slice(), " "),
		Name:           c.String("name"),
		Skills:         c.StringSlice("skills"),
		Department:     c.String("department"),
		MinExperience:  c.Int("min-experience"),
		K:              c.Int("top-k"),
		ScoreThreshold: float32(c.Float64("threshold")),
	}
	if raw := c.String("availability"); raw != "" {
		availability, err := core.ParseAvailability(raw)
		if err != nil {
			return err
		}
		query.Availability = availability
	}

	engine, err := newEngine(cfg)
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}
	defer engine.Close()

	if err := engine.LoadIndex(indexDir(c, cfg)); err != nil {
		return fmt.Errorf("failed to load index: %w", err)
	}

	results, err := engine.Search(ctx, query)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	if len(results) == 0 {
		fmt.Println("No matching profiles.")
		return nil
	}

	for i, r := range results {
		fmt.Printf("%2d. %-24s score=%.3f  %s (%s, %s)\n",
			i+1, r.Meta.Name, r.Score, r.ProfileId, r.Meta.Position, r.Meta.Department)
	}
	return nil
}

func statsCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	engine, err := newEngine(cfg)
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}
	defer engine.Close()

	if err := engine.LoadIndex(indexDir(c, cfg)); err != nil {
		return fmt.Errorf("failed to load index: %w", err)
	}

	idx := engine.Index()
	profiles := make(map[string]struct{})
	kinds := make(map[core.DocumentKind]int)
	for id := range idx.Documents() {
		profiles[id.ProfileId] = struct{}{}
		kinds[id.Kind]++
	}

	fmt.Printf("Documents:  %d\n", idx.Len())
	fmt.Printf("Profiles:   %d\n", len(profiles))
	fmt.Printf("Dimensions: %d\n", idx.Dimensions())
	for _, kind := range []core.DocumentKind{core.DocumentKindProfile, core.DocumentKindSkill, core.DocumentKindProject} {
		fmt.Printf("  %-8s %d\n", kind.String(), kinds[kind])
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
