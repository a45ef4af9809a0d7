// Copyright 2025 Quarry Labs
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
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/quarrylabs/tessera"
	"github.com/quarrylabs/tessera/ai"
	"github.com/quarrylabs/tessera/ai/ollama"
	"github.com/quarrylabs/tessera/ai/openai"
	"github.com/quarrylabs/tessera/backoff"
	"github.com/quarrylabs/tessera/chunker"
	"github.com/quarrylabs/tessera/config"
	"github.com/quarrylabs/tessera/core"
	"github.com/quarrylabs/tessera/index"
	"github.com/quarrylabs/tessera/ingestion"
	"github.com/quarrylabs/tessera/registry/badger"
	"github.com/quarrylabs/tessera/vectorstore"
	"github.com/quarrylabs/tessera/vectorstore/memory"
	"github.com/quarrylabs/tessera/vectorstore/pinecone"
)

func main() {
	app := &cli.App{
		Name:  "tessera",
		Usage: "Multi-tenant document Q&A over one shared vector index",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the YAML config file",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setup,
		Commands: []*cli.Command{
			{
				Name:  "index",
				Usage: "Manage the shared vector index",
				Subcommands: []*cli.Command{
					{
						Name:   "ensure",
						Usage:  "Create the index if needed and wait until it is ready",
						Action: indexEnsureCommand,
					},
				},
			},
			{
				Name:  "tenant",
				Usage: "Manage tenants",
				Subcommands: []*cli.Command{
					{
						Name:      "create",
						Usage:     "Register a tenant",
						ArgsUsage: "<tenant-id>",
						Action:    tenantCreateCommand,
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:  "name",
								Usage: "Human-readable display name",
							},
						},
					},
					{
						Name:   "list",
						Usage:  "List registered tenants",
						Action: tenantListCommand,
					},
					{
						Name:      "delete",
						Usage:     "Remove a tenant's documents and its registry entry",
						ArgsUsage: "<tenant-id>",
						Action:    tenantDeleteCommand,
					},
					{
						Name:      "clear",
						Usage:     "Remove a tenant's documents, keeping the tenant registered",
						ArgsUsage: "<tenant-id>",
						Action:    tenantClearCommand,
					},
				},
			},
			{
				Name:      "ingest",
				Usage:     "Ingest text or PDF documents for a tenant",
				ArgsUsage: "<file>...",
				Action:    ingestCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "tenant",
						Aliases:  []string{"t"},
						Usage:    "Tenant id owning the documents",
						Required: true,
					},
					&cli.StringSliceFlag{
						Name:    "metadata",
						Aliases: []string{"m"},
						Usage:   "Additional metadata as key=value (repeatable)",
					},
					&cli.IntFlag{
						Name:  "concurrency",
						Usage: "Number of chunks to embed in parallel",
						Value: 1,
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Retrieve the stored chunks most similar to a query",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "tenant",
						Aliases:  []string{"t"},
						Usage:    "Tenant id to search",
						Required: true,
					},
					&cli.IntFlag{
						Name:    "top-k",
						Aliases: []string{"k"},
						Usage:   "Maximum number of results (config default when unset)",
					},
				},
			},
			{
				Name:      "ask",
				Usage:     "Answer a question from a tenant's documents",
				ArgsUsage: "<question>",
				Action:    askCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "tenant",
						Aliases:  []string{"t"},
						Usage:    "Tenant id to answer for",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Emit the structured answer as JSON",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func indexEnsureCommand(c *cli.Context) error {
	ctx := context.Background()

	svc, cfg, err := newService(c)
	if err != nil {
		return err
	}
	defer svc.Close()

	if err := svc.EnsureReady(ctx); err != nil {
		return fmt.Errorf("index is not ready: %w", err)
	}

	fmt.Printf("Index %q is ready\n", indexName(cfg))
	return nil
}

func tenantCreateCommand(c *cli.Context) error {
	ctx := context.Background()

	id := c.Args().First()
	if id == "" {
		return fmt.Errorf("a tenant id is required")
	}

	svc, _, err := newService(c)
	if err != nil {
		return err
	}
	defer svc.Close()

	tenant, err := svc.CreateTenant(ctx, &core.Tenant{
		ID:          id,
		DisplayName: c.String("name"),
	})
	if err != nil {
		return err
	}

	fmt.Printf("Registered tenant %q\n", tenant.ID)
	return nil
}

func tenantListCommand(c *cli.Context) error {
	ctx := context.Background()

	svc, _, err := newService(c)
	if err != nil {
		return err
	}
	defer svc.Close()

	tenants, err := svc.ListTenants(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Found %d tenants\n", len(tenants))
	for _, tenant := range tenants {
		fmt.Printf("%s\t%s\t%s\n", tenant.ID, tenant.CreatedAt.Format(time.RFC3339), tenant.DisplayName)
	}
	return nil
}

func tenantDeleteCommand(c *cli.Context) error {
	ctx := context.Background()

	id := c.Args().First()
	if id == "" {
		return fmt.Errorf("a tenant id is required")
	}

	svc, _, err := newService(c)
	if err != nil {
		return err
	}
	defer svc.Close()

	if err := svc.DeleteTenant(ctx, id); err != nil {
		return err
	}

	fmt.Printf("Deleted tenant %q\n", id)
	return nil
}

func tenantClearCommand(c *cli.Context) error {
	ctx := context.Background()

	id := c.Args().First()
	if id == "" {
		return fmt.Errorf("a tenant id is required")
	}

	svc, _, err := newService(c)
	if err != nil {
		return err
	}
	defer svc.Close()

	if err := svc.ClearTenant(ctx, id); err != nil {
		return err
	}

	fmt.Printf("Cleared documents for tenant %q\n", id)
	return nil
}

func ingestCommand(c *cli.Context) error {
	ctx := context.Background()

	files := c.Args().Slice()
	if len(files) == 0 {
		return fmt.Errorf("at least one file is required")
	}

	metadata, err := parseMetadata(c.StringSlice("metadata"))
	if err != nil {
		return err
	}

	svc, _, err := newService(c, tessera.WithIngestionOptions(
		ingestion.WithConcurrency(c.Int("concurrency")),
	))
	if err != nil {
		return err
	}
	defer svc.Close()

	// Make sure the index exists before the first upsert
	if err := svc.EnsureReady(ctx); err != nil {
		return fmt.Errorf("index is not ready: %w", err)
	}

	tenantID := c.String("tenant")
	for _, path := range files {
		result, err := ingestFile(ctx, svc, tenantID, path, metadata)
		if err != nil {
			return fmt.Errorf("ingesting %s: %w", path, err)
		}
		fmt.Printf("Ingested %s: %d chunks\n", path, result.ChunkCount)
	}
	return nil
}

func ingestFile(ctx context.Context, svc *tessera.Service, tenantID, path string, metadata map[string]string) (*ingestion.Result, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Record the file name as provenance unless the caller overrides it
	merged := map[string]string{"source": filepath.Base(path)}
	for k, v := range metadata {
		merged[k] = v
	}

	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return svc.IngestPDF(ctx, tenantID, raw, merged)
	}
	return svc.Ingest(ctx, tenantID, string(raw), merged)
}

func searchCommand(c *cli.Context) error {
	ctx := context.Background()

	query := strings.Join(c.Args().Slice(), " ")
	if query == "" {
		return fmt.Errorf("a query is required")
	}

	svc, cfg, err := newService(c)
	if err != nil {
		return err
	}
	defer svc.Close()

	topK := c.Int("top-k")
	if topK <= 0 {
		topK = cfg.Retrieval.TopK
	}

	chunks, err := svc.Retrieve(ctx, c.String("tenant"), query, topK)
	if err != nil {
		return err
	}

	fmt.Printf("Found %d hits\n", len(chunks))
	for i, chunk := range chunks {
		fmt.Printf("%d: '%s' [%0.3f]\n", i, chunk.Text, chunk.Score)
	}
	return nil
}

func askCommand(c *cli.Context) error {
	ctx := context.Background()

	question := strings.Join(c.Args().Slice(), " ")
	if question == "" {
		return fmt.Errorf("a question is required")
	}

	svc, _, err := newService(c)
	if err != nil {
		return err
	}
	defer svc.Close()

	ans, err := svc.Ask(ctx, c.String("tenant"), question)
	if err != nil {
		return err
	}

	if c.Bool("json") {
		data, err := json.MarshalIndent(ans, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}
	return ans.Render(os.Stdout)
}

// newService builds the full stack from the loaded config: AI provider,
// vector store, tenant registry, and the pipelines on top of them.
func newService(c *cli.Context, extra ...tessera.ServiceOption) (*tessera.Service, *config.AppConfig, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, nil, err
	}

	provider, err := newProvider(cfg)
	if err != nil {
		return nil, nil, err
	}

	store, err := newStore(cfg)
	if err != nil {
		provider.Close()
		return nil, nil, err
	}

	registryPath := cfg.Registry.Path
	if registryPath == "" {
		registryPath, err = config.DefaultRegistryPath()
		if err != nil {
			provider.Close()
			return nil, nil, err
		}
	}
	reg, err := badger.NewRegistry(registryPath)
	if err != nil {
		provider.Close()
		return nil, nil, fmt.Errorf("failed to open tenant registry: %w", err)
	}

	opts := []tessera.ServiceOption{
		tessera.WithProvider(provider),
		tessera.WithStore(store),
		tessera.WithRegistry(reg),
		tessera.WithIndexOptions(
			index.WithIndexName(indexName(cfg)),
			index.WithDimension(cfg.AI.Dimension),
			index.WithReadinessPolicy(backoff.Policy{
				BaseDelay:   time.Duration(cfg.Readiness.PollIntervalSecs) * time.Second,
				Multiplier:  1,
				MaxAttempts: cfg.Readiness.PollAttempts,
			}),
		),
		tessera.WithIngestionOptions(
			ingestion.WithSplitter(chunker.New(chunker.WithMaxSize(cfg.Chunker.MaxChunkSize))),
		),
	}
	opts = append(opts, extra...)

	svc, err := tessera.New(opts...)
	if err != nil {
		provider.Close()
		reg.Close()
		return nil, nil, err
	}
	return svc, cfg, nil
}

func loadConfig(c *cli.Context) (*config.AppConfig, error) {
	if path := c.String("config"); path != "" {
		return config.Load(path)
	}
	cfg, _, err := config.LoadDefault()
	return cfg, err
}

func newProvider(cfg *config.AppConfig) (ai.AIProvider, error) {
	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(cfg.AI.EmbeddingHost),
		ai.WithGenerationHost(cfg.AI.GenerationHost),
		ai.WithEmbeddingModel(cfg.AI.EmbeddingModel),
		ai.WithGenerationModel(cfg.AI.GenerationModel),
		ai.WithEmbeddingDimension(cfg.AI.Dimension),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	switch cfg.AI.Provider {
	case "ollama":
		return ollama.NewProvider(aiConfig)
	case "openai":
		return openai.NewProvider(aiConfig)
	default:
		return nil, fmt.Errorf("unknown ai provider %q: must be ollama or openai", cfg.AI.Provider)
	}
}

func newStore(cfg *config.AppConfig) (vectorstore.Store, error) {
	switch cfg.Store.Type {
	case "pinecone":
		pc := cfg.Store.Pinecone
		apiKey := os.Getenv(pc.APIKeyEnv)
		if apiKey == "" {
			return nil, fmt.Errorf("pinecone API key is missing: set %s", pc.APIKeyEnv)
		}
		return pinecone.NewStore(pinecone.Config{
			APIKey:    apiKey,
			IndexName: pc.IndexName,
			Dimension: cfg.AI.Dimension,
			Metric:    pc.Metric,
			Cloud:     pc.Cloud,
			Region:    pc.Region,
			Timeout:   time.Duration(pc.TimeoutSecs) * time.Second,
		})
	case "memory":
		return memory.NewStore(cfg.AI.Dimension), nil
	default:
		return nil, fmt.Errorf("unknown store type %q: must be pinecone or memory", cfg.Store.Type)
	}
}

func indexName(cfg *config.AppConfig) string {
	if cfg.Store.Pinecone != nil && cfg.Store.Pinecone.IndexName != "" {
		return cfg.Store.Pinecone.IndexName
	}
	return index.DefaultIndexName
}

func parseMetadata(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	metadata := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid metadata %q: expected key=value", pair)
		}
		metadata[key] = value
	}
	return metadata, nil
}

func setup(c *cli.Context) error {
	// Load .env if present; keys may also live in the environment already
	_ = godotenv.Load()
	return setupLogger(c)
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
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

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
