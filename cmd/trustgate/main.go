package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/verisec/trustgate/internal/api"
	"github.com/verisec/trustgate/internal/cache"
	"github.com/verisec/trustgate/internal/config"
	"github.com/verisec/trustgate/internal/llm"
	"github.com/verisec/trustgate/internal/profile"
	"github.com/verisec/trustgate/internal/render"
	"github.com/verisec/trustgate/internal/schema"
	"github.com/verisec/trustgate/internal/vectordb"
	"github.com/verisec/trustgate/internal/verdict"
)

func main() {
	root := &cobra.Command{
		Use:   "trustgate",
		Short: "Trust verification gate for CVE/threat intelligence access",
	}

	root.AddCommand(newServeCmd(), newVerifyCmd(), newIngestCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newLogger builds the process logger at the configured level.
func newLogger(level string) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if lvl, err := zapcore.ParseLevel(level); err == nil {
		zc.Level = zap.NewAtomicLevelAt(lvl)
	}
	return zc.Build()
}

// evictionPolicy maps the configured policy name to an implementation.
func evictionPolicy(name string) cache.EvictionPolicy {
	if name == "lru" {
		return &cache.LRUPolicy{}
	}
	return &cache.FIFOPolicy{}
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the verification HTTP service",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log, err := newLogger(cfg.LogLevel)
			if err != nil {
				return fmt.Errorf("serve: build logger: %w", err)
			}
			defer log.Sync() //nolint:errcheck // stderr sync failure is harmless at exit

			prof, err := profile.Load(cfg.Profile)
			if err != nil {
				return err
			}

			embedder, err := vectordb.NewEmbedder(cfg.EmbedProvider, cfg.EmbedModel)
			if err != nil {
				return err
			}
			embedder = vectordb.WithCache(embedder, cfg.EmbedModel,
				cache.New(cfg.CacheCapacity, evictionPolicy(cfg.CachePolicy), nil))

			index := vectordb.NewHTTPIndex(cfg.IndexEndpoint, cfg.IndexAPIKey)

			gen, err := llm.NewGenerator(cfg.GenProvider, cfg.GenModel)
			if err != nil {
				return err
			}
			cachedGen := llm.WithCache(gen, cfg.GenModel,
				cache.New(cfg.CacheCapacity, evictionPolicy(cfg.CachePolicy), nil))

			opts := llm.DefaultOptions
			opts.Temperature = cfg.Temperature
			opts.MaxTokens = cfg.MaxTokens
			crossCheck := llm.NewCrossCheck(cachedGen, opts)

			engine := api.New(cfg, log, embedder, index, crossCheck, prof)
			log.Info("listening", zap.String("port", cfg.Port), zap.String("profile", prof.Name))
			return engine.Run(":" + cfg.Port)
		},
	}
}

func newVerifyCmd() *cobra.Command {
	var (
		role     string
		problem  string
		markdown bool
	)
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Run the heuristic decision engine on one submission",
		RunE: func(cmd *cobra.Command, args []string) error {
			result := verdict.Analyze(schema.Request{Role: role, Problem: problem})
			if markdown {
				fmt.Fprint(cmd.OutOrStdout(), render.RenderMarkdown(&result))
				return nil
			}
			b, err := render.RenderJSON(&result)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return nil
		},
	}
	cmd.Flags().StringVar(&role, "role", "", "claimed role/organization")
	cmd.Flags().StringVar(&problem, "problem", "", "described security concern")
	cmd.Flags().BoolVar(&markdown, "markdown", false, "render Markdown instead of JSON")
	return cmd
}

func newIngestCmd() *cobra.Command {
	var (
		file      string
		namespace string
	)
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Load a JSON document file into the vector index",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("ingest: read %s: %w", file, err)
			}
			var docs []vectordb.Doc
			if err := json.Unmarshal(data, &docs); err != nil {
				return fmt.Errorf("ingest: parse %s: %w", file, err)
			}

			embedder, err := vectordb.NewEmbedder(cfg.EmbedProvider, cfg.EmbedModel)
			if err != nil {
				return err
			}
			index := vectordb.NewHTTPIndex(cfg.IndexEndpoint, cfg.IndexAPIKey)

			if err := vectordb.Ingest(context.Background(), embedder, index, docs, namespace); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ingested %d docs\n", len(docs))
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "docs.json", "JSON file with documents to ingest")
	cmd.Flags().StringVar(&namespace, "namespace", "default", "index namespace")
	return cmd
}
