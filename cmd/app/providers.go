package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/goldensql/goldensql/internal/domain/golden"
	"github.com/goldensql/goldensql/internal/infra/config"
	"github.com/goldensql/goldensql/internal/infra/embedder"
	"github.com/goldensql/goldensql/internal/infra/exporter"
	"github.com/goldensql/goldensql/internal/infra/goldenstore"
	"github.com/goldensql/goldensql/internal/infra/llm/chatgpt"
	"github.com/goldensql/goldensql/internal/infra/recordrepo"
	"github.com/goldensql/goldensql/internal/infra/sqlrunner"
	"github.com/goldensql/goldensql/internal/infra/vectorindex"
)

func provideGoldenConfig(cfg *config.Config) golden.Config {
	return golden.Config{
		EmbeddingModel:     cfg.LLM.EmbeddingModel,
		DefaultTopK:        cfg.Golden.DefaultTopK,
		MaxTopK:            cfg.Golden.MaxTopK,
		ResultCacheTTL:     cfg.Golden.ResultCacheTTL,
		TopRecommendations: cfg.Golden.TopRecommendations,
	}
}

// providePgxPool opens the shared Postgres pool. A nil pool switches every
// Postgres-backed adapter to its memory twin.
func providePgxPool(cfg *config.Config, logger *slog.Logger) *pgxpool.Pool {
	dsn := strings.TrimSpace(cfg.Postgres.DSN)
	if dsn == "" {
		logger.Info("postgres dsn not set, using memory adapters")
		return nil
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, using memory adapters", "error", err)
		return nil
	}
	if cfg.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Postgres.MaxConns
	}
	if cfg.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, using memory adapters", "error", err)
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, using memory adapters", "error", err)
		pool.Close()
		return nil
	}
	return pool
}

func provideRecordRepository(pool *pgxpool.Pool, logger *slog.Logger) golden.RecordRepository {
	if pool == nil {
		return recordrepo.NewMemoryRepository()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := recordrepo.EnsureSchema(ctx, pool); err != nil {
		logger.Error("record schema init failed, using memory repository", "error", err)
		return recordrepo.NewMemoryRepository()
	}
	logger.Info("postgres record repository enabled")
	return recordrepo.NewPostgresRepository(pool)
}

func provideVectorIndex(cfg *config.Config, pool *pgxpool.Pool, logger *slog.Logger) golden.VectorIndex {
	if pool == nil {
		return vectorindex.NewMemoryIndex()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := vectorindex.EnsureSchema(ctx, pool, cfg.LLM.Dimension); err != nil {
		logger.Error("vector schema init failed, using memory index", "error", err)
		return vectorindex.NewMemoryIndex()
	}
	logger.Info("pgvector index enabled", "dimension", cfg.LLM.Dimension)
	return vectorindex.NewPostgresIndex(pool)
}

func provideSQLRunner(cfg *config.Config, pool *pgxpool.Pool, logger *slog.Logger) golden.SQLRunner {
	if cfg.Execute.Driver == "duckdb" {
		runner, err := sqlrunner.OpenDuckDB(cfg.Execute.DuckDBPath)
		if err != nil {
			logger.Error("failed to open duckdb, stored sql execution disabled", "error", err)
			return sqlrunner.Unavailable{}
		}
		logger.Info("duckdb sql runner enabled", "path", cfg.Execute.DuckDBPath)
		return runner
	}
	if pool == nil {
		logger.Warn("postgres not configured, stored sql execution disabled")
		return sqlrunner.Unavailable{}
	}
	return sqlrunner.NewPgxRunner(pool)
}

func provideStore(cfg *config.Config, logger *slog.Logger) golden.Store {
	if cfg.Valkey.Enabled {
		opt, err := buildValkeyOptions(cfg)
		if err != nil {
			logger.Error("invalid valkey configuration, falling back to memory store", "error", err)
			return goldenstore.NewMemoryStore()
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			logger.Error("failed to create valkey client, falling back to memory store", "error", err)
			return goldenstore.NewMemoryStore()
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			logger.Error("valkey ping failed, falling back to memory store", "error", err)
		} else {
			logger.Info("valkey store enabled", "addr", cfg.Valkey.Addr)
			return goldenstore.NewValkeyStore(client, "golden")
		}
	}
	return goldenstore.NewMemoryStore()
}

func buildValkeyOptions(cfg *config.Config) (valkey.ClientOption, error) {
	var (
		opt valkey.ClientOption
		err error
	)
	if strings.Contains(cfg.Valkey.Addr, "://") {
		opt, err = valkey.ParseURL(cfg.Valkey.Addr)
	} else {
		opt = valkey.ClientOption{InitAddress: []string{cfg.Valkey.Addr}}
	}
	if err != nil {
		return valkey.ClientOption{}, err
	}
	return opt, nil
}

func provideEmbedder(cfg *config.Config, logger *slog.Logger) golden.Embedder {
	apiKey := strings.TrimSpace(cfg.LLM.APIKey)
	if apiKey == "" {
		logger.Warn("llm api key not set, using deterministic embedder")
		return embedder.NewDeterministicEmbedder(cfg.LLM.Dimension)
	}
	client, err := chatgpt.NewClient(apiKey, cfg.LLM.BaseURL)
	if err != nil {
		logger.Error("failed to build embeddings client, using deterministic embedder", "error", err)
		return embedder.NewDeterministicEmbedder(cfg.LLM.Dimension)
	}
	return embedder.NewChatGPTEmbedder(client, cfg.LLM.EmbeddingModel, cfg.LLM.MaxInputTokens, logger)
}

func provideObjectStorage(cfg *config.Config, logger *slog.Logger) golden.ObjectStorage {
	if !cfg.Export.Enabled {
		return exporter.NewMemoryStorage()
	}
	storage, err := exporter.NewMinioStorage(cfg.Export.Endpoint, cfg.Export.AccessKey, cfg.Export.SecretKey, cfg.Export.Bucket, cfg.Export.Region, logger)
	if err != nil {
		logger.Error("failed to initialize snapshot storage, keeping snapshots in memory", "error", err)
		return exporter.NewMemoryStorage()
	}
	logger.Info("snapshot export enabled", "bucket", cfg.Export.Bucket)
	return storage
}
