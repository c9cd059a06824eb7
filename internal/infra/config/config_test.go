package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", writeConfigFile(t, "{}"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.HTTP.Address != ":8080" {
		t.Fatalf("address = %q", cfg.HTTP.Address)
	}
	if cfg.LLM.EmbeddingModel != "text-embedding-3-small" || cfg.LLM.Dimension != 1536 {
		t.Fatalf("llm defaults = %+v", cfg.LLM)
	}
	if cfg.Golden.DefaultTopK != 20 || cfg.Golden.MaxTopK != 100 {
		t.Fatalf("golden defaults = %+v", cfg.Golden)
	}
	if cfg.Execute.Driver != "postgres" {
		t.Fatalf("execute driver = %q", cfg.Execute.Driver)
	}
}

func TestLoadFromFile(t *testing.T) {
	yamlBody := `
http:
  address: ":9999"
golden:
  defaultTopK: 5
  maxTopK: 10
execute:
  driver: duckdb
  duckdbPath: /tmp/test.duckdb
`
	t.Setenv("CONFIG_PATH", writeConfigFile(t, yamlBody))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.HTTP.Address != ":9999" {
		t.Fatalf("address = %q", cfg.HTTP.Address)
	}
	if cfg.Golden.DefaultTopK != 5 || cfg.Golden.MaxTopK != 10 {
		t.Fatalf("golden = %+v", cfg.Golden)
	}
	if cfg.Execute.Driver != "duckdb" || cfg.Execute.DuckDBPath != "/tmp/test.duckdb" {
		t.Fatalf("execute = %+v", cfg.Execute)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	t.Setenv("CONFIG_PATH", writeConfigFile(t, "http:\n  address: \":9999\"\n"))
	t.Setenv("HTTP_ADDRESS", ":7777")
	t.Setenv("LLM_EMBEDDING_MODEL", "text-embedding-3-large")
	t.Setenv("GOLDEN_DEFAULT_TOP_K", "3")
	t.Setenv("GOLDEN_RESULT_CACHE_TTL", "2m")
	t.Setenv("HTTP_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.HTTP.Address != ":7777" {
		t.Fatalf("address = %q", cfg.HTTP.Address)
	}
	if cfg.LLM.EmbeddingModel != "text-embedding-3-large" {
		t.Fatalf("embedding model = %q", cfg.LLM.EmbeddingModel)
	}
	if cfg.Golden.DefaultTopK != 3 {
		t.Fatalf("defaultTopK = %d", cfg.Golden.DefaultTopK)
	}
	if cfg.Golden.ResultCacheTTL != 2*time.Minute {
		t.Fatalf("resultCacheTtl = %v", cfg.Golden.ResultCacheTTL)
	}
	if len(cfg.HTTP.AllowedOrigins) != 2 || cfg.HTTP.AllowedOrigins[1] != "https://b.example" {
		t.Fatalf("allowed origins = %v", cfg.HTTP.AllowedOrigins)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(cfg *Config)
	}{
		{"empty address", func(cfg *Config) { cfg.HTTP.Address = "" }},
		{"empty embedding model", func(cfg *Config) { cfg.LLM.EmbeddingModel = " " }},
		{"non-positive dimension", func(cfg *Config) { cfg.LLM.Dimension = 0 }},
		{"maxTopK below defaultTopK", func(cfg *Config) { cfg.Golden.MaxTopK = 1 }},
		{"unknown driver", func(cfg *Config) { cfg.Execute.Driver = "sqlite" }},
		{"duckdb without path", func(cfg *Config) {
			cfg.Execute.Driver = "duckdb"
			cfg.Execute.DuckDBPath = ""
		}},
		{"valkey without addr", func(cfg *Config) { cfg.Valkey.Enabled = true }},
		{"export without endpoint", func(cfg *Config) { cfg.Export.Enabled = true }},
		{"rate limit without rpm", func(cfg *Config) { cfg.HTTP.RateLimit.RequestsPerMinute = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := defaultConfig()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func writeConfigFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	return path
}
