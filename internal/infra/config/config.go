package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	LLM      LLMConfig      `yaml:"llm"`
	Golden   GoldenConfig   `yaml:"golden"`
	Postgres PostgresConfig `yaml:"postgres"`
	Valkey   ValkeyConfig   `yaml:"valkey"`
	Execute  ExecuteConfig  `yaml:"execute"`
	Export   ExportConfig   `yaml:"export"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address        string          `yaml:"address"`
	ReadTimeout    time.Duration   `yaml:"readTimeout"`
	WriteTimeout   time.Duration   `yaml:"writeTimeout"`
	AllowedOrigins []string        `yaml:"allowedOrigins"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// LLMConfig contains settings for the OpenAI-compatible embeddings API.
type LLMConfig struct {
	APIKey         string `yaml:"apiKey"`
	BaseURL        string `yaml:"baseUrl"`
	EmbeddingModel string `yaml:"embeddingModel"`
	Dimension      int    `yaml:"dimension"`
	MaxInputTokens int    `yaml:"maxInputTokens"`
}

// GoldenConfig controls retrieval and caching behavior for golden records.
type GoldenConfig struct {
	DefaultTopK        int           `yaml:"defaultTopK"`
	MaxTopK            int           `yaml:"maxTopK"`
	ResultCacheTTL     time.Duration `yaml:"resultCacheTtl"`
	TopRecommendations int           `yaml:"topRecommendations"`
}

// PostgresConfig contains DSN and pooling settings shared by the record
// store and the vector index.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// ValkeyConfig contains connection information for the cache/trending store.
type ValkeyConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// ExecuteConfig selects the engine used to run stored SQL.
type ExecuteConfig struct {
	Driver     string `yaml:"driver"` // "postgres" or "duckdb"
	DuckDBPath string `yaml:"duckdbPath"`
}

// ExportConfig points the snapshot exporter at S3-compatible storage.
type ExportConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitCSV(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = parseBool(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}
	if v := os.Getenv("LLM_EMBEDDING_MODEL"); v != "" {
		cfg.LLM.EmbeddingModel = v
	}
	if v := os.Getenv("LLM_EMBEDDING_DIMENSION"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.LLM.Dimension = parsed
		}
	}
	if v := os.Getenv("LLM_MAX_INPUT_TOKENS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.LLM.MaxInputTokens = parsed
		}
	}
	if v := os.Getenv("GOLDEN_DEFAULT_TOP_K"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Golden.DefaultTopK = parsed
		}
	}
	if v := os.Getenv("GOLDEN_MAX_TOP_K"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Golden.MaxTopK = parsed
		}
	}
	if v := os.Getenv("GOLDEN_RESULT_CACHE_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Golden.ResultCacheTTL = parsed
		}
	}
	if v := os.Getenv("GOLDEN_RECOMMENDATIONS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Golden.TopRecommendations = parsed
		}
	}
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("POSTGRES_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Postgres.MaxConns = int32(parsed)
		}
	}
	if v := os.Getenv("POSTGRES_MIN_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Postgres.MinConns = int32(parsed)
		}
	}
	if v := os.Getenv("VALKEY_ENABLED"); v != "" {
		cfg.Valkey.Enabled = parseBool(v)
	}
	if v := os.Getenv("VALKEY_ADDR"); v != "" {
		cfg.Valkey.Addr = v
	}
	if v := os.Getenv("EXECUTE_DRIVER"); v != "" {
		cfg.Execute.Driver = v
	}
	if v := os.Getenv("EXECUTE_DUCKDB_PATH"); v != "" {
		cfg.Execute.DuckDBPath = v
	}
	if v := os.Getenv("EXPORT_ENABLED"); v != "" {
		cfg.Export.Enabled = parseBool(v)
	}
	if v := os.Getenv("EXPORT_ENDPOINT"); v != "" {
		cfg.Export.Endpoint = v
	}
	if v := os.Getenv("EXPORT_ACCESS_KEY"); v != "" {
		cfg.Export.AccessKey = v
	}
	if v := os.Getenv("EXPORT_SECRET_KEY"); v != "" {
		cfg.Export.SecretKey = v
	}
	if v := os.Getenv("EXPORT_BUCKET"); v != "" {
		cfg.Export.Bucket = v
	}
	if v := os.Getenv("EXPORT_REGION"); v != "" {
		cfg.Export.Region = v
	}
}

func parseBool(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 30 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 120,
				Burst:             30,
			},
		},
		LLM: LLMConfig{
			EmbeddingModel: "text-embedding-3-small",
			Dimension:      1536,
			MaxInputTokens: 8192,
		},
		Golden: GoldenConfig{
			DefaultTopK:        20,
			MaxTopK:            100,
			ResultCacheTTL:     0,
			TopRecommendations: 10,
		},
		Postgres: PostgresConfig{
			MaxConns: 4,
			MinConns: 0,
		},
		Valkey: ValkeyConfig{
			Enabled: false,
		},
		Execute: ExecuteConfig{
			Driver:     "postgres",
			DuckDBPath: "data/golden_records.duckdb",
		},
		Export: ExportConfig{
			Enabled: false,
			Bucket:  "golden-records",
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if strings.TrimSpace(c.LLM.EmbeddingModel) == "" {
		return errors.New("llm.embeddingModel cannot be empty")
	}
	if c.LLM.Dimension <= 0 {
		return errors.New("llm.dimension must be positive")
	}
	if c.Golden.DefaultTopK <= 0 {
		return errors.New("golden.defaultTopK must be positive")
	}
	if c.Golden.MaxTopK < c.Golden.DefaultTopK {
		return errors.New("golden.maxTopK cannot be below golden.defaultTopK")
	}
	if c.Golden.ResultCacheTTL < 0 {
		return errors.New("golden.resultCacheTtl cannot be negative")
	}
	if c.Golden.TopRecommendations < 0 {
		return errors.New("golden.topRecommendations cannot be negative")
	}
	switch c.Execute.Driver {
	case "postgres", "duckdb":
	default:
		return fmt.Errorf("execute.driver must be postgres or duckdb, got %q", c.Execute.Driver)
	}
	if c.Execute.Driver == "duckdb" && strings.TrimSpace(c.Execute.DuckDBPath) == "" {
		return errors.New("execute.duckdbPath cannot be empty when the duckdb driver is selected")
	}
	if c.Valkey.Enabled && strings.TrimSpace(c.Valkey.Addr) == "" {
		return errors.New("valkey.addr cannot be empty when valkey is enabled")
	}
	if c.Export.Enabled {
		if strings.TrimSpace(c.Export.Endpoint) == "" {
			return errors.New("export.endpoint cannot be empty when export is enabled")
		}
		if strings.TrimSpace(c.Export.Bucket) == "" {
			return errors.New("export.bucket cannot be empty when export is enabled")
		}
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	return nil
}
