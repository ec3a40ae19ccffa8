package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

// TraceIDKey is the context key every component uses to pull the request
// trace id into its logger.
const TraceIDKey = "traceId"

type Config struct {
	Server   ServerConfig   `toml:"server"`
	Pipeline PipelineConfig `toml:"pipeline"`
	OpenAI   OpenAIConfig   `toml:"openai"`
	Gemini   GeminiConfig   `toml:"gemini"`
	Qdrant   QdrantConfig   `toml:"qdrant"`
	Redis    RedisConfig    `toml:"redis"`
}

type ServerConfig struct {
	ListenAddr             string   `toml:"listen_addr"`
	ReadTimeoutSeconds     int      `toml:"read_timeout_seconds"`
	WriteTimeoutSeconds    int      `toml:"write_timeout_seconds"`
	IdleTimeoutSeconds     int      `toml:"idle_timeout_seconds"`
	ShutdownTimeoutSeconds int      `toml:"shutdown_timeout_seconds"`
	RateLimitPerSecond     float64  `toml:"rate_limit_per_second"`
	RateLimitBurst         int      `toml:"rate_limit_burst"`
	AuthToken              string   `toml:"auth_token"` // empty disables auth
	CORSAllowOrigins       []string `toml:"cors_allow_origins"`
}

type PipelineConfig struct {
	Provider              string `toml:"provider"` // "openai" or "gemini"
	Collection            string `toml:"collection"`
	ChunkSize             int    `toml:"chunk_size"`
	TopK                  int    `toml:"top_k"`
	RequestTimeoutSeconds int    `toml:"request_timeout_seconds"`
}

type OpenAIConfig struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"` // set for Azure-compatible endpoints
	ChatModel      string `toml:"chat_model"`
	EmbeddingModel string `toml:"embedding_model"`
	EmbeddingDim   int    `toml:"embedding_dim"`
}

type GeminiConfig struct {
	APIKey         string `toml:"api_key"`
	ChatModel      string `toml:"chat_model"`
	EmbeddingModel string `toml:"embedding_model"`
	EmbeddingDim   int    `toml:"embedding_dim"`
}

type QdrantConfig struct {
	Host     string `toml:"host"`
	GrpcPort int    `toml:"grpc_port"`
	UseTLS   bool   `toml:"use_tls"`
	PoolSize int    `toml:"pool_size"`
}

type RedisConfig struct {
	Addr           string `toml:"addr"` // empty disables the answer cache
	Password       string `toml:"password"`
	DB             int    `toml:"db"`
	AnswerTTLHours int    `toml:"answer_ttl_hours"`
	ConnectSeconds int    `toml:"connect_seconds"`
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			ListenAddr:             ":3000",
			ReadTimeoutSeconds:     5,
			WriteTimeoutSeconds:    60,
			IdleTimeoutSeconds:     120,
			ShutdownTimeoutSeconds: 10,
			RateLimitPerSecond:     2,
			RateLimitBurst:         5,
			CORSAllowOrigins:       []string{"*"}, // restrict in production
		},
		Pipeline: PipelineConfig{
			Provider:              "openai",
			Collection:            "uk_talent_visa",
			ChunkSize:             800,
			TopK:                  3,
			RequestTimeoutSeconds: 30,
		},
		OpenAI: OpenAIConfig{
			ChatModel:      "gpt-4o-mini",
			EmbeddingModel: "text-embedding-3-small",
			EmbeddingDim:   1536,
		},
		Gemini: GeminiConfig{
			ChatModel:      "gemini-2.5-flash-lite-preview-09-2025",
			EmbeddingModel: "gemini-embedding-001",
			EmbeddingDim:   1536,
		},
		Qdrant: QdrantConfig{
			Host:     "127.0.0.1",
			GrpcPort: 6334,
			PoolSize: 1,
		},
		Redis: RedisConfig{
			AnswerTTLHours: 24,
			ConnectSeconds: 3,
		},
	}
}

// Load builds the effective configuration: compiled defaults, then the TOML
// file named by CONFIG_FILE (if present), then environment overrides.
func Load() (*Config, error) {
	cfg := defaultConfig()

	configPath := getEnv("CONFIG_FILE", "configs/config.toml")
	if _, err := os.Stat(configPath); err == nil {
		if _, err := toml.DecodeFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("decode config file failed: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if cfg.Pipeline.ChunkSize <= 0 {
		return nil, fmt.Errorf("pipeline chunk_size must be positive, got %d", cfg.Pipeline.ChunkSize)
	}
	if cfg.Pipeline.TopK <= 0 {
		return nil, fmt.Errorf("pipeline top_k must be positive, got %d", cfg.Pipeline.TopK)
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	cfg.Server.ListenAddr = getEnv("LISTEN_ADDR", cfg.Server.ListenAddr)
	cfg.OpenAI.APIKey = getEnv("OPENAI_API_KEY", cfg.OpenAI.APIKey)
	cfg.OpenAI.BaseURL = getEnv("OPENAI_BASE_URL", cfg.OpenAI.BaseURL)
	cfg.Gemini.APIKey = getEnv("GEMINI_API_KEY", cfg.Gemini.APIKey)
	cfg.Qdrant.Host = getEnv("QDRANT_HOST", cfg.Qdrant.Host)
	cfg.Redis.Addr = getEnv("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Pipeline.Collection = getEnv("RAG_COLLECTION", cfg.Pipeline.Collection)

	if port := os.Getenv("QDRANT_GRPC_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Qdrant.GrpcPort = p
		}
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func (c *ServerConfig) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutSeconds) * time.Second
}

func (c *ServerConfig) WriteTimeout() time.Duration {
	return time.Duration(c.WriteTimeoutSeconds) * time.Second
}

func (c *ServerConfig) IdleTimeout() time.Duration {
	return time.Duration(c.IdleTimeoutSeconds) * time.Second
}

func (c *ServerConfig) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}

func (c *PipelineConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

func (c *RedisConfig) AnswerTTL() time.Duration {
	return time.Duration(c.AnswerTTLHours) * time.Hour
}

func (c *RedisConfig) ConnectTimeout() time.Duration {
	return time.Duration(c.ConnectSeconds) * time.Second
}
