package config

import (
	"log/slog"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds runtime configuration for the solver services.
type Config struct {
	// Server
	Port     int    `env:"PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Providers
	PerplexityKey    string   `env:"PERPLEXITY_API_KEY"`
	PerplexityURL    string   `env:"PERPLEXITY_BASE_URL" envDefault:"https://api.perplexity.ai"`
	PerplexityModels []string `env:"PERPLEXITY_MODELS" envSeparator:"," envDefault:"sonar-pro,sonar,sonar-reasoning-pro,sonar-reasoning"`
	GroqKey          string   `env:"GROQ_API_KEY"`
	GroqURL          string   `env:"GROQ_BASE_URL" envDefault:"https://api.groq.com/openai/v1"`
	GroqModels       []string `env:"GROQ_MODELS" envSeparator:"," envDefault:"llama-3.1-8b-instant,llama-3.3-70b-versatile"`

	// Fan-out and voting
	SolveTimeout        time.Duration `env:"SOLVE_TIMEOUT" envDefault:"25s"`
	QueryRetries        int           `env:"QUERY_RETRIES" envDefault:"2"`
	SimilarityThreshold float64       `env:"SIMILARITY_THRESHOLD" envDefault:"0.7"`

	// Store
	StoreProvider string `env:"STORE_PROVIDER" envDefault:"postgres"` // "postgres" (production database)
	DBURL         string `env:"DB_URL"`

	// Cache
	CacheProvider string `env:"CACHE_PROVIDER" envDefault:"redis"` // "redis" or "noop"
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	CacheTTL      int    `env:"CACHE_TTL" envDefault:"3600"` // seconds

	// Queue
	QueueProvider string `env:"QUEUE_PROVIDER" envDefault:"nats"` // "nats" (required for async solving)
	QueueURL      string `env:"QUEUE_URL"`
}

// Load reads configuration from environment variables with defaults.
func Load() Config {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		slog.Warn("failed to parse env; using defaults where set", "err", err)
	}
	return cfg
}
