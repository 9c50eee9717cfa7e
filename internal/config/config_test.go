package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	// Save original env and restore after test
	originalEnv := os.Environ()
	defer func() {
		os.Clearenv()
		for _, env := range originalEnv {
			// Parse and restore each env var
			for i, c := range env {
				if c == '=' {
					os.Setenv(env[:i], env[i+1:])
					break
				}
			}
		}
	}()

	// Clear env to test defaults
	os.Clearenv()

	cfg := Load()

	tests := []struct {
		name     string
		got      interface{}
		expected interface{}
	}{
		{"Port", cfg.Port, 8080},
		{"LogLevel", cfg.LogLevel, "info"},
		{"PerplexityURL", cfg.PerplexityURL, "https://api.perplexity.ai"},
		{"GroqURL", cfg.GroqURL, "https://api.groq.com/openai/v1"},
		{"SolveTimeout", cfg.SolveTimeout, 25 * time.Second},
		{"QueryRetries", cfg.QueryRetries, 2},
		{"SimilarityThreshold", cfg.SimilarityThreshold, 0.7},
		{"StoreProvider", cfg.StoreProvider, "postgres"},
		{"CacheProvider", cfg.CacheProvider, "redis"},
		{"CacheTTL", cfg.CacheTTL, 3600},
		{"QueueProvider", cfg.QueueProvider, "nats"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("expected %s=%v, got %v", tt.name, tt.expected, tt.got)
			}
		})
	}

	if len(cfg.PerplexityModels) != 4 {
		t.Errorf("expected 4 default perplexity models, got %v", cfg.PerplexityModels)
	}
	if len(cfg.GroqModels) != 2 {
		t.Errorf("expected 2 default groq models, got %v", cfg.GroqModels)
	}
}

func TestLoadFromEnv(t *testing.T) {
	// Save and restore env
	originalPort := os.Getenv("PORT")
	originalModels := os.Getenv("GROQ_MODELS")
	defer func() {
		os.Setenv("PORT", originalPort)
		os.Setenv("GROQ_MODELS", originalModels)
	}()

	// Set test values
	os.Setenv("PORT", "9090")
	os.Setenv("GROQ_MODELS", "llama-3.3-70b-versatile")

	cfg := Load()

	if cfg.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Port)
	}
	if len(cfg.GroqModels) != 1 || cfg.GroqModels[0] != "llama-3.3-70b-versatile" {
		t.Errorf("expected single groq model, got %v", cfg.GroqModels)
	}
}

func TestLoadProviderOverrides(t *testing.T) {
	// Save and restore env
	originalCache := os.Getenv("CACHE_PROVIDER")
	defer func() {
		os.Setenv("CACHE_PROVIDER", originalCache)
	}()

	// Set test values
	os.Setenv("CACHE_PROVIDER", "noop")

	cfg := Load()

	if cfg.CacheProvider != "noop" {
		t.Errorf("expected cache provider 'noop', got %s", cfg.CacheProvider)
	}
}
