package app

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"

	"quizsolver/internal/cache"
	"quizsolver/internal/config"
	"quizsolver/internal/logger"
	"quizsolver/internal/provider"
	"quizsolver/internal/queue"
	"quizsolver/internal/store"
)

// Deps bundles common runtime dependencies for services.
type Deps struct {
	Config  config.Config
	Log     *slog.Logger
	Store   store.Store
	Cache   cache.Cache
	Queue   queue.Queue
	Clients []provider.Client
}

// Build loads env, config, and shared components for the solver service
// and the queue worker.
func Build() (Deps, error) {
	cfg, log, err := base()
	if err != nil {
		return Deps{}, err
	}

	st, err := buildStore(cfg, log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize store: %w", err)
	}
	c, err := buildCache(cfg, log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize cache: %w", err)
	}
	q, err := buildQueue(cfg, log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize queue: %w", err)
	}
	clients, err := buildClients(cfg, log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize providers: %w", err)
	}
	return Deps{
		Config:  cfg,
		Log:     log,
		Store:   st,
		Cache:   c,
		Queue:   q,
		Clients: clients,
	}, nil
}

// BuildModelCheck loads just enough to probe provider models: config,
// logging and the candidate clients.
func BuildModelCheck() (Deps, error) {
	cfg, log, err := base()
	if err != nil {
		return Deps{}, err
	}
	clients, err := buildClients(cfg, log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize providers: %w", err)
	}
	return Deps{Config: cfg, Log: log, Clients: clients}, nil
}

func base() (config.Config, *slog.Logger, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return config.Config{}, nil, fmt.Errorf("failed to load environment variables: %w", err)
	}
	cfg := config.Load()
	return cfg, logger.New(cfg.LogLevel), nil
}

func buildStore(cfg config.Config, log *slog.Logger) (store.Store, error) {
	switch cfg.StoreProvider {
	case "postgres":
		if cfg.DBURL == "" {
			return nil, fmt.Errorf("DB_URL is required when STORE_PROVIDER=postgres")
		}
		db, err := store.NewPostgres(cfg.DBURL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Postgres: %w", err)
		}
		log.Info("using Postgres store")
		return db, nil
	default:
		return nil, fmt.Errorf("invalid STORE_PROVIDER: %s (valid option: postgres)", cfg.StoreProvider)
	}
}

func buildCache(cfg config.Config, log *slog.Logger) (cache.Cache, error) {
	switch cfg.CacheProvider {
	case "redis":
		c, err := cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			// A dead cache degrades to re-asking the models, so don't
			// refuse to start over it.
			log.Warn("redis unavailable, running without cache", "err", err)
			return cache.NewNoOpCache(), nil
		}
		log.Info("using Redis cache", "addr", cfg.RedisAddr)
		return c, nil
	case "noop":
		log.Info("caching disabled")
		return cache.NewNoOpCache(), nil
	default:
		return nil, fmt.Errorf("invalid CACHE_PROVIDER: %s (valid options: redis, noop)", cfg.CacheProvider)
	}
}

func buildQueue(cfg config.Config, log *slog.Logger) (queue.Queue, error) {
	switch cfg.QueueProvider {
	case "nats":
		if cfg.QueueURL == "" {
			return nil, fmt.Errorf("QUEUE_URL is required when QUEUE_PROVIDER=nats")
		}
		nc, err := nats.Connect(cfg.QueueURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to NATS: %w", err)
		}
		log.Info("using NATS queue")
		return queue.NewNATS(log, nc), nil
	default:
		return nil, fmt.Errorf("invalid QUEUE_PROVIDER: %s (valid option: nats)", cfg.QueueProvider)
	}
}

func buildClients(cfg config.Config, log *slog.Logger) ([]provider.Client, error) {
	var clients []provider.Client

	if cfg.PerplexityKey != "" {
		for _, model := range cfg.PerplexityModels {
			c, err := provider.NewChatClient("perplexity", cfg.PerplexityURL, cfg.PerplexityKey, model, cfg.QueryRetries)
			if err != nil {
				return nil, err
			}
			clients = append(clients, c)
		}
	}
	if cfg.GroqKey != "" {
		for _, model := range cfg.GroqModels {
			c, err := provider.NewChatClient("groq", cfg.GroqURL, cfg.GroqKey, model, cfg.QueryRetries)
			if err != nil {
				return nil, err
			}
			clients = append(clients, c)
		}
	}

	if len(clients) == 0 {
		return nil, fmt.Errorf("no providers configured: set PERPLEXITY_API_KEY and/or GROQ_API_KEY")
	}
	log.Info("providers configured", "models", len(clients))
	return clients, nil
}
