package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

type Config struct {
	AppEnv        string `env:"APP_ENV" default:"development"`
	Port          string `env:"PORT" default:"8080"`
	RedisURL      string `env:"REDIS_URL"`
	SessionSecret string `env:"SESSION_SECRET"`
	LogLevel      string `env:"LOG_LEVEL" default:"info"`
	LogFormat     string `env:"LOG_FORMAT" default:"text"`

	CatalogBaseURL string `env:"CATALOG_BASE_URL"`
	CatalogAPIKey  string `env:"CATALOG_API_KEY"`
	CartBaseURL    string `env:"CART_BASE_URL"`

	// Feed engine tunables. The defaults reproduce the reference behavior;
	// none of them is a contract.
	PageSize       int           `env:"PAGE_SIZE" default:"20"`
	FeedLookahead  int           `env:"FEED_LOOKAHEAD" default:"3"`
	SwipeThreshold float64       `env:"SWIPE_THRESHOLD" default:"10000"`
	CommitDelay    time.Duration `env:"COMMIT_DELAY" default:"300ms"`

	SessionMaxAge time.Duration `env:"SESSION_MAX_AGE" default:"168h"` // 7 days
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	required := map[string]string{
		"REDIS_URL":        cfg.RedisURL,
		"SESSION_SECRET":   cfg.SessionSecret,
		"CATALOG_BASE_URL": cfg.CatalogBaseURL,
	}
	for name, value := range required {
		if value == "" {
			return fmt.Errorf("%s is required", name)
		}
	}

	if cfg.PageSize < 1 {
		return fmt.Errorf("PAGE_SIZE must be at least 1, got %d", cfg.PageSize)
	}
	if cfg.FeedLookahead < 0 {
		return fmt.Errorf("FEED_LOOKAHEAD must not be negative, got %d", cfg.FeedLookahead)
	}
	if cfg.SwipeThreshold <= 0 {
		return fmt.Errorf("SWIPE_THRESHOLD must be positive, got %v", cfg.SwipeThreshold)
	}
	if cfg.CommitDelay < 0 {
		return fmt.Errorf("COMMIT_DELAY must not be negative, got %v", cfg.CommitDelay)
	}

	return nil
}
