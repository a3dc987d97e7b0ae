package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Diferti/swibee/internal/app"
	"github.com/Diferti/swibee/internal/catalog"
	"github.com/Diferti/swibee/internal/config"
	"github.com/Diferti/swibee/internal/decision"
	"github.com/Diferti/swibee/internal/feed"
	"github.com/Diferti/swibee/internal/logging"
	"github.com/Diferti/swibee/internal/redis"
	"github.com/Diferti/swibee/internal/server"
	"github.com/jonboulle/clockwork"
	goredis "github.com/redis/go-redis/v9"
)

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func setupRedis(ctx context.Context, cfg *config.Config) *goredis.Client {
	client, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		slog.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	return client
}

func runGracefulShutdown(srv *server.Server, engine *feed.Engine, decisions *decision.Store) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		engine.Stop()

		// Waits for pending decision write-throughs to drain.
		decisions.Close()

		close(done)
	}()

	return done
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	// Initialize structured logging
	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port)

	redisClient := setupRedis(context.Background(), cfg)
	defer func() { _ = redisClient.Close() }()

	kv := redis.NewKVStore(redisClient)
	decisions := decision.NewStore(kv, clock)

	catalogClient := catalog.NewClient(cfg.CatalogBaseURL, cfg.CatalogAPIKey)
	cartClient := catalog.NewCartClient(cfg.CartBaseURL, cfg.CatalogAPIKey)

	engine := feed.NewEngine(catalogClient, decisions, clock, feed.Options{
		PageSize:    cfg.PageSize,
		Lookahead:   cfg.FeedLookahead,
		CommitDelay: cfg.CommitDelay,
	})
	engine.Start()

	appSvc := app.NewService(kv, decisions, engine, catalogClient, cartClient, cfg.SwipeThreshold)

	srv := server.NewServer(cfg, appSvc, redisClient)

	done := runGracefulShutdown(srv, engine, decisions)

	slog.Info("Server starting", "port", cfg.Port)
	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}
