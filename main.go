package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/romizzidiamly/vocabmaster/internal/ai"
	"github.com/romizzidiamly/vocabmaster/internal/auth"
	"github.com/romizzidiamly/vocabmaster/internal/bot"
	"github.com/romizzidiamly/vocabmaster/internal/cache"
	"github.com/romizzidiamly/vocabmaster/internal/config"
	"github.com/romizzidiamly/vocabmaster/internal/database"
	"github.com/romizzidiamly/vocabmaster/internal/filestore"
	"github.com/romizzidiamly/vocabmaster/internal/logger"
	"github.com/romizzidiamly/vocabmaster/internal/recall"
	"github.com/romizzidiamly/vocabmaster/internal/scheduler"
	"github.com/romizzidiamly/vocabmaster/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logg, err := logger.New(cfg.App.Env, cfg.App.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logg.Sync()

	if err := run(cfg, logg); err != nil {
		logg.Fatal("application stopped with error", "error", err)
	}
}

func run(cfg *config.Config, logg *logger.Logger) error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo, closeRepo, err := openRepository(ctx, cfg.Storage, logg)
	if err != nil {
		return err
	}
	defer closeRepo()

	enricher, warmer, closeCache := buildEnricher(ctx, cfg.AI, logg)
	defer closeCache()

	engine := recall.NewEngine(repo, enricher, logg)
	if err := engine.Load(ctx); err != nil {
		// the library starts empty; the app stays usable
		logg.Error("failed to load topics, starting with an empty library", "error", err)
	}

	authn := auth.New(cfg.Admin)
	if authn.Disabled() {
		logg.Warn("admin authentication is disabled, topic management is open to everyone")
	}

	srv := server.New(cfg.HTTP, engine, enricher, authn, logg)

	errChan := make(chan error, 2)
	go func() {
		if err := srv.Start(); err != nil {
			errChan <- fmt.Errorf("http server: %w", err)
		}
	}()

	var tgBot *bot.Bot
	if cfg.Telegram.Token != "" {
		tgBot, err = bot.New(bot.ConfigFrom(cfg.Telegram, cfg.HTTP.MaxUploadBytes), engine, logg)
		if err != nil {
			logg.Error("telegram bot disabled", "error", err)
		} else {
			go func() {
				if err := tgBot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
					errChan <- fmt.Errorf("telegram bot: %w", err)
				}
			}()
		}
	}

	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled && warmer != nil {
		sched = scheduler.New(warmer, engine, cfg.Scheduler.Interval, cfg.Scheduler.BatchSize, logg)
		if err := sched.Start(); err != nil {
			logg.Error("enrichment warmer disabled", "error", err)
			sched = nil
		}
	}

	var runErr error
	select {
	case sig := <-sigChan:
		logg.Info("received signal, shutting down", "signal", sig.String())
	case runErr = <-errChan:
		logg.Error("component failed, shutting down", "error", runErr)
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logg.Error("http server shutdown failed", "error", err)
	}
	if tgBot != nil {
		tgBot.Stop()
	}
	if sched != nil {
		sched.Stop()
	}
	engine.Close()

	logg.Info("stopped")
	return runErr
}

// openRepository builds the topic store selected by the storage driver
func openRepository(ctx context.Context, cfg config.StorageConfig, logg *logger.Logger) (recall.Repository, func(), error) {
	switch cfg.Driver {
	case config.DriverFile:
		store, err := filestore.New(cfg.DataDir, logg)
		if err != nil {
			return nil, nil, fmt.Errorf("open file store: %w", err)
		}
		logg.Info("using file storage", "dir", cfg.DataDir)
		return store, func() {}, nil

	case config.DriverRedis:
		rc, err := cache.NewRedisCache(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		logg.Info("using redis storage")
		return cache.NewTopicStore(rc.Client(), ""), func() { _ = rc.Close() }, nil

	default:
		db, err := database.Open(cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("open database: %w", err)
		}
		logg.Info("using sql storage", "driver", cfg.Driver)
		return database.NewTopicRepository(db), func() { _ = db.Close() }, nil
	}
}

// buildEnricher composes the provider client with retries, an optional redis
// cache and metrics. Without an API key enrichment is disabled and nil is returned.
func buildEnricher(ctx context.Context, cfg config.AIConfig, logg *logger.Logger) (ai.Enricher, scheduler.Warmer, func()) {
	if cfg.APIKey == "" {
		logg.Warn("GROQ_API_KEY is not set, word enrichment is disabled")
		return nil, nil, func() {}
	}

	var next ai.Enricher = ai.NewRetrying(ai.New(cfg, logg), ai.RetryPolicy{
		MaxAttempts:    cfg.MaxAttempts,
		InitialBackoff: cfg.InitialBackoff,
		MaxBackoff:     cfg.MaxBackoff,
	}, logg)

	if cfg.CacheRedisURL == "" {
		return ai.NewInstrumented(next), nil, func() {}
	}

	connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	rc, err := cache.NewRedisCache(connectCtx, cfg.CacheRedisURL)
	if err != nil {
		logg.Error("enrichment cache unavailable, continuing without it", "error", err)
		return ai.NewInstrumented(next), nil, func() {}
	}

	cached := ai.NewCached(next, rc, cfg.CacheTTL, logg)
	return ai.NewInstrumented(cached), cached, func() { _ = rc.Close() }
}
