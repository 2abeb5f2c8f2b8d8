// Command worker consumes the distributed task queue and executes
// provider-backed generation jobs. It shares configuration and Redis keys
// with cmd/server; any number of worker processes may run concurrently.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sketchforge/sketchforge-api/internal/config"
	"github.com/sketchforge/sketchforge-api/internal/platform/ai302"
	"github.com/sketchforge/sketchforge-api/internal/platform/gemini"
	"github.com/sketchforge/sketchforge-api/internal/platform/logger"
	platformredis "github.com/sketchforge/sketchforge-api/internal/platform/redis"
	"github.com/sketchforge/sketchforge-api/internal/platform/trellis"
	"github.com/sketchforge/sketchforge-api/internal/task"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "worker failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	ctx := context.Background()

	redisClient, err := platformredis.NewClient(ctx, cfg.Redis)
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Warn("Failed to close redis client", "error", err)
		}
	}()

	q, err := platformredis.NewQueue(redisClient)
	if err != nil {
		return fmt.Errorf("failed to create task queue: %w", err)
	}
	channel, err := platformredis.NewEventChannel(redisClient)
	if err != nil {
		return fmt.Errorf("failed to create event channel: %w", err)
	}
	results, err := platformredis.NewResultStore(redisClient)
	if err != nil {
		return fmt.Errorf("failed to create result store: %w", err)
	}

	images := gemini.NewGenerator(cfg.Providers.GeminiAPIKey, log)
	registry := task.NewDefaultRegistry(task.Providers{
		Scenes: ai302.NewClient(cfg.Providers.AI302BaseURL, cfg.Providers.AI302APIKey, log),
		Images: images,
		Meshes: trellis.NewClient(cfg.Providers.AI302BaseURL, cfg.Providers.TrellisAPIKey, log),
	})

	executor := task.NewExecutor(registry, channel, results, cfg.Task.ResultTTL, log)
	pool := task.NewPool(q, executor, task.PoolConfig{
		WorkerCount: cfg.Task.WorkerCount,
	}, log)

	pool.Start()
	log.Info("Worker pool started", "workers", cfg.Task.WorkerCount)

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)
	<-shutdownCh

	log.Info("Shutting down worker pool...")
	pool.Stop()
	log.Info("Worker shutdown completed")
	return nil
}
