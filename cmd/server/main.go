// Command server runs the sketchforge HTTP API: task dispatch, status
// queries, SSE and WebSocket delivery, and the synchronous parse endpoint.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/sketchforge/sketchforge-api/internal/api"
	"github.com/sketchforge/sketchforge-api/internal/config"
	"github.com/sketchforge/sketchforge-api/internal/platform/ai302"
	"github.com/sketchforge/sketchforge-api/internal/platform/cerebras"
	"github.com/sketchforge/sketchforge-api/internal/platform/gemini"
	"github.com/sketchforge/sketchforge-api/internal/platform/logger"
	platformredis "github.com/sketchforge/sketchforge-api/internal/platform/redis"
	"github.com/sketchforge/sketchforge-api/internal/platform/trellis"
	"github.com/sketchforge/sketchforge-api/internal/service"
	"github.com/sketchforge/sketchforge-api/internal/task"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server failed: %v\n", err)
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

	deps, err := buildDependencies(cfg, redisClient, log)
	if err != nil {
		return err
	}

	// Development convenience: consume the queue in-process instead of
	// running cmd/worker alongside.
	if cfg.Task.EmbedWorker {
		pool := task.NewPool(deps.queue, deps.executor, task.PoolConfig{
			WorkerCount: cfg.Task.WorkerCount,
		}, log)
		pool.Start()
		defer pool.Stop()
		log.Info("Embedded worker pool started", "workers", cfg.Task.WorkerCount)
	}

	router := api.NewRouter(api.RouterDeps{
		Tasks:  api.NewTaskHandler(deps.tasks, log),
		Stream: api.NewStreamHandler(deps.channel, log),
		Mesh: api.NewMeshHandler(
			deps.tasks, deps.results, cfg.Task.PollCeiling, cfg.Task.PollInterval, log),
		Parse:  api.NewParseHandler(deps.extractor, log),
		Logger: log,
	})

	return startHTTPServer(cfg, router, log)
}

// dependencies holds the wired service graph behind the HTTP surface.
type dependencies struct {
	queue     *platformredis.Queue
	channel   *platformredis.EventChannel
	results   *platformredis.ResultStore
	executor  *task.Executor
	tasks     *service.TaskService
	extractor *cerebras.Client
}

func buildDependencies(
	cfg *config.Config,
	redisClient *goredis.Client,
	log *slog.Logger,
) (*dependencies, error) {
	q, err := platformredis.NewQueue(redisClient)
	if err != nil {
		return nil, fmt.Errorf("failed to create task queue: %w", err)
	}
	channel, err := platformredis.NewEventChannel(redisClient)
	if err != nil {
		return nil, fmt.Errorf("failed to create event channel: %w", err)
	}
	results, err := platformredis.NewResultStore(redisClient)
	if err != nil {
		return nil, fmt.Errorf("failed to create result store: %w", err)
	}

	scenes := ai302.NewClient(cfg.Providers.AI302BaseURL, cfg.Providers.AI302APIKey, log)
	meshes := trellis.NewClient(cfg.Providers.AI302BaseURL, cfg.Providers.TrellisAPIKey, log)
	extractor := cerebras.NewClient(cfg.Providers.CerebrasBaseURL, cfg.Providers.CerebrasAPIKey, log)
	images := gemini.NewGenerator(cfg.Providers.GeminiAPIKey, log)

	registry := task.NewDefaultRegistry(task.Providers{
		Scenes: scenes,
		Images: images,
		Meshes: meshes,
	})

	return &dependencies{
		queue:     q,
		channel:   channel,
		results:   results,
		executor:  task.NewExecutor(registry, channel, results, cfg.Task.ResultTTL, log),
		tasks:     service.NewTaskService(registry, q, results, log),
		extractor: extractor,
	}, nil
}

// startHTTPServer starts the HTTP server with graceful shutdown support.
// It blocks until a termination signal arrives or the listener fails.
func startHTTPServer(cfg *config.Config, router http.Handler, log *slog.Logger) error {
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	serverCtx, cancelServer := context.WithCancel(context.Background())
	defer cancelServer()

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info("Starting server", "port", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed", "error", err)
			cancelServer()
		}
	}()

	select {
	case <-shutdownCh:
		log.Info("Shutting down server...")
	case <-serverCtx.Done():
		log.Info("Server context canceled, shutting down...")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", "error", err)
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server shutdown completed")
	return nil
}
