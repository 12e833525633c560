// Package main is the entrypoint for the docsense API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/kiranshivaraju/docsense/internal/agent"
	"github.com/kiranshivaraju/docsense/internal/analysis"
	"github.com/kiranshivaraju/docsense/internal/api"
	"github.com/kiranshivaraju/docsense/internal/api/handler"
	"github.com/kiranshivaraju/docsense/internal/api/response"
	"github.com/kiranshivaraju/docsense/internal/cache"
	"github.com/kiranshivaraju/docsense/internal/config"
	"github.com/kiranshivaraju/docsense/internal/jobs"
	"github.com/kiranshivaraju/docsense/internal/llm"
	"github.com/kiranshivaraju/docsense/internal/storage"
	"github.com/kiranshivaraju/docsense/pkg/models"
)

const shutdownTimeout = 30 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	// 1. Load config - fail fast on invalid config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	slog.Info("config loaded", "llm_provider", cfg.LLM.Provider, "env", cfg.Server.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Create document store
	docStore, err := storage.NewLocalStore(cfg.Uploads.Dir)
	if err != nil {
		return fmt.Errorf("create document store: %w", err)
	}
	slog.Info("upload directory ready", "dir", cfg.Uploads.Dir)

	// 3. Create cache: Redis when configured, no-op otherwise
	var jobCache cache.Cache = &cache.Noop{}
	if cfg.Redis.URL != "" {
		redisCache, err := cache.NewRedisCache(cfg.Redis.URL)
		if err != nil {
			return fmt.Errorf("create redis cache: %w", err)
		}
		defer redisCache.Close()

		if err := redisCache.Ping(ctx); err != nil {
			return fmt.Errorf("ping redis: %w", err)
		}
		slog.Info("redis connected")
		jobCache = redisCache
	}

	// 4. Create LLM client; nil means heuristics-only agents
	llmClient, err := llm.NewClient(cfg.LLM)
	if err != nil {
		return fmt.Errorf("create LLM client: %w", err)
	}
	if llmClient != nil {
		slog.Info("LLM client initialized", "provider", llmClient.Name(), "model", llmClient.Model())
	} else {
		slog.Info("no LLM provider configured, agents run heuristics only")
	}

	// 5. Build agents and the orchestration core
	agents := []models.Agent{
		agent.NewSummarizer(llmClient, logger),
		agent.NewExtractor(llmClient, logger),
		agent.NewSentimentAnalyzer(llmClient, logger),
	}
	registry := jobs.NewRegistry()
	orchestrator := analysis.NewOrchestrator(agents, cfg.Analysis.AgentTimeout, logger)
	svc := analysis.NewService(registry, orchestrator, jobCache, logger, cfg.Analysis.QueueSize)
	svc.Start(ctx, cfg.Analysis.Workers)
	slog.Info("analysis workers started", "workers", cfg.Analysis.Workers, "queue_size", cfg.Analysis.QueueSize)

	// 6. Build router with dependencies
	deps := api.Dependencies{
		HealthHandler:  healthHandler(jobCache),
		UploadHandler:  handler.NewUploadHandler(registry, docStore),
		AnalyzeHandler: handler.NewAnalyzeHandler(svc),
		ResultsHandler: handler.NewResultsHandler(registry),
	}

	router := api.NewRouter(deps)

	// 7. Start HTTP server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for shutdown signal or server error
	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		slog.Info("shutdown signal received, draining connections...")
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	svc.Wait()
	slog.Info("server stopped gracefully")
	return nil
}

// healthHandler checks cache connectivity.
func healthHandler(c cache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]string{
			"cache": "ok",
		}

		if err := c.Ping(r.Context()); err != nil {
			checks["cache"] = "degraded"
		}

		if checks["cache"] != "ok" {
			response.Error(w, http.StatusServiceUnavailable, "DEGRADED",
				"One or more services degraded", checks)
			return
		}

		response.JSON(w, map[string]any{
			"status":   "ok",
			"services": checks,
		})
	}
}
