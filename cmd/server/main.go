// Package main is the entrypoint for the academic integrity API server.
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

	"github.com/kiranshivaraju/integrity/internal/ai"
	"github.com/kiranshivaraju/integrity/internal/api"
	"github.com/kiranshivaraju/integrity/internal/api/handler"
	mw "github.com/kiranshivaraju/integrity/internal/api/middleware"
	"github.com/kiranshivaraju/integrity/internal/cache"
	"github.com/kiranshivaraju/integrity/internal/config"
	"github.com/kiranshivaraju/integrity/internal/detection"
	"github.com/kiranshivaraju/integrity/internal/export"
	"github.com/kiranshivaraju/integrity/internal/identity"
	"github.com/kiranshivaraju/integrity/internal/store"
	"github.com/kiranshivaraju/integrity/pkg/models"
)

const shutdownTimeout = 30 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load config, failing fast on invalid values
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	slog.Info("config loaded",
		"ai_provider", cfg.AI.Provider,
		"store", cfg.Store.Backend,
		"identity", cfg.Identity.Provider,
		"env", cfg.Server.Env,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Open the report store (runs migrations for postgres)
	st, err := store.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close(context.Background())
	slog.Info("store connected", "backend", cfg.Store.Backend)

	// 3. Create Redis cache
	redisCache, err := cache.NewRedisCache(cfg.Redis.URL)
	if err != nil {
		return fmt.Errorf("create redis cache: %w", err)
	}
	defer redisCache.Close()

	if err := redisCache.Ping(ctx); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	slog.Info("redis connected")

	// 4. Create AI provider and generation client
	provider, err := ai.NewProvider(ctx, cfg.AI)
	if err != nil {
		return fmt.Errorf("create AI provider: %w", err)
	}
	client := ai.NewClient(provider, cfg.AI)
	slog.Info("AI provider initialized",
		"provider", client.Name(),
		"timeout", cfg.AI.InferenceTimeout,
		"max_retries", cfg.AI.MaxRetries,
	)

	svc := ai.NewIntegrityService(client, st, detection.NewAssembler(nil, nil), ai.HistoryOrder(cfg.History.Order))

	// 5. Identity backend
	ident, err := identity.New(ctx, cfg.Identity, st)
	if err != nil {
		return fmt.Errorf("create identity service: %w", err)
	}

	// 6. Export sink
	sink, err := export.NewSink(ctx, cfg.Export)
	if err != nil {
		return fmt.Errorf("create export sink: %w", err)
	}
	exporter := export.NewExporter(sink, nil)

	// 7. Build router with dependencies
	deps := api.Dependencies{
		Auth:      mw.NewAuth(ident),
		RateLimit: mw.NewRateLimit(redisCache, cfg.RateLimit.RequestsPerMinute),

		HealthHandler: handler.NewHealthHandler(map[string]handler.Pinger{
			"store": st,
			"cache": redisCache,
		}),
		SignupHandler: handler.NewSignupHandler(ident),
		LoginHandler:  handler.NewLoginHandler(ident, redisCache),

		BreakdownHandler: handler.NewAssistHandler(svc, models.TaskBreakdown),
		FeedbackHandler:  handler.NewAssistHandler(svc, models.TaskFeedback),
		SourcesHandler:   handler.NewAssistHandler(svc, models.TaskSourceSuggestion),

		DetectHandler:    handler.NewDetectHandler(svc, models.OriginDraft),
		DetectWebHandler: handler.NewDetectHandler(svc, models.OriginWeb),
		HistoryHandler:   handler.NewDetectionHistoryHandler(svc),

		SaveSessionHandler:  handler.NewSaveSessionHandler(svc),
		ListSessionsHandler: handler.NewSessionHistoryHandler(svc),

		ExportHandler: handler.NewExportHandler(exporter),
	}

	router := api.NewRouter(deps)

	// 8. Start HTTP server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: writeTimeout(cfg.AI),
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		slog.Info("shutdown signal received, draining connections...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}

// writeTimeout leaves room for every generation attempt plus backoff.
func writeTimeout(cfg config.AIConfig) time.Duration {
	const floor = 30 * time.Second
	if cfg.InferenceTimeout <= 0 {
		return 0
	}
	attempts := time.Duration(cfg.MaxRetries + 1)
	d := attempts*cfg.InferenceTimeout + attempts*cfg.RetryBaseDelay*4 + 10*time.Second
	return max(d, floor)
}
