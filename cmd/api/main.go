package main

import (
	"context"
	"fmt"
	"io"
	"linkpreview/internal/config"
	"linkpreview/internal/domain"
	apihttp "linkpreview/internal/http"
	"linkpreview/internal/http/handlers"
	"linkpreview/internal/pkg/logger"
	"linkpreview/internal/repository/memory"
	"linkpreview/internal/repository/redis"
	"linkpreview/internal/service/api"
	"linkpreview/internal/service/preview"
	"linkpreview/internal/service/ratelimit"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	// Setup logging
	log := logger.NewWithFormat(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	log.Info("Starting API service...", "env", cfg.Env)

	ctx := context.Background()

	// Rate limit counters live in Redis when configured, in memory otherwise
	store, healthChecks, closeStore, err := newRateLimitStore(ctx, cfg, log)
	if err != nil {
		log.Error("Failed to create rate limit store", "error", err)
		os.Exit(1)
	}
	defer closeStore.Close()

	limiter, err := ratelimit.New(store, cfg.RateLimitMax, cfg.RateLimitWindow)
	if err != nil {
		log.Error("Failed to create rate limiter", "error", err)
		os.Exit(1)
	}
	log.Info("Rate limiter initialized",
		"max", cfg.RateLimitMax,
		"window", cfg.RateLimitWindow,
	)

	// Create preview service
	fetcher := preview.NewHTTPFetcher(preview.FetcherOptions{
		Timeout:              cfg.FetchTimeout,
		MaxRedirects:         cfg.FetchMaxRedirects,
		MaxBodyBytes:         cfg.FetchMaxBodyBytes,
		UserAgent:            preview.DefaultUserAgent,
		BlockPrivateNetworks: cfg.BlockPrivateNetworks,
	}, log)
	previewService := preview.NewService(fetcher, log)

	router := apihttp.NewRouter(apihttp.RouterConfig{
		Logger:         log,
		Previewer:      previewService,
		Limiter:        limiter,
		TrustProxy:     cfg.TrustProxy,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		ExposeErrors:   cfg.IsDevelopment(),
		HealthChecks:   healthChecks,
	})

	// Create API service
	apiService, err := api.New(cfg, log, router.SetupRoutes())
	if err != nil {
		log.Error("Failed to create API service", "error", err)
		os.Exit(1)
	}

	// Create a channel to track shutdown completion
	done := make(chan struct{})

	// Start API service in a goroutine
	go func() {
		defer close(done)
		if err := apiService.Start(); err != nil {
			log.Error("API service failed", "error", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Wait for either shutdown signal or service completion
	select {
	case <-quit:
		log.Info("Shutdown signal received, stopping API service...")
	case <-done:
		log.Info("API service completed")
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Stop API service
	if err := apiService.Stop(shutdownCtx); err != nil {
		log.Error("Error stopping API service", "error", err)
	}

	log.Info("API service shutdown complete")
}

func newRateLimitStore(ctx context.Context, cfg *config.Config, log *slog.Logger) (domain.RateLimitStore, map[string]handlers.HealthCheck, io.Closer, error) {
	if cfg.RedisURL == "" {
		store := memory.NewRateLimitStore(time.Minute, log)
		log.Info("Using in-memory rate limit store")
		return store, nil, store, nil
	}

	client, err := redis.NewClient(ctx, cfg.RedisURL, log)
	if err != nil {
		return nil, nil, nil, err
	}

	checks := map[string]handlers.HealthCheck{
		"redis": func(ctx context.Context) error {
			return redis.HealthCheck(ctx, client)
		},
	}
	return redis.NewRateLimitStore(client, log), checks, client, nil
}
