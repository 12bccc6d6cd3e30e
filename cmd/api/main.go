// Package main is the entry point for the transaction cache API server.
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

	"github.com/joho/godotenv"

	"github.com/finance-tracker/txcache/config"
	"github.com/finance-tracker/txcache/internal/infra/dependency"
)

const rateLimiterCleanupInterval = 10 * time.Minute

func main() {
	// Load .env file if it exists (development only)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting transaction cache API",
		"environment", cfg.Server.Environment,
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"cache_medium", cfg.Cache.Medium,
		"backend", cfg.Backend.BaseURL,
	)

	injector, err := dependency.NewInjector(cfg)
	if err != nil {
		slog.Error("Failed to initialize dependencies", "error", err)
		os.Exit(1)
	}

	appCtx, stopApp := context.WithCancel(context.Background())
	defer stopApp()

	// Warm the mirror when a credential was configured up front
	if injector.Session.Credential() != "" {
		go func() {
			if err := injector.Controller.Activate(appCtx); err != nil {
				slog.Warn("Initial cache load failed", "error", err)
			}
		}()
	}

	if cfg.Sync.RefreshEnabled {
		if err := injector.Refresher.Start(appCtx); err != nil {
			slog.Error("Failed to start refresher", "error", err)
		}
	}

	go func() {
		ticker := time.NewTicker(rateLimiterCleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-appCtx.Done():
				return
			case <-ticker.C:
				injector.RefreshRateLimiter.Cleanup()
			}
		}
	}()

	// Setup router
	engine := injector.Router.Setup(cfg.Server.Environment)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in a goroutine
	go func() {
		slog.Info("Server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	stopApp()
	if err := injector.Close(ctx); err != nil {
		slog.Error("Failed to release dependencies", "error", err)
	}

	slog.Info("Server exited properly")
}
