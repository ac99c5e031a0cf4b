package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/crm/internal/cep"
	"github.com/JonMunkholm/crm/internal/config"
	"github.com/JonMunkholm/crm/internal/core"
	"github.com/JonMunkholm/crm/internal/customer"
	"github.com/JonMunkholm/crm/internal/logging"
	"github.com/JonMunkholm/crm/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"page_size", cfg.Browser.DefaultPageSize,
		"cep_provider", cfg.CEP.BaseURL,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)

	lookup := cep.New(cep.Options{
		BaseURL:           cfg.CEP.BaseURL,
		Timeout:           cfg.CEP.Timeout,
		RequestsPerSecond: cfg.CEP.RequestsPerSecond,
		Burst:             cfg.CEP.Burst,
	})

	repo := customer.NewRepository(customer.Seed())
	service, err := core.NewService(repo, lookup, core.Options{
		PageSize:        cfg.Browser.DefaultPageSize,
		IdleTimeout:     cfg.Session.IdleTimeout,
		AuditCapacity:   cfg.Audit.Capacity,
		PendingSessions: cfg.Session.PendingLimit,
		PendingTTL:      cfg.Session.PendingTTL,
	})
	if err != nil {
		slog.Error("failed to create service", "error", err)
		os.Exit(1)
	}
	slog.Info("customers loaded", "count", len(service.Customers()))

	server := web.NewServer(service, cfg)

	jobCtx, cancelJobs := context.WithCancel(context.Background())
	go service.StartSessionSweeper(jobCtx, cfg.Session.SweepInterval)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")
		cancelJobs()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
