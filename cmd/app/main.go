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

	_ "github.com/osse101/ThrowBot_Go/docs"
	"github.com/osse101/ThrowBot_Go/internal/bootstrap"
	"github.com/osse101/ThrowBot_Go/internal/config"
	"github.com/osse101/ThrowBot_Go/internal/database"
	"github.com/osse101/ThrowBot_Go/internal/server"
)

// ShutdownTimeout bounds the whole graceful shutdown, including in-flight rule delays
const ShutdownTimeout = 30 * time.Second

// @title ThrowBot API
// @version 1.0
// @description Rule engine that turns stream events into overlay effects.
// @BasePath /api/v1
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
func main() {
	if err := run(); err != nil {
		slog.Error("ThrowBot exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logFile, err := bootstrap.SetupLogger(cfg)
	if err != nil {
		return err
	}
	defer logFile.Close()

	warnings, err := config.ValidateEnvWithWarnings()
	if err != nil {
		return fmt.Errorf("invalid environment: %w", err)
	}
	for _, w := range warnings {
		slog.Warn(w)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := database.NewPool(cfg.GetDBConnString(), cfg.DBMaxConns, cfg.DBMaxConnIdleTime, cfg.DBMaxConnLifetime)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer dbPool.Close()

	if err := database.Migrate(ctx, dbPool); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	repos := bootstrap.InitializeRepositories(dbPool)
	pipeline := bootstrap.InitializePipeline(cfg, repos)
	pipeline.Start(ctx)

	srv := server.NewServer(
		server.Options{
			Port:            cfg.Port,
			APIKey:          cfg.APIKey,
			TrustedProxies:  cfg.TrustedProxies,
			IngestRateLimit: cfg.IngestRateLimit,
			IngestBurst:     cfg.IngestBurst,
		},
		server.Dependencies{
			DBPool:     dbPool,
			Rules:      repos.Rules,
			Assets:     repos.Assets,
			Executions: repos.Executions,
			Roles:      pipeline.Directory,
			Timers:     pipeline.Scheduler,
			Tester:     pipeline.Engine,
			Events:     pipeline.Engine,
			Source:     pipeline.Source,
			Hub:        pipeline.Hub,
		},
	)

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serverErr:
		if err != nil {
			slog.Error("Server failed", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	bootstrap.GracefulShutdown(shutdownCtx, bootstrap.ShutdownComponents{
		Server:   srv,
		Pipeline: pipeline,
	})
	return nil
}
