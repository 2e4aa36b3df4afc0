package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/case-trends-dashboard/internal/adapter/http"
	"github.com/couchcryptid/case-trends-dashboard/internal/adapter/nytimes"
	"github.com/couchcryptid/case-trends-dashboard/internal/config"
	"github.com/couchcryptid/case-trends-dashboard/internal/observability"
	"github.com/couchcryptid/case-trends-dashboard/internal/pipeline"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return 1
	}

	logger := observability.NewLogger(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	source := nytimes.NewClient(cfg.StatesURL, cfg.CountiesURL, cfg.FetchTimeout, logger)
	loader := pipeline.New(source, logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, loader, loader, metrics, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server so health and metrics answer while the data loads.
	serverErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
			stop()
		}
	}()

	// Load the dataset once. Without it the dashboard has nothing to show.
	exitCode := 0
	if _, err := loader.Load(ctx); err != nil {
		if ctx.Err() == nil {
			logger.Error("dataset load failed", "error", err)
			exitCode = 1
		}
		stop()
	}

	<-ctx.Done()
	select {
	case err := <-serverErr:
		logger.Error("http server error", "error", err)
		exitCode = 1
	default:
	}
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
	return exitCode
}
