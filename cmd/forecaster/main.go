package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "github.com/couchcryptid/ocean-hazard-engine/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/ocean-hazard-engine/internal/adapter/kafka"
	"github.com/couchcryptid/ocean-hazard-engine/internal/config"
	"github.com/couchcryptid/ocean-hazard-engine/internal/forecast"
	"github.com/couchcryptid/ocean-hazard-engine/internal/observability"
	"github.com/couchcryptid/ocean-hazard-engine/internal/pipeline"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/jonboulle/clockwork"
)

func main() {
	if err := config.LoadEnvFile(os.Getenv("ENV_FILE")); err != nil {
		slog.Error("failed to load env file", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()
	clock := clockwork.NewRealClock()

	seed := cfg.RandomSeed
	if !cfg.RandomSeedSet {
		seed = uint64(time.Now().UnixNano())
	}
	logger.Info("forecast generator seeded", "seed", seed, "fixed", cfg.RandomSeedSet)

	writer := kafkaadapter.NewWriter(cfg, logger)
	p := pipeline.New(forecast.NewSeededGenerator(seed, clock), writer, clock, logger, metrics, pipeline.Options{
		Hazards:         cfg.HazardTypes,
		EventsPerHazard: cfg.EventsPerHazard,
		Interval:        cfg.RefreshInterval,
		BatchSize:       cfg.BatchSize,
	})

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, clock, metrics, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start refresh loop.
	go func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if err := writer.Close(); err != nil {
		logger.Error("kafka writer close error", "error", err)
	}

	logger.Info("shutdown complete")
}
