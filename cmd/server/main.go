package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"

	httpadapter "github.com/hallsgap-landcare/weed-priority-service/internal/adapter/http"
	"github.com/hallsgap-landcare/weed-priority-service/internal/adapter/inat"
	"github.com/hallsgap-landcare/weed-priority-service/internal/config"
	"github.com/hallsgap-landcare/weed-priority-service/internal/domain"
	"github.com/hallsgap-landcare/weed-priority-service/internal/observability"
	"github.com/hallsgap-landcare/weed-priority-service/internal/pipeline"
	"github.com/hallsgap-landcare/weed-priority-service/internal/source"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	// Photo enrichment is feature-flagged via INAT_ENABLED.
	var finder domain.PhotoFinder
	if cfg.INatEnabled {
		client := inat.NewClient(cfg.INatBaseURL, cfg.INatTimeout, logger, metrics)
		finder = inat.NewCachedFinder(client, cfg.INatCacheSize, metrics)
		metrics.PhotoEnabled.Set(1)
		logger.Info("inaturalist photo enrichment enabled", "cache_size", cfg.INatCacheSize, "timeout", cfg.INatTimeout)
	} else {
		logger.Info("inaturalist photo enrichment disabled")
	}

	paths := source.Paths{
		Gov:         cfg.GovDataPath,
		Assessments: cfg.AssessmentsDataPath,
		Profiles:    cfg.ProfilesDataPath,
		Vic:         cfg.VicDataPath,
		Overrides:   cfg.OverridesPath,
	}
	loader := source.NewLoader(logger, metrics)
	p := pipeline.New(loader, paths, cfg.ReloadInterval, clockwork.NewRealClock(), logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, p, finder, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

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

	logger.Info("shutdown complete")
}
