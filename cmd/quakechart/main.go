package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/quake-chart-service/internal/adapter/feed"
	httpadapter "github.com/couchcryptid/quake-chart-service/internal/adapter/http"
	"github.com/couchcryptid/quake-chart-service/internal/chart"
	"github.com/couchcryptid/quake-chart-service/internal/config"
	"github.com/couchcryptid/quake-chart-service/internal/domain"
	"github.com/couchcryptid/quake-chart-service/internal/launcher"
	"github.com/couchcryptid/quake-chart-service/internal/observability"
	"github.com/couchcryptid/quake-chart-service/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	regional := feed.NewRegionalFeed(cfg.RegionalFeedURL, domain.EuropeBox, cfg.FeedTimeout, logger, metrics)
	global := feed.NewSummaryFeed(cfg.GlobalFeedURL, cfg.FeedTimeout, logger, metrics)
	fetcher := pipeline.NewFetcher(regional, global, domain.EuropeBox, logger, metrics)
	dashboard := pipeline.NewDashboard(fetcher, chart.NewRenderer(), domain.EuropeBox, logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, dashboard, cfg.ProjectURL, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	if cfg.OpenBrowser {
		go func() {
			if err := launcher.New(cfg.HTTPAddr, logger).OpenWhenReady(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Warn("could not open browser", "error", err)
			}
		}()
	}

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
