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

	"github.com/couchcryptid/nyc-building-report/internal/adapter/geosearch"
	httpadapter "github.com/couchcryptid/nyc-building-report/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/nyc-building-report/internal/adapter/kafka"
	"github.com/couchcryptid/nyc-building-report/internal/adapter/registry"
	"github.com/couchcryptid/nyc-building-report/internal/adapter/socrata"
	"github.com/couchcryptid/nyc-building-report/internal/adapter/sqlite"
	"github.com/couchcryptid/nyc-building-report/internal/config"
	"github.com/couchcryptid/nyc-building-report/internal/domain"
	"github.com/couchcryptid/nyc-building-report/internal/observability"
	"github.com/couchcryptid/nyc-building-report/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	// Geocoder is optional; without it addresses go straight to the parser.
	var geocoder domain.Geocoder
	if cfg.GeosearchEnabled {
		client := geosearch.NewClient(cfg.GeosearchURL, cfg.GeosearchTimeout, logger)
		geocoder = geosearch.NewCachedGeocoder(client, cfg.GeosearchCacheSize, metrics)
		metrics.GeocodeEnabled.Set(1)
		logger.Info("geosearch geocoding enabled", "cache_size", cfg.GeosearchCacheSize, "timeout", cfg.GeosearchTimeout)
	} else {
		logger.Info("geosearch geocoding disabled")
	}

	openData := socrata.NewClient(socrata.Options{
		BaseURL:        cfg.SocrataURL,
		AppToken:       cfg.SocrataAppToken,
		HPDDataset:     cfg.HPDDataset,
		PLUTODataset:   cfg.PLUTODataset,
		ViolationLimit: cfg.ViolationLimit,
		Timeout:        cfg.SocrataTimeout,
	}, logger)

	var sinks []pipeline.ReportSink
	var closers []func() error
	if cfg.KafkaEnabled {
		writer := kafkaadapter.NewWriter(cfg.KafkaBrokers, cfg.KafkaReportTopic, logger)
		sinks = append(sinks, writer)
		closers = append(closers, writer.Close)
		logger.Info("kafka report sink enabled", "topic", cfg.KafkaReportTopic)
	}
	if cfg.ReportDBPath != "" {
		archive, err := sqlite.Open(cfg.ReportDBPath)
		if err != nil {
			logger.Error("failed to open report archive", "error", err, "path", cfg.ReportDBPath)
			os.Exit(1)
		}
		sinks = append(sinks, archive)
		closers = append(closers, archive.Close)
		logger.Info("sqlite report archive enabled", "path", cfg.ReportDBPath)
	}

	searcher := pipeline.NewSearcher(
		pipeline.NewResolver(geocoder, cfg.CallTimeout, logger, metrics),
		pipeline.NewCascade(openData, cfg.CallTimeout, logger, metrics),
		pipeline.NewPropertyLookup(openData, cfg.TaxLotLimit, cfg.CallTimeout, logger, metrics),
		cfg.CallTimeout,
		logger,
		metrics,
		sinks...,
	)

	srv := httpadapter.NewServer(cfg.HTTPAddr, httpadapter.Dependencies{
		Searcher: searcher,
		Sessions: pipeline.NewSessionStore(searcher, cfg.SessionCacheSize, metrics),
		Registry: searcher.Registry,
		Ready:    searcher,
	}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go loadRegistry(ctx, cfg.RegistrySource, cfg.SocrataTimeout, searcher, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	for _, closeSink := range closers {
		if err := closeSink(); err != nil {
			logger.Error("report sink close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}

// loadRegistry installs the rent-stabilization registry. A failed load
// installs an empty registry so the service still becomes ready.
func loadRegistry(ctx context.Context, source string, timeout time.Duration, searcher *pipeline.Searcher, logger *slog.Logger) {
	if source == "" {
		source = registry.DefaultSource
	}
	reg, err := registry.Load(ctx, &http.Client{Timeout: timeout}, source)
	if err != nil {
		logger.Warn("registry load failed, continuing with an empty registry", "error", err, "source", source)
		reg = domain.NewRegistry(nil)
	}
	searcher.SetRegistry(reg)
	logger.Info("registry loaded", "entries", reg.Len())
}
