package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/couchcryptid/nyc-building-report/internal/adapter/geosearch"
	"github.com/couchcryptid/nyc-building-report/internal/adapter/registry"
	"github.com/couchcryptid/nyc-building-report/internal/adapter/socrata"
	"github.com/couchcryptid/nyc-building-report/internal/adapter/sqlite"
	"github.com/couchcryptid/nyc-building-report/internal/config"
	"github.com/couchcryptid/nyc-building-report/internal/domain"
	"github.com/couchcryptid/nyc-building-report/internal/observability"
	"github.com/couchcryptid/nyc-building-report/internal/pipeline"
	"github.com/spf13/cobra"
)

// env is the wiring shared by the subcommands.
type env struct {
	cfg     *config.Config
	logger  *slog.Logger
	metrics *observability.Metrics
}

func newEnv() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return &env{
		cfg:     cfg,
		logger:  observability.NewLoggerTo(os.Stderr, cfg.LogLevel, cfg.LogFormat),
		// The CLI serves no /metrics endpoint, so nothing is registered.
		metrics: observability.NewMetricsForTesting(),
	}, nil
}

func (e *env) resolver() *pipeline.Resolver {
	var geocoder domain.Geocoder
	if e.cfg.GeosearchEnabled {
		geocoder = geosearch.NewClient(e.cfg.GeosearchURL, e.cfg.GeosearchTimeout, e.logger)
	}
	return pipeline.NewResolver(geocoder, e.cfg.CallTimeout, e.logger, e.metrics)
}

func (e *env) loadRegistry(ctx context.Context) *domain.Registry {
	source := e.cfg.RegistrySource
	if source == "" {
		source = registry.DefaultSource
	}
	reg, err := registry.Load(ctx, &http.Client{Timeout: e.cfg.SocrataTimeout}, source)
	if err != nil {
		e.logger.Warn("registry load failed, continuing with an empty registry", "error", err, "source", source)
		return domain.NewRegistry(nil)
	}
	return reg
}

func (e *env) openArchive() (*sqlite.Archive, error) {
	if e.cfg.ReportDBPath == "" {
		return nil, errors.New("REPORT_DB_PATH is not set")
	}
	return sqlite.Open(e.cfg.ReportDBPath)
}

func createSearchCmd() *cobra.Command {
	var appToken string
	cmd := &cobra.Command{
		Use:   "search [address]",
		Short: "Build a report for an address and print it as JSON",
		Long: `Build a report for an address and print it as JSON.
The report is archived when REPORT_DB_PATH is set.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			openData := socrata.NewClient(socrata.Options{
				BaseURL:        e.cfg.SocrataURL,
				AppToken:       e.cfg.SocrataAppToken,
				HPDDataset:     e.cfg.HPDDataset,
				PLUTODataset:   e.cfg.PLUTODataset,
				ViolationLimit: e.cfg.ViolationLimit,
				Timeout:        e.cfg.SocrataTimeout,
			}, e.logger)

			var sinks []pipeline.ReportSink
			if e.cfg.ReportDBPath != "" {
				archive, err := e.openArchive()
				if err != nil {
					return err
				}
				defer archive.Close()
				sinks = append(sinks, archive)
			}

			searcher := pipeline.NewSearcher(
				e.resolver(),
				pipeline.NewCascade(openData, e.cfg.CallTimeout, e.logger, e.metrics),
				pipeline.NewPropertyLookup(openData, e.cfg.TaxLotLimit, e.cfg.CallTimeout, e.logger, e.metrics),
				e.cfg.CallTimeout,
				e.logger,
				e.metrics,
				sinks...,
			)
			searcher.SetRegistry(e.loadRegistry(ctx))

			report, err := searcher.Search(ctx, pipeline.SearchRequest{
				Address:     strings.Join(args, " "),
				Credentials: domain.Credentials{AppToken: appToken},
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), report)
		},
	}
	cmd.Flags().StringVar(&appToken, "app-token", "", "NYC Open Data app token for this lookup")
	return cmd
}

func createSuggestCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "suggest [query]",
		Short: "List registry buildings whose address contains the query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv()
			if err != nil {
				return err
			}
			entries := e.loadRegistry(cmd.Context()).Suggest(strings.Join(args, " "), limit)
			if len(entries) == 0 {
				fmt.Fprintln(cmd.ErrOrStderr(), "no matching buildings")
				return nil
			}
			for _, entry := range entries {
				fmt.Fprintln(cmd.OutOrStdout(), entry.FullAddress)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "maximum number of suggestions")
	return cmd
}

func createHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history [address]",
		Short: "Print the most recent archived report for an address",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			archive, err := e.openArchive()
			if err != nil {
				return err
			}
			defer archive.Close()

			resolved, err := e.resolver().Resolve(ctx, domain.NormalizeAddress(strings.Join(args, " ")))
			if err != nil {
				return err
			}
			address := resolved.Address.Formatted()

			report, err := archive.Latest(ctx, address)
			if errors.Is(err, sqlite.ErrNotFound) {
				return fmt.Errorf("no archived report for %s", address)
			}
			if err != nil {
				return err
			}
			n, err := archive.Count(ctx, address)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%d archived report(s) for %s\n", n, address)
			return printJSON(cmd.OutOrStdout(), report)
		},
	}
}
