// Package cmd defines and implements the CLI commands for the
// harvester executable.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bookawards/harvester/internal/airtable"
	"github.com/bookawards/harvester/internal/config"
	"github.com/bookawards/harvester/internal/fetcher"
	"github.com/bookawards/harvester/internal/logging"
	"github.com/bookawards/harvester/internal/metrics"
	"github.com/bookawards/harvester/internal/pipeline"
	"github.com/bookawards/harvester/internal/runner"
	"github.com/bookawards/harvester/internal/websearch"
)

var (
	cfgFile      string
	searchOnly   bool
	progressPath string
)

// appKeyType is the key for storing the app in the context.
type appKeyType string

const appKey appKeyType = "app"

// app bundles the services commands need.
type app struct {
	cfg        config.Config
	logger     *zap.Logger
	metricsSrv *http.Server
}

func (a *app) Close() {
	if a.metricsSrv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.metricsSrv.Shutdown(ctx); err != nil {
			a.logger.Warn("metrics server shutdown failed", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}

// newApp is the application factory. It's a variable so tests can
// replace it.
var newApp = func(context.Context) (*app, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, logger: logger}
	if cfg.Metrics.Enabled {
		a.metricsSrv = metrics.NewServer(cfg.Metrics.Port)
		go func() {
			if err := a.metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server failed", zap.Error(err))
			}
		}()
		logger.Info("metrics listening", zap.Int("port", cfg.Metrics.Port))
	}
	return a, nil
}

// buildRunner assembles the full harvest pipeline from configuration.
func buildRunner(a *app) *runner.Runner {
	cfg := a.cfg

	f := fetcher.New(fetcher.Config{
		UserAgent:   cfg.Crawler.UserAgent,
		Timeout:     cfg.FetchTimeout(),
		MaxAttempts: cfg.HTTP.MaxAttempts,
		BaseDelay:   cfg.BackoffBase(),
	}, a.logger)
	asm := pipeline.New(f, cfg.RequestDelay(), a.logger)

	client := airtable.NewClient(airtable.Config{
		APIKey:    cfg.Airtable.APIKey,
		BaseID:    cfg.Airtable.BaseID,
		TableName: cfg.Airtable.TableName,
	}, a.logger)
	rec := airtable.NewReconciler(client, airtable.SystemClock(), cfg.RecordDelay(), a.logger)

	provider := websearch.NewDuckDuckGo(cfg.Crawler.UserAgent, "")
	srch := websearch.New(provider, cfg.Search.Queries, cfg.Search.MaxResults,
		cfg.RequestDelay(), a.logger)

	return runner.New(asm, rec, srch, runner.Options{
		ProgressPath: progressPath,
		SeedDelay:    cfg.SeedDelay(),
		SearchOnly:   searchOnly,
	}, a.logger)
}

func resolveApp(ctx context.Context) (*app, error) {
	a, ok := ctx.Value(appKey).(*app)
	if !ok || a == nil {
		return nil, errors.New("application services not initialized")
	}
	return a, nil
}

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "harvester",
		Short: "Extracts book award data from the web into Airtable.",
		Long: `harvester discovers book award websites, extracts structured award
data from them with resilient fetching and heuristic parsing, and
reconciles the results into an Airtable base.`,

		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return fmt.Errorf("initialize application services: %w", err)
			}
			cmd.SetContext(context.WithValue(cmd.Context(), appKey, a))
			return nil
		},

		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if a, ok := cmd.Context().Value(appKey).(*app); ok && a != nil {
				a.Close()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file")
	cmd.PersistentFlags().BoolVar(&searchOnly, "search-only", false,
		"extract and save locally without writing to Airtable")
	cmd.PersistentFlags().StringVar(&progressPath, "progress", "book_awards_data.json",
		"path of the JSON progress file")

	cmd.AddCommand(newCrawlCmd())
	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newSyncCmd())

	return cmd
}

// Execute is the main entry point.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
