// Package cli implements the folio command-line interface.
package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/folio/internal/adapters/driven/config/file"
	"github.com/custodia-labs/folio/internal/adapters/driven/plancache"
	"github.com/custodia-labs/folio/internal/adapters/driven/planner/anthropic"
	"github.com/custodia-labs/folio/internal/adapters/driven/planner/heuristic"
	"github.com/custodia-labs/folio/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/folio/internal/aliases"
	"github.com/custodia-labs/folio/internal/core/ports/driven"
	"github.com/custodia-labs/folio/internal/core/services"
	"github.com/custodia-labs/folio/internal/logger"
	"github.com/custodia-labs/folio/internal/normalise"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	verbose   bool
	configDir string
)

var rootCmd = &cobra.Command{
	Use:   "folio",
	Short: "Evidence-based discovery over historical catalog records",
	Long: `Folio ingests MARC catalog records through a batch pipeline
(parse, normalise, index) and answers natural-language queries with
candidate records backed by explicit evidence.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.folio)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig reads the configuration for the current invocation.
var loadConfig = func() (*file.Config, error) {
	return file.Load(configDir)
}

// openStore opens the index database, preferring the flag over the
// configured path.
func openStore(cfg *file.Config, dbFlag string) (driven.IndexStore, error) {
	path := cfg.DatabasePath
	if dbFlag != "" {
		path = dbFlag
	}
	return sqlite.NewStore(path)
}

// buildNormaliser loads the alias table, preferring the flag over the
// configured path. No table at all is valid: normalization then runs
// on cleaning alone.
func buildNormaliser(cfg *file.Config, aliasFlag string) (*normalise.Normaliser, error) {
	path := cfg.AliasTablePath
	if aliasFlag != "" {
		path = aliasFlag
	}
	if path == "" {
		return normalise.New(nil), nil
	}

	table, err := aliases.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading alias table: %w", err)
	}
	logger.Debug("Alias table %s: %d entries", table.Version(), table.Len())
	return normalise.New(table), nil
}

// buildPlanner constructs the configured planner backend.
func buildPlanner(cfg *file.Config) (driven.Planner, error) {
	switch cfg.Planner.Provider {
	case file.ProviderAnthropic:
		return anthropic.NewPlanner(anthropic.Config{
			APIKey:            cfg.Planner.APIKey,
			BaseURL:           cfg.Planner.BaseURL,
			Model:             cfg.Planner.Model,
			Timeout:           time.Duration(cfg.Planner.TimeoutSeconds) * time.Second,
			RequestsPerMinute: cfg.Planner.RequestsPerMinute,
		})
	default:
		return heuristic.New(), nil
	}
}

// buildQueryService wires the full query side.
func buildQueryService(cfg *file.Config, dbFlag string) (*services.QueryService, driven.IndexStore, error) {
	store, err := openStore(cfg, dbFlag)
	if err != nil {
		return nil, nil, err
	}

	planner, err := buildPlanner(cfg)
	if err != nil {
		store.Close()
		return nil, nil, err
	}

	cache, err := plancache.New(cfg.PlanCachePath)
	if err != nil {
		store.Close()
		return nil, nil, err
	}

	svc := services.NewQueryService(planner, cache, store)
	svc.SetPlannerTimeout(time.Duration(cfg.Planner.TimeoutSeconds) * time.Second)
	return svc, store, nil
}
