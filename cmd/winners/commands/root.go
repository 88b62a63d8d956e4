package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/antagata/campaign-winners/internal/snapshot"
	"github.com/antagata/campaign-winners/pkg/config"
	"github.com/antagata/campaign-winners/pkg/database"
	"github.com/antagata/campaign-winners/pkg/logger"
	"github.com/antagata/campaign-winners/pkg/metrics"
)

var (
	// Global flags
	snapshotDir string
	outputDir   string
	verbose     bool
)

// rootCmd is the base command when called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "winners",
	Short: "Sales-campaign winners dashboard",
	Long: `Campaign winners reporting pipeline.

Loads campaign and stock snapshots, ranks campaigns by weighted score,
accumulates the historical top-15 matrix, and renders the static
dashboard with its race-chart animation.

Examples:
  winners generate
  winners serve
  winners scheduler start
  winners publish`,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&snapshotDir, "snapshots", "", "snapshot directory (overrides SNAPSHOT_DIR)")
	rootCmd.PersistentFlags().StringVar(&outputDir, "output", "", "output directory (overrides OUTPUT_DIR)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// bootstrap loads config, builds the logger, and registers metrics.
func bootstrap() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if snapshotDir != "" {
		cfg.Snapshot.Dir = snapshotDir
	}
	if outputDir != "" {
		cfg.Output.Dir = outputDir
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	log := logger.New(cfg)
	metrics.Init()

	return cfg, log, nil
}

// newLoader picks the configured snapshot source. The returned closer is
// non-nil when a database pool was opened.
func newLoader(ctx context.Context, cfg *config.Config, log *logger.Logger) (snapshot.Loader, func(), error) {
	switch cfg.Snapshot.Source {
	case "postgres":
		db, err := database.New(ctx, cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("connect snapshot database: %w", err)
		}
		return snapshot.NewPostgresLoader(db.Pool, log), db.Close, nil
	default:
		return snapshot.NewCSVLoader(cfg.Snapshot.Dir, log), func() {}, nil
	}
}
