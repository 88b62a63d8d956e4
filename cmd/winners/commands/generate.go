package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/antagata/campaign-winners/internal/pipeline"
)

var asOf string

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Run the reporting pipeline once",
	Long: `Runs one full pass: load snapshots, filter and score campaigns,
resolve producers and stock, select period winners, append the historical
snapshot, and render the dashboard.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&asOf, "as-of", "", "analysis clock override (RFC3339 or YYYY-MM-DD)")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}

	now := time.Now()
	if asOf != "" {
		now, err = parseAsOf(asOf)
		if err != nil {
			return err
		}
	}

	ctx := cmd.Context()
	loader, closeLoader, err := newLoader(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeLoader()

	res, err := pipeline.New(cfg, loader, log).Run(ctx, now)
	if err != nil {
		log.WithError(err).Error("Pipeline run failed")
		return err
	}

	fmt.Printf("Run %s completed in %s\n", res.RunID, res.Duration.Round(time.Millisecond))
	fmt.Printf("  campaigns scored: %d (%d excluded by filter)\n", res.TotalCampaigns, res.Excluded)
	for _, p := range res.Periods {
		fmt.Printf("  %s: %d in period, %d backfilled\n", p.Name, p.PeriodCount, p.Backfilled)
	}
	fmt.Printf("  history snapshots: %d\n", res.SnapshotCount)
	fmt.Printf("  dashboard: %s\n", cfg.Output.Dir)

	return nil
}

func parseAsOf(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse --as-of value %q", s)
}
