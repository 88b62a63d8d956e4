package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/antagata/campaign-winners/internal/publish"
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Commit and push the rendered dashboard",
	Long: `Stages the output directory, commits with a timestamped message,
and pushes to the configured remote. A clean working tree is a no-op.`,
	RunE: runPublish,
}

func init() {
	rootCmd.AddCommand(publishCmd)
}

func runPublish(cmd *cobra.Command, args []string) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}

	pub := publish.New(cfg.Output.Dir, cfg.Publish.Remote, cfg.Publish.Branch, cfg.Publish.Timeout, log)
	return pub.Publish(cmd.Context(), time.Now())
}
