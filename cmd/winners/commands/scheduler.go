package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/antagata/campaign-winners/internal/pipeline"
	"github.com/antagata/campaign-winners/internal/publish"
	"github.com/antagata/campaign-winners/internal/scheduler"
	"github.com/antagata/campaign-winners/internal/scheduler/jobs"
)

var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Manage the regeneration scheduler",
	Long: `Runs the dashboard refresh job on its cron schedule without the
HTTP server, or triggers it once immediately.

Subcommands:
  start  - run the scheduler daemon
  run    - execute the refresh job once, now`,
}

var schedulerStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Run the scheduler daemon",
	RunE:  runSchedulerStart,
}

var schedulerRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute the refresh job immediately",
	RunE:  runSchedulerOnce,
}

func init() {
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)
	rootCmd.AddCommand(schedulerCmd)
}

func buildRefreshScheduler(cmd *cobra.Command) (*scheduler.Scheduler, func(), error) {
	cfg, log, err := bootstrap()
	if err != nil {
		return nil, nil, err
	}

	loader, closeLoader, err := newLoader(cmd.Context(), cfg, log)
	if err != nil {
		return nil, nil, err
	}

	var pub *publish.Publisher
	if cfg.Publish.Enabled {
		pub = publish.New(cfg.Output.Dir, cfg.Publish.Remote, cfg.Publish.Branch, cfg.Publish.Timeout, log)
	}

	sched := scheduler.New(log)
	job := jobs.NewRefreshJob(pipeline.New(cfg, loader, log), pub, nil, cfg.Schedule.RefreshSpec, log)
	if err := sched.AddJob(job); err != nil {
		closeLoader()
		return nil, nil, err
	}

	return sched, closeLoader, nil
}

func runSchedulerStart(cmd *cobra.Command, args []string) error {
	sched, cleanup, err := buildRefreshScheduler(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	sched.Start()
	defer sched.Stop()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	return nil
}

func runSchedulerOnce(cmd *cobra.Command, args []string) error {
	sched, cleanup, err := buildRefreshScheduler(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := sched.RunJob("dashboard_refresh"); err != nil {
		return err
	}

	if h, ok := sched.History("dashboard_refresh"); ok && h.LastError != "" {
		return fmt.Errorf("refresh job failed: %s", h.LastError)
	}
	return nil
}
