package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/antagata/campaign-winners/internal/pipeline"
	"github.com/antagata/campaign-winners/internal/publish"
	"github.com/antagata/campaign-winners/internal/scheduler"
	"github.com/antagata/campaign-winners/internal/scheduler/jobs"
	"github.com/antagata/campaign-winners/internal/server"
)

var withScheduler bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the published dashboard",
	Long: `Serves the output directory with the JSON API and live-reload
endpoint. With --with-scheduler the regeneration job runs in-process on
its cron schedule and open dashboards reload automatically.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&withScheduler, "with-scheduler", false, "run the refresh job in-process")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}

	hub := server.NewHub(log)
	srv := server.New(cfg, log, server.NewRouter(cfg, log, hub))

	var sched *scheduler.Scheduler
	if withScheduler {
		loader, closeLoader, err := newLoader(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}
		defer closeLoader()

		var pub *publish.Publisher
		if cfg.Publish.Enabled {
			pub = publish.New(cfg.Output.Dir, cfg.Publish.Remote, cfg.Publish.Branch, cfg.Publish.Timeout, log)
		}

		sched = scheduler.New(log)
		job := jobs.NewRefreshJob(pipeline.New(cfg, loader, log), pub, hub, cfg.Schedule.RefreshSpec, log)
		if err := sched.AddJob(job); err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
