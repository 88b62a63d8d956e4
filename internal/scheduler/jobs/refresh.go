package jobs

import (
	"context"
	"time"

	"github.com/antagata/campaign-winners/internal/pipeline"
	"github.com/antagata/campaign-winners/internal/publish"
	"github.com/antagata/campaign-winners/internal/server"
	"github.com/antagata/campaign-winners/pkg/logger"
)

// RefreshJob regenerates the dashboard on schedule, optionally publishes
// it, and tells open dashboards to reload.
type RefreshJob struct {
	pipeline  *pipeline.Pipeline
	publisher *publish.Publisher // nil when publishing is disabled
	hub       *server.Hub        // nil when running without the server
	schedule  string
	logger    *logger.Logger
}

// NewRefreshJob wires the regeneration job.
func NewRefreshJob(p *pipeline.Pipeline, pub *publish.Publisher, hub *server.Hub, schedule string, log *logger.Logger) *RefreshJob {
	return &RefreshJob{
		pipeline:  p,
		publisher: pub,
		hub:       hub,
		schedule:  schedule,
		logger:    log,
	}
}

func (j *RefreshJob) Name() string     { return "dashboard_refresh" }
func (j *RefreshJob) Schedule() string { return j.schedule }

// Run executes one regeneration pass.
func (j *RefreshJob) Run(ctx context.Context) error {
	res, err := j.pipeline.Run(ctx, time.Now())
	if err != nil {
		return err
	}

	if j.publisher != nil {
		if err := j.publisher.Publish(ctx, time.Now()); err != nil {
			return err
		}
	}

	if j.hub != nil {
		j.hub.Broadcast()
	}

	j.logger.WithFields(map[string]interface{}{
		"run_id":    res.RunID,
		"campaigns": res.TotalCampaigns,
	}).Info("Dashboard refreshed")

	return nil
}
