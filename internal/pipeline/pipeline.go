package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/antagata/campaign-winners/internal/analysis"
	"github.com/antagata/campaign-winners/internal/history"
	"github.com/antagata/campaign-winners/internal/report"
	"github.com/antagata/campaign-winners/internal/snapshot"
	"github.com/antagata/campaign-winners/pkg/config"
	"github.com/antagata/campaign-winners/pkg/logger"
	"github.com/antagata/campaign-winners/pkg/metrics"
)

// Pipeline runs one full report generation pass:
// load -> filter -> score -> resolve -> join -> select -> accumulate -> render.
// Every stage is a pure function over the previous stage's output; nothing
// reads shared mutable state.
type Pipeline struct {
	cfg    *config.Config
	loader snapshot.Loader
	store  *history.Store
	logger *logger.Logger
}

// Result summarizes one completed run.
type Result struct {
	RunID          string
	TotalCampaigns int
	Excluded       int
	Periods        []analysis.PeriodSelection
	SnapshotCount  int
	Duration       time.Duration
}

// New creates a pipeline over the given snapshot loader.
func New(cfg *config.Config, loader snapshot.Loader, log *logger.Logger) *Pipeline {
	return &Pipeline{
		cfg:    cfg,
		loader: loader,
		store:  history.NewStore(cfg.History.Dir, cfg.History.DedupeByDate, log),
		logger: log,
	}
}

// Run executes one pass. The analysis clock is injected so period
// membership and snapshot dates are reproducible.
func (p *Pipeline) Run(ctx context.Context, now time.Time) (*Result, error) {
	start := time.Now()
	runID := uuid.NewString()
	log := p.logger.WithField("run_id", runID)

	res, err := p.run(ctx, now, log)
	elapsed := time.Since(start)
	metrics.PipelineDuration.Observe(elapsed.Seconds())
	if err != nil {
		metrics.PipelineRuns.WithLabelValues("error").Inc()
		return nil, err
	}

	metrics.PipelineRuns.WithLabelValues("ok").Inc()
	res.RunID = runID
	res.Duration = elapsed

	log.WithFields(map[string]interface{}{
		"campaigns": res.TotalCampaigns,
		"excluded":  res.Excluded,
		"snapshots": res.SnapshotCount,
		"duration":  elapsed,
	}).Info("Pipeline run completed")

	return res, nil
}

func (p *Pipeline) run(ctx context.Context, now time.Time, log *logger.Logger) (*Result, error) {
	tables, err := p.loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load snapshots: %w", err)
	}

	filterCfg := analysis.FilterConfig{
		ExcludedTypes:   p.cfg.Analysis.ExcludedTypes,
		ExcludedSubType: p.cfg.Analysis.ExcludedSubType,
	}
	filtered := analysis.Filter(tables.Campaigns, filterCfg)
	log.WithFields(map[string]interface{}{
		"loaded":   len(tables.Campaigns),
		"filtered": len(filtered),
	}).Info("Campaign filter applied")

	weights := analysis.Weights{
		Conversion: p.cfg.Analysis.ConversionWeight,
		Sales:      p.cfg.Analysis.SalesWeight,
	}
	if !weights.Valid() {
		return nil, fmt.Errorf("invalid score weights: %.2f/%.2f", weights.Conversion, weights.Sales)
	}

	board := analysis.Score(filtered, weights)
	metrics.CampaignsScored.Set(float64(len(board.Campaigns)))

	analysis.NewProducerResolver(filtered, tables).Resolve(board)
	analysis.JoinStock(board, tables.Stock)

	periods := analysis.SelectPeriods(board, now, p.cfg.Analysis.PeriodWindows)

	hist, err := p.store.Load(now)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	p.store.Append(hist, history.BuildSnapshot(board, now))
	if err := p.store.Save(hist); err != nil {
		return nil, fmt.Errorf("save history: %w", err)
	}
	metrics.HistorySnapshots.Set(float64(len(hist.Snapshots)))

	dataset := history.BuildDataset(hist, now)
	if err := p.store.WriteDataset(dataset); err != nil {
		return nil, fmt.Errorf("write race chart dataset: %w", err)
	}

	renderer, err := report.NewRenderer(p.logger)
	if err != nil {
		return nil, err
	}
	page, err := renderer.Render(board, periods, dataset, now)
	if err != nil {
		return nil, err
	}
	page, err = report.PostProcess(page, p.logger)
	if err != nil {
		return nil, fmt.Errorf("post-process dashboard: %w", err)
	}
	if err := renderer.Write(p.cfg.Output.Dir, page); err != nil {
		return nil, err
	}

	return &Result{
		TotalCampaigns: len(board.Campaigns),
		Excluded:       len(tables.Campaigns) - len(filtered),
		Periods:        periods,
		SnapshotCount:  len(hist.Snapshots),
	}, nil
}
