package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Total number of pipeline runs, labelled by outcome
	PipelineRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "winners_pipeline_runs_total",
		Help: "Total number of dashboard pipeline runs",
	}, []string{"status"})

	// Duration of a full pipeline run
	PipelineDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "winners_pipeline_duration_seconds",
		Help:    "Duration of a full dashboard pipeline run",
		Buckets: prometheus.DefBuckets,
	})

	// Campaigns surviving the filter in the latest run
	CampaignsScored = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "winners_campaigns_scored",
		Help: "Number of campaigns scored in the latest run",
	})

	// Snapshots accumulated in the history file
	HistorySnapshots = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "winners_history_snapshots",
		Help: "Number of snapshots in the history file after the latest run",
	})

	// Dashboard server request latency
	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "winners_http_request_duration_seconds",
		Help:    "Latency of dashboard server requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"path"})
)

// Init registers all collectors with the default registry.
func Init() {
	prometheus.MustRegister(
		PipelineRuns,
		PipelineDuration,
		CampaignsScored,
		HistorySnapshots,
		HTTPRequestDuration,
	)
}
