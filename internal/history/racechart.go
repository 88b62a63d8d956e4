package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/antagata/campaign-winners/internal/analysis"
)

// RaceEntry is one bar of the race-chart animation at one time point.
type RaceEntry struct {
	Rank       int     `json:"rank"`
	Name       string  `json:"name"`
	CampaignNo string  `json:"campaign_no"`
	Value      float64 `json:"value"`
	Sales      float64 `json:"sales"`
	Conversion float64 `json:"conversion"`
	Customers  int     `json:"customers"`
	PriceTier  string  `json:"price_tier"`
	Color      string  `json:"color"`
}

// TimePoint is the projection of one snapshot into the race chart.
type TimePoint struct {
	Date         string      `json:"date"`
	Timestamp    string      `json:"timestamp"`
	AnalysisDate string      `json:"analysis_date"`
	Winners      []RaceEntry `json:"winners"`
}

// Metadata describes the dataset for the chart client.
type Metadata struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	Created        string `json:"created"`
	LastUpdated    string `json:"last_updated"`
	TotalSnapshots int    `json:"total_snapshots"`
}

// Dataset is the race-chart document, fully rebuilt from the history on
// every run rather than incrementally maintained.
type Dataset struct {
	Metadata   Metadata    `json:"metadata"`
	TimeSeries []TimePoint `json:"time_series"`
}

// BuildDataset projects the whole snapshot history into the race-chart
// time series.
func BuildDataset(h *History, now time.Time) *Dataset {
	ds := &Dataset{
		Metadata: Metadata{
			Title:          "Top Wine Campaign Winners Over Time",
			Description:    "Historical ranking of wine campaigns by weighted score",
			Created:        h.CreatedDate,
			LastUpdated:    now.Format(time.RFC3339),
			TotalSnapshots: len(h.Snapshots),
		},
		TimeSeries: make([]TimePoint, 0, len(h.Snapshots)),
	}

	for _, snap := range h.Snapshots {
		tp := TimePoint{
			Date:         snap.Date,
			Timestamp:    snap.Timestamp,
			AnalysisDate: snap.AnalysisDate,
			Winners:      make([]RaceEntry, 0, len(snap.Top15)),
		}
		for _, w := range snap.Top15 {
			tp.Winners = append(tp.Winners, RaceEntry{
				Rank:       w.Rank,
				Name:       w.DisplayName,
				CampaignNo: w.CampaignNo,
				Value:      w.WeightedScore,
				Sales:      w.TotalSales,
				Conversion: w.ConversionRate,
				Customers:  w.UniqueCustomers,
				PriceTier:  w.PriceTier,
				Color:      analysis.TierColor(w.PriceTier),
			})
		}
		ds.TimeSeries = append(ds.TimeSeries, tp)
	}

	return ds
}

// WriteDataset persists the dataset alongside the history file.
func (s *Store) WriteDataset(ds *Dataset) error {
	data, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal race chart dataset: %w", err)
	}

	path := filepath.Join(s.dir, RaceChartFile)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write race chart dataset: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"time_points": len(ds.TimeSeries),
		"path":        path,
	}).Info("Race chart dataset exported")

	return nil
}
