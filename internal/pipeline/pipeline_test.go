package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antagata/campaign-winners/internal/history"
	"github.com/antagata/campaign-winners/internal/snapshot"
	"github.com/antagata/campaign-winners/pkg/config"
	"github.com/antagata/campaign-winners/pkg/logger"
)

func testConfig(t *testing.T, snapshotDir string) *config.Config {
	t.Helper()
	return &config.Config{
		Snapshot: config.SnapshotConfig{Source: "csv", Dir: snapshotDir},
		Analysis: config.AnalysisConfig{
			ExcludedTypes:    []string{"HORECA", "TRADE"},
			ExcludedSubType:  "Lead",
			ConversionWeight: 0.6,
			SalesWeight:      0.4,
			PeriodWindows:    []int{7, 30},
		},
		History: config.HistoryConfig{Dir: t.TempDir()},
		Output:  config.OutputConfig{Dir: t.TempDir()},
	}
}

func writeFixtures(t *testing.T, now time.Time) string {
	t.Helper()
	dir := t.TempDir()

	rows := "Campaign No.,Type,Sub-Type,Main Wine Name,Vintage Code,Producer Name,Main Item No.,Scheduled Datetime1,Delayed Sending,Conversion Rate %,Total Sales Amount (LCY),Email Sent,Total Unique Customers Bought,Main Bottle Price (LCY)\n"
	for i := 0; i < 12; i++ {
		rows += fmt.Sprintf("2026-%03d,B2C,Standard,Wine %d,2019,Producer %d,%d,%s,No,%d,%d,100,10,120\n",
			i, i, i, i, now.AddDate(0, 0, -2).Format("2006-01-02 15:04:05"), 20-i, (20-i)*1000)
	}
	// Excluded rows: one by type, one by sub-type.
	rows += fmt.Sprintf("2026-900,HORECA,Standard,Bulk Wine,2019,P,900,%s,No,99,99999,1,1,10\n", now.Format("2006-01-02 15:04:05"))
	rows += fmt.Sprintf("2026-901,B2C,Lead,Lead Wine,2019,P,901,%s,No,99,99999,1,1,10\n", now.Format("2006-01-02 15:04:05"))

	stock := "ID,Stock,Producer\n"
	for i := 0; i < 12; i++ {
		stock += fmt.Sprintf("%d,%d,Producer %d\n", i, 10+i*20, i)
	}

	require.NoError(t, os.WriteFile(filepath.Join(dir, snapshot.CampaignFile), []byte(rows), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, snapshot.StockFile), []byte(stock), 0o644))
	return dir
}

func TestPipeline_Run(t *testing.T) {
	now := time.Date(2026, 3, 15, 7, 0, 0, 0, time.UTC)
	cfg := testConfig(t, writeFixtures(t, now))
	log := logger.NewNop()

	p := New(cfg, snapshot.NewCSVLoader(cfg.Snapshot.Dir, log), log)

	res, err := p.Run(context.Background(), now)
	require.NoError(t, err)

	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, 12, res.TotalCampaigns)
	assert.Equal(t, 2, res.Excluded)
	assert.Equal(t, 1, res.SnapshotCount)
	require.Len(t, res.Periods, 2)
	assert.Equal(t, "Last 7 Days", res.Periods[0].Name)
	assert.Len(t, res.Periods[0].Winners, 10)

	// History and race-chart files written.
	histData, err := os.ReadFile(filepath.Join(cfg.History.Dir, history.HistoryFile))
	require.NoError(t, err)
	var h history.History
	require.NoError(t, json.Unmarshal(histData, &h))
	require.Len(t, h.Snapshots, 1)
	assert.Equal(t, 12, h.Snapshots[0].TotalCampaigns)
	assert.Len(t, h.Snapshots[0].Top15, 12)

	raceData, err := os.ReadFile(filepath.Join(cfg.History.Dir, history.RaceChartFile))
	require.NoError(t, err)
	var ds history.Dataset
	require.NoError(t, json.Unmarshal(raceData, &ds))
	assert.Equal(t, 1, ds.Metadata.TotalSnapshots)

	// Dashboard written twice, once under each name.
	for _, name := range []string{"dashboard.html", "index.html"} {
		page, err := os.ReadFile(filepath.Join(cfg.Output.Dir, name))
		require.NoError(t, err)
		assert.Contains(t, string(page), "Wine 0")
		assert.Contains(t, string(page), `id="race-data"`)
	}
}

func TestPipeline_SecondRunAppendsSnapshot(t *testing.T) {
	now := time.Date(2026, 3, 15, 7, 0, 0, 0, time.UTC)
	cfg := testConfig(t, writeFixtures(t, now))
	log := logger.NewNop()

	p := New(cfg, snapshot.NewCSVLoader(cfg.Snapshot.Dir, log), log)

	_, err := p.Run(context.Background(), now)
	require.NoError(t, err)
	res, err := p.Run(context.Background(), now.AddDate(0, 0, 1))
	require.NoError(t, err)

	assert.Equal(t, 2, res.SnapshotCount)
}

func TestPipeline_InvalidWeightsFail(t *testing.T) {
	now := time.Date(2026, 3, 15, 7, 0, 0, 0, time.UTC)
	cfg := testConfig(t, writeFixtures(t, now))
	cfg.Analysis.ConversionWeight = 0.9
	cfg.Analysis.SalesWeight = 0.9
	log := logger.NewNop()

	p := New(cfg, snapshot.NewCSVLoader(cfg.Snapshot.Dir, log), log)

	_, err := p.Run(context.Background(), now)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid score weights")
}

func TestPipeline_MissingSnapshotDirFails(t *testing.T) {
	cfg := testConfig(t, filepath.Join(t.TempDir(), "absent"))
	log := logger.NewNop()

	p := New(cfg, snapshot.NewCSVLoader(cfg.Snapshot.Dir, log), log)

	_, err := p.Run(context.Background(), time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load snapshots")
}
