package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antagata/campaign-winners/internal/analysis"
	"github.com/antagata/campaign-winners/internal/snapshot"
	"github.com/antagata/campaign-winners/pkg/logger"
)

func testBoard(n int) *analysis.Scoreboard {
	campaigns := make([]snapshot.Campaign, 0, n)
	for i := 0; i < n; i++ {
		campaigns = append(campaigns, snapshot.Campaign{
			CampaignNo:      fmt.Sprintf("2026-%03d", i),
			WineName:        fmt.Sprintf("Barolo Riserva Estate Bottling %d", i),
			Vintage:         "2019",
			ConversionRate:  float64(n - i),
			TotalSales:      float64((n - i) * 1000),
			UniqueCustomers: 10 + i,
			EmailSent:       500,
			MainBottlePrice: 120,
		})
	}
	return analysis.Score(campaigns, analysis.DefaultWeights())
}

func TestLoad_AbsentFileStartsNewMatrix(t *testing.T) {
	store := NewStore(t.TempDir(), false, logger.NewNop())
	now := time.Date(2026, 3, 15, 7, 0, 0, 0, time.UTC)

	h, err := store.Load(now)
	require.NoError(t, err)

	assert.Equal(t, now.Format(time.RFC3339), h.CreatedDate)
	assert.Equal(t, "Historical Top-15 Wine Campaign Winners Matrix for Race Charts", h.Description)
	assert.Empty(t, h.Snapshots)
}

func TestLoad_MalformedFileIsFatal(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, HistoryFile), []byte("{not json"), 0o644))

	store := NewStore(dir, false, logger.NewNop())
	_, err := store.Load(time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed history file")
}

func TestAppend_IsNotIdempotent(t *testing.T) {
	store := NewStore(t.TempDir(), false, logger.NewNop())
	now := time.Date(2026, 3, 15, 7, 0, 0, 0, time.UTC)

	h, err := store.Load(now)
	require.NoError(t, err)

	// Two runs on the same day append two snapshots under the default
	// policy.
	snap := BuildSnapshot(testBoard(3), now)
	store.Append(h, snap)
	store.Append(h, BuildSnapshot(testBoard(3), now.Add(2*time.Hour)))

	assert.Len(t, h.Snapshots, 2)
	assert.Equal(t, h.Snapshots[1].Timestamp, h.LastUpdated)
}

func TestAppend_DedupeByDateReplacesSameDayTail(t *testing.T) {
	store := NewStore(t.TempDir(), true, logger.NewNop())
	now := time.Date(2026, 3, 15, 7, 0, 0, 0, time.UTC)

	h, err := store.Load(now)
	require.NoError(t, err)

	store.Append(h, BuildSnapshot(testBoard(3), now))
	store.Append(h, BuildSnapshot(testBoard(5), now.Add(2*time.Hour)))
	require.Len(t, h.Snapshots, 1)
	assert.Equal(t, 5, h.Snapshots[0].TotalCampaigns)

	// A different day still appends.
	store.Append(h, BuildSnapshot(testBoard(4), now.AddDate(0, 0, 1)))
	assert.Len(t, h.Snapshots, 2)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir, false, logger.NewNop())
	now := time.Date(2026, 3, 15, 7, 0, 0, 0, time.UTC)

	h, err := store.Load(now)
	require.NoError(t, err)
	store.Append(h, BuildSnapshot(testBoard(3), now))
	require.NoError(t, store.Save(h))

	got, err := store.Load(now)
	require.NoError(t, err)
	require.Len(t, got.Snapshots, 1)
	assert.Equal(t, h.CreatedDate, got.CreatedDate)
	assert.Equal(t, "2026-03-15", got.Snapshots[0].Date)
}

func TestBuildSnapshot_Projection(t *testing.T) {
	now := time.Date(2026, 3, 15, 7, 30, 0, 0, time.UTC)
	board := testBoard(20)

	snap := BuildSnapshot(board, now)

	assert.Equal(t, "2026-03-15", snap.Date)
	assert.Equal(t, "March 15, 2026", snap.AnalysisDate)
	assert.Equal(t, 20, snap.TotalCampaigns)
	assert.Equal(t, board.MaxConversion, snap.MaxConversion)
	require.Len(t, snap.Top15, 15)

	first := snap.Top15[0]
	assert.Equal(t, 1, first.Rank)
	assert.Equal(t, "2026-000", first.CampaignNo)

	// Wine name truncated at 30 runes, display name at 20 plus vintage.
	assert.Len(t, []rune(first.WineName), 30)
	assert.Equal(t, "Barolo Riserva Estat 2019", first.DisplayName)

	// Price 120 is Mid-Range under the snapshot thresholds even though
	// the display tables would call it Premium.
	assert.Equal(t, "🩷", first.PriceTier)
}

func TestBuildSnapshot_FewerThanFifteen(t *testing.T) {
	snap := BuildSnapshot(testBoard(4), time.Now())
	assert.Len(t, snap.Top15, 4)
}

func TestBuildSnapshot_Rounding(t *testing.T) {
	board := analysis.Score([]snapshot.Campaign{
		{CampaignNo: "A", ConversionRate: 3.14159, TotalSales: 1234.5678},
	}, analysis.DefaultWeights())

	snap := BuildSnapshot(board, time.Now())
	require.Len(t, snap.Top15, 1)
	assert.Equal(t, 3.14, snap.Top15[0].ConversionRate)
	assert.Equal(t, 1234.57, snap.Top15[0].TotalSales)
	assert.Equal(t, 1.0, snap.Top15[0].WeightedScore)
	assert.Equal(t, 1.0, snap.Top15[0].NormConversion)
}

func TestWinnerEntry_JSONFieldNames(t *testing.T) {
	data, err := json.Marshal(WinnerEntry{})
	require.NoError(t, err)

	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &fields))
	for _, key := range []string{
		"rank", "campaign_no", "wine_name", "vintage", "weighted_score",
		"conversion_rate", "total_sales", "unique_customers", "email_sent",
		"price_tier", "main_bottle_price", "norm_conversion", "norm_sales",
		"delayed_sending", "display_name",
	} {
		assert.Contains(t, fields, key)
	}
}

func TestBuildDataset_ProjectsEverySnapshot(t *testing.T) {
	now := time.Date(2026, 3, 15, 7, 0, 0, 0, time.UTC)
	store := NewStore(t.TempDir(), false, logger.NewNop())

	h, err := store.Load(now)
	require.NoError(t, err)
	store.Append(h, BuildSnapshot(testBoard(3), now.AddDate(0, 0, -1)))
	store.Append(h, BuildSnapshot(testBoard(3), now))

	ds := BuildDataset(h, now)

	assert.Equal(t, "Top Wine Campaign Winners Over Time", ds.Metadata.Title)
	assert.Equal(t, h.CreatedDate, ds.Metadata.Created)
	assert.Equal(t, 2, ds.Metadata.TotalSnapshots)
	require.Len(t, ds.TimeSeries, 2)

	tp := ds.TimeSeries[1]
	assert.Equal(t, "2026-03-15", tp.Date)
	require.Len(t, tp.Winners, 3)

	w := tp.Winners[0]
	assert.Equal(t, "Barolo Riserva Estat 2019", w.Name)
	assert.Equal(t, "🩷", w.PriceTier)
	assert.Equal(t, "#EC4899", w.Color)
}

func TestWriteDataset_WritesFile(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir, false, logger.NewNop())
	now := time.Date(2026, 3, 15, 7, 0, 0, 0, time.UTC)

	h, err := store.Load(now)
	require.NoError(t, err)
	store.Append(h, BuildSnapshot(testBoard(2), now))

	require.NoError(t, store.WriteDataset(BuildDataset(h, now)))

	data, err := os.ReadFile(filepath.Join(dir, RaceChartFile))
	require.NoError(t, err)

	var ds Dataset
	require.NoError(t, json.Unmarshal(data, &ds))
	assert.Len(t, ds.TimeSeries, 1)
}
