package history

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/antagata/campaign-winners/internal/analysis"
	"github.com/antagata/campaign-winners/pkg/logger"
)

// File names inside the history directory.
const (
	HistoryFile   = "top_15_winners_matrix.json"
	RaceChartFile = "race_chart_data.json"
)

const snapshotSize = 15

// WinnerEntry is the restricted projection of one scored campaign stored
// inside a historical snapshot.
type WinnerEntry struct {
	Rank            int     `json:"rank"`
	CampaignNo      string  `json:"campaign_no"`
	WineName        string  `json:"wine_name"`
	Vintage         string  `json:"vintage"`
	WeightedScore   float64 `json:"weighted_score"`
	ConversionRate  float64 `json:"conversion_rate"`
	TotalSales      float64 `json:"total_sales"`
	UniqueCustomers int     `json:"unique_customers"`
	EmailSent       int     `json:"email_sent"`
	PriceTier       string  `json:"price_tier"`
	MainBottlePrice float64 `json:"main_bottle_price"`
	NormConversion  float64 `json:"norm_conversion"`
	NormSales       float64 `json:"norm_sales"`
	DelayedSending  bool    `json:"delayed_sending"`
	DisplayName     string  `json:"display_name"`
}

// Snapshot is one dated, immutable record of the top-15 ranking.
type Snapshot struct {
	Timestamp      string        `json:"timestamp"`
	Date           string        `json:"date"`
	AnalysisDate   string        `json:"analysis_date"`
	TotalCampaigns int           `json:"total_campaigns"`
	MaxConversion  float64       `json:"max_conversion"`
	MaxSales       float64       `json:"max_sales"`
	Top15          []WinnerEntry `json:"top_15_winners"`
}

// History is the append-only on-disk snapshot sequence.
type History struct {
	CreatedDate string     `json:"created_date"`
	Description string     `json:"description"`
	LastUpdated string     `json:"last_updated"`
	Snapshots   []Snapshot `json:"snapshots"`
}

// Store reads and writes the history document.
type Store struct {
	dir          string
	dedupeByDate bool
	logger       *logger.Logger
}

// NewStore creates a store over the given history directory. When
// dedupeByDate is set, a second run on the same calendar day replaces
// that day's latest snapshot instead of appending a new one.
func NewStore(dir string, dedupeByDate bool, log *logger.Logger) *Store {
	return &Store{dir: dir, dedupeByDate: dedupeByDate, logger: log}
}

// Load reads the full history. An absent file initializes an empty
// sequence; a present but malformed file is fatal for the run.
func (s *Store) Load(now time.Time) (*History, error) {
	path := filepath.Join(s.dir, HistoryFile)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		s.logger.Info("No history file found, starting a new matrix")
		return &History{
			CreatedDate: now.Format(time.RFC3339),
			Description: "Historical Top-15 Wine Campaign Winners Matrix for Race Charts",
			Snapshots:   []Snapshot{},
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read history file: %w", err)
	}

	var h History
	if err := json.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("malformed history file %s: %w", path, err)
	}

	return &h, nil
}

// Append adds a snapshot to the history. The default policy is
// append-always: two runs on the same day produce two snapshots.
func (s *Store) Append(h *History, snap Snapshot) {
	if s.dedupeByDate {
		if n := len(h.Snapshots); n > 0 && h.Snapshots[n-1].Date == snap.Date {
			s.logger.WithField("date", snap.Date).Info("Replacing same-day snapshot")
			h.Snapshots[n-1] = snap
			h.LastUpdated = snap.Timestamp
			return
		}
	}
	h.Snapshots = append(h.Snapshots, snap)
	h.LastUpdated = snap.Timestamp
}

// Save persists the full history document.
func (s *Store) Save(h *History) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create history dir: %w", err)
	}

	data, err := json.MarshalIndent(h, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}

	path := filepath.Join(s.dir, HistoryFile)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write history file: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"snapshots": len(h.Snapshots),
		"path":      path,
	}).Info("History matrix updated")

	return nil
}

// BuildSnapshot projects the current run's top-15 into a snapshot.
// The snapshot price-tier policy applies here, not the display one.
func BuildSnapshot(board *analysis.Scoreboard, now time.Time) Snapshot {
	snap := Snapshot{
		Timestamp:      now.Format(time.RFC3339),
		Date:           now.Format("2006-01-02"),
		AnalysisDate:   now.Format("January 2, 2006"),
		TotalCampaigns: len(board.Campaigns),
		MaxConversion:  board.MaxConversion,
		MaxSales:       board.MaxSales,
		Top15:          make([]WinnerEntry, 0, snapshotSize),
	}

	for i, c := range board.Top(snapshotSize) {
		tier := analysis.PriceTierFor(c.MainBottlePrice, analysis.PriceSnapshot)
		snap.Top15 = append(snap.Top15, WinnerEntry{
			Rank:            i + 1,
			CampaignNo:      c.CampaignNo,
			WineName:        truncate(c.WineName, 30),
			Vintage:         c.Vintage,
			WeightedScore:   round4(c.WeightedScore),
			ConversionRate:  round2(c.ConversionRate),
			TotalSales:      round2(c.TotalSales),
			UniqueCustomers: c.UniqueCustomers,
			EmailSent:       c.EmailSent,
			PriceTier:       tier.Emoji(analysis.PriceSnapshot),
			MainBottlePrice: round2(c.MainBottlePrice),
			NormConversion:  round4(c.NormConversion),
			NormSales:       round4(c.NormSales),
			DelayedSending:  c.DelayedSending,
			DisplayName:     displayName(c.WineName, c.Vintage),
		})
	}

	return snap
}

// displayName joins a truncated wine name with its vintage for chart labels.
func displayName(wine, vintage string) string {
	name := truncate(wine, 20)
	if vintage == "" {
		return name
	}
	return name + " " + vintage
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round4(v float64) float64 { return math.Round(v*10000) / 10000 }
