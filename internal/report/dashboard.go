package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"github.com/antagata/campaign-winners/internal/analysis"
	"github.com/antagata/campaign-winners/internal/history"
	"github.com/antagata/campaign-winners/pkg/logger"
)

// Output file names inside the output directory.
const (
	DashboardFile = "dashboard.html"
	IndexFile     = "index.html"
)

const top25Size = 25

// Renderer turns one run's results into the static dashboard document.
type Renderer struct {
	logger *logger.Logger
	tmpl   *template.Template
}

// NewRenderer parses the dashboard template.
func NewRenderer(log *logger.Logger) (*Renderer, error) {
	tmpl, err := template.New("dashboard").Parse(dashboardTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse dashboard template: %w", err)
	}
	return &Renderer{logger: log, tmpl: tmpl}, nil
}

// winnerRow is one row of the overall or per-period tables.
type winnerRow struct {
	Rank        int
	PriceEmoji  string
	StockEmoji  string
	CampaignNo  string
	Wine        string
	Producer    string
	StartDate   string
	Multiple    string
	EmailSent   int
	Customers   int
	Conversion  string
	Sales       string
	Score       string
	StockStatus string
	OverallRank int
}

// periodSection is one trailing-window block of the dashboard.
type periodSection struct {
	Name        string
	PeriodCount int
	Backfilled  int
	Rows        []winnerRow
}

type dashboardData struct {
	GeneratedAt    string
	TotalCampaigns int
	MaxConversion  string
	MaxSales       string
	Top25          []winnerRow
	Periods        []periodSection
	Top15          []winnerRow
	RaceJSON       template.JS
}

// Render produces the dashboard HTML for the current run, embedding the
// race-chart dataset for the client-side animation.
func (r *Renderer) Render(board *analysis.Scoreboard, periods []analysis.PeriodSelection, dataset *history.Dataset, now time.Time) ([]byte, error) {
	raceJSON, err := json.Marshal(dataset)
	if err != nil {
		return nil, fmt.Errorf("marshal race chart payload: %w", err)
	}

	data := dashboardData{
		GeneratedAt:    now.Format("January 2, 2006 at 15:04:05"),
		TotalCampaigns: len(board.Campaigns),
		MaxConversion:  fmt.Sprintf("%.2f", board.MaxConversion),
		MaxSales:       FormatSwiss(board.MaxSales),
		RaceJSON:       template.JS(raceJSON),
	}

	for _, c := range board.Top(top25Size) {
		data.Top25 = append(data.Top25, rowFor(c, c.OverallRank))
	}

	for _, p := range periods {
		section := periodSection{
			Name:        p.Name,
			PeriodCount: p.PeriodCount,
			Backfilled:  p.Backfilled,
		}
		for _, c := range p.Winners {
			section.Rows = append(section.Rows, rowFor(c, c.PeriodRank))
		}
		data.Periods = append(data.Periods, section)
	}

	for i, c := range board.Top(15) {
		row := rowFor(c, i+1)
		// The snapshot table keys its legend off the historical tier set.
		tier := analysis.PriceTierFor(c.MainBottlePrice, analysis.PriceSnapshot)
		row.PriceEmoji = tier.Emoji(analysis.PriceSnapshot)
		data.Top15 = append(data.Top15, row)
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render dashboard: %w", err)
	}

	return buf.Bytes(), nil
}

// Write persists the dashboard and its index.html copy.
func (r *Renderer) Write(dir string, html []byte) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	for _, name := range []string{DashboardFile, IndexFile} {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, html, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}

	r.logger.WithField("dir", dir).Info("Dashboard written")
	return nil
}

func rowFor(c analysis.ScoredCampaign, rank int) winnerRow {
	tier := analysis.PriceTierFor(c.MainBottlePrice, analysis.PriceDisplay)

	startDate := ""
	if !c.ScheduledStart.IsZero() {
		startDate = c.ScheduledStart.Format("2006-01-02")
	}

	stockStatus := "Unknown/No stock"
	if c.StockTier != analysis.StockUnknown {
		stockStatus = fmt.Sprintf("%s (%d bottles)", c.StockTier.Label(), int(c.StockQuantity))
	}

	return winnerRow{
		Rank:        rank,
		PriceEmoji:  tier.Emoji(analysis.PriceDisplay),
		StockEmoji:  c.StockTier.Emoji(),
		CampaignNo:  DisplayCampaignNo(c.CampaignNo, c.DelayedSending),
		Wine:        DisplayWine(c.WineName, c.Vintage, 35),
		Producer:    c.ProducerName,
		StartDate:   startDate,
		Multiple:    c.MultipleWines,
		EmailSent:   c.EmailSent,
		Customers:   c.UniqueCustomers,
		Conversion:  fmt.Sprintf("%.2f", c.ConversionRate),
		Sales:       FormatSwiss(c.TotalSales),
		Score:       fmt.Sprintf("%.4f", c.WeightedScore),
		StockStatus: stockStatus,
		OverallRank: c.OverallRank,
	}
}
