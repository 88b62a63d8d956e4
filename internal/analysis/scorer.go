package analysis

import (
	"sort"

	"github.com/antagata/campaign-winners/internal/snapshot"
)

// scoreFloor guards the normalization denominators against empty or
// all-zero inputs.
const scoreFloor = 1e-12

// ScoredCampaign is a campaign with its derived ranking fields, plus the
// producer/stock resolution filled in by later stages.
type ScoredCampaign struct {
	snapshot.Campaign

	NormConversion float64
	NormSales      float64
	WeightedScore  float64
	OverallRank    int // 1-based position in the full ranking

	// Filled by the stock joiner
	StockQuantity float64
	StockTier     StockTier

	// Filled by the period selector on period selections only
	PeriodRank int
}

// Weights is the full ranking policy: two normalized signals combined
// into a single score.
type Weights struct {
	Conversion float64
	Sales      float64
}

// DefaultWeights returns the standard 60/40 split.
func DefaultWeights() Weights {
	return Weights{Conversion: 0.6, Sales: 0.4}
}

// Valid checks that the weights sum to 1.0, allowing for float error.
func (w Weights) Valid() bool {
	sum := w.Conversion + w.Sales
	return sum >= 0.99 && sum <= 1.01
}

// Scoreboard is the full scored, ranked campaign population for one run.
// The top-25 display and every period top-10 derive from it; nothing
// mutates it after scoring.
type Scoreboard struct {
	Campaigns     []ScoredCampaign // ordered by OverallRank
	MaxConversion float64
	MaxSales      float64
}

// Score normalizes conversion and sales against the population maxima and
// ranks every campaign by the weighted score. The sort is stable so that
// ties keep input order and re-runs over the same input are bit-identical.
func Score(campaigns []snapshot.Campaign, weights Weights) *Scoreboard {
	board := &Scoreboard{
		Campaigns:     make([]ScoredCampaign, 0, len(campaigns)),
		MaxConversion: scoreFloor,
		MaxSales:      scoreFloor,
	}

	for _, c := range campaigns {
		if c.ConversionRate > board.MaxConversion {
			board.MaxConversion = c.ConversionRate
		}
		if c.TotalSales > board.MaxSales {
			board.MaxSales = c.TotalSales
		}
	}

	for _, c := range campaigns {
		sc := ScoredCampaign{Campaign: c}
		sc.NormConversion = c.ConversionRate / board.MaxConversion
		sc.NormSales = c.TotalSales / board.MaxSales
		sc.WeightedScore = weights.Conversion*sc.NormConversion + weights.Sales*sc.NormSales
		board.Campaigns = append(board.Campaigns, sc)
	}

	sort.SliceStable(board.Campaigns, func(i, j int) bool {
		return board.Campaigns[i].WeightedScore > board.Campaigns[j].WeightedScore
	})

	for i := range board.Campaigns {
		board.Campaigns[i].OverallRank = i + 1
	}

	return board
}

// Top returns the first n ranked campaigns (or fewer).
func (b *Scoreboard) Top(n int) []ScoredCampaign {
	if n > len(b.Campaigns) {
		n = len(b.Campaigns)
	}
	return b.Campaigns[:n]
}
