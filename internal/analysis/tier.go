package analysis

// StockTier buckets a stock quantity into the dashboard's color legend.
type StockTier int

const (
	StockUnknown StockTier = iota // no stock or unknown
	StockPurple                   // 1-12 bottles
	StockGold                     // 13-49
	StockBlue                     // 50-199
	StockPink                     // 200-499
	StockGreen                    // 500+
)

// StockTierFor buckets a quantity. Boundaries are inclusive per bucket:
// 12 is Purple, 13 is Gold, 500 is Green.
func StockTierFor(quantity float64) StockTier {
	switch {
	case quantity <= 0:
		return StockUnknown
	case quantity <= 12:
		return StockPurple
	case quantity <= 49:
		return StockGold
	case quantity <= 199:
		return StockBlue
	case quantity <= 499:
		return StockPink
	default:
		return StockGreen
	}
}

// Emoji returns the legend symbol for the tier.
func (t StockTier) Emoji() string {
	switch t {
	case StockPurple:
		return "🟣"
	case StockGold:
		return "🟨"
	case StockBlue:
		return "🟦"
	case StockPink:
		return "🩷"
	case StockGreen:
		return "🟢"
	default:
		return "⚪"
	}
}

// Label returns the tier name used in the stock-status column.
func (t StockTier) Label() string {
	switch t {
	case StockPurple:
		return "Purple"
	case StockGold:
		return "Gold"
	case StockBlue:
		return "Blue"
	case StockPink:
		return "Pink"
	case StockGreen:
		return "Green"
	default:
		return "Unknown"
	}
}

// PriceTier buckets a bottle price from Budget up to Extra-Luxury.
type PriceTier int

const (
	PriceUnknown PriceTier = iota
	PriceBudget
	PriceMidRange
	PricePremium
	PriceLuxury
	PriceExtraLuxury
)

// PricePolicy names one of the two threshold sets the dashboard uses.
// The display tables and the historical snapshot intentionally bucket
// prices differently; the two policies are kept separate rather than
// unified so that neither surface changes categorization.
type PricePolicy int

const (
	// PriceDisplay is used by the top-25 and period tables
	// (thresholds 50 / 100 / 300 / 750, exclusive).
	PriceDisplay PricePolicy = iota
	// PriceSnapshot is used by the historical top-15 snapshot
	// (thresholds 80 / 150 / 500 / 1000, inclusive).
	PriceSnapshot
)

// PriceTierFor buckets a price under the given policy.
func PriceTierFor(price float64, policy PricePolicy) PriceTier {
	if price <= 0 {
		return PriceUnknown
	}

	if policy == PriceSnapshot {
		switch {
		case price >= 1000:
			return PriceExtraLuxury
		case price >= 500:
			return PriceLuxury
		case price >= 150:
			return PricePremium
		case price >= 80:
			return PriceMidRange
		default:
			return PriceBudget
		}
	}

	switch {
	case price > 750:
		return PriceExtraLuxury
	case price > 300:
		return PriceLuxury
	case price > 100:
		return PricePremium
	case price > 50:
		return PriceMidRange
	default:
		return PriceBudget
	}
}

// Emoji returns the legend symbol for the tier under the given policy.
// The display policy marks Premium with a diamond, the snapshot policy
// with a blue square; the race chart colors key off the snapshot set.
func (t PriceTier) Emoji(policy PricePolicy) string {
	switch t {
	case PriceBudget:
		return "🟢"
	case PriceMidRange:
		return "🩷"
	case PricePremium:
		if policy == PriceSnapshot {
			return "🟦"
		}
		return "💎"
	case PriceLuxury:
		return "🟨"
	case PriceExtraLuxury:
		return "🟣"
	default:
		return "⚪"
	}
}

// TierColors maps snapshot-policy emoji to the race-chart hex palette.
var TierColors = map[string]string{
	"🟣": "#8B5CF6",
	"🟨": "#F59E0B",
	"🟦": "#3B82F6",
	"🩷": "#EC4899",
	"🟢": "#10B981",
	"⚪": "#9CA3AF",
}

// TierColor resolves an emoji to its chart color, defaulting to gray.
func TierColor(emoji string) string {
	if c, ok := TierColors[emoji]; ok {
		return c
	}
	return "#9CA3AF"
}
