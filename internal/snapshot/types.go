package snapshot

import (
	"strconv"
	"strings"
	"time"
)

// Campaign is one row of the campaign statistics table.
// Numeric fields default to zero when the source value is unparseable;
// a zero ScheduledStart means the start datetime was absent or malformed.
type Campaign struct {
	CampaignNo     string
	Type           string
	SubType        string
	WineName       string
	Vintage        string // year as text, "" when absent
	ProducerName   string
	MainItemNo     int
	ScheduledStart time.Time
	MultipleWines  string
	DelayedSending bool

	ConversionRate  float64 // percent
	TotalSales      float64 // LCY
	EmailSent       int
	UniqueCustomers int
	MainBottlePrice float64 // LCY
}

// StockRecord is one row of the detailed stock list.
type StockRecord struct {
	ItemID   int
	Quantity float64
	Producer string
}

// OfferRecord is one row of the optional main offer list,
// used as the last producer-name fallback.
type OfferRecord struct {
	CampaignNo   string
	ProducerName string
}

// Tables bundles the three input tables for one run.
type Tables struct {
	Campaigns []Campaign
	Stock     []StockRecord
	Offers    []OfferRecord

	// OffersAvailable is false when the offer table was absent;
	// the third producer fallback stage is disabled in that case.
	OffersAvailable bool
}

// Column coercion helpers. Per-record parse failures never abort a run:
// numbers default to 0, booleans to false, dates to the zero time.

func coerceFloat(s string) float64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, "'", ""))
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func coerceInt(s string) int {
	// Excel exports integers as "123.0" often enough to matter.
	return int(coerceFloat(s))
}

func coerceBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "y", "1":
		return true
	}
	return false
}

var startLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02",
	"02.01.2006 15:04:05",
	"02.01.2006",
}

func coerceTime(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range startLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// coerceVintage normalizes a vintage code to a bare year string.
// "2019.0" becomes "2019"; zero or unparseable values become "".
func coerceVintage(s string) string {
	year := coerceInt(s)
	if year <= 0 {
		return ""
	}
	return strconv.Itoa(year)
}
