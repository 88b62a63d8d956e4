package snapshot

import (
	"context"

	"github.com/antagata/campaign-winners/pkg/logger"
)

// Loader supplies the three input tables for one run.
type Loader interface {
	Load(ctx context.Context) (*Tables, error)
}

// DedupeStock keeps the first stock record per item id, preserving order.
func DedupeStock(records []StockRecord) []StockRecord {
	seen := make(map[int]struct{}, len(records))
	out := make([]StockRecord, 0, len(records))
	for _, r := range records {
		if _, ok := seen[r.ItemID]; ok {
			continue
		}
		seen[r.ItemID] = struct{}{}
		out = append(out, r)
	}
	return out
}

// ValidateCampaignNumbers checks the campaign-number uniqueness assumption
// the downstream joins rely on. Duplicates are dropped after the first
// occurrence and reported through the logger.
func ValidateCampaignNumbers(campaigns []Campaign, log *logger.Logger) []Campaign {
	seen := make(map[string]struct{}, len(campaigns))
	out := make([]Campaign, 0, len(campaigns))
	dropped := 0
	for _, c := range campaigns {
		if _, ok := seen[c.CampaignNo]; ok {
			dropped++
			log.WithField("campaign_no", c.CampaignNo).Warn("Duplicate campaign number, keeping first occurrence")
			continue
		}
		seen[c.CampaignNo] = struct{}{}
		out = append(out, c)
	}
	if dropped > 0 {
		log.WithField("dropped", dropped).Warn("Campaign table violated uniqueness assumption")
	}
	return out
}
