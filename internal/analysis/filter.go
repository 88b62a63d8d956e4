package analysis

import "github.com/antagata/campaign-winners/internal/snapshot"

// FilterConfig holds the categorical exclusion sets applied before scoring.
type FilterConfig struct {
	ExcludedTypes   []string // e.g. HORECA, TRADE
	ExcludedSubType string   // e.g. Lead
}

// DefaultFilterConfig returns the standard channel exclusions.
func DefaultFilterConfig() FilterConfig {
	return FilterConfig{
		ExcludedTypes:   []string{"HORECA", "TRADE"},
		ExcludedSubType: "Lead",
	}
}

// Filter removes campaigns whose type or sub-type is excluded.
// Matching is exact; campaigns with empty tags pass. The relative order
// of surviving campaigns is preserved.
func Filter(campaigns []snapshot.Campaign, cfg FilterConfig) []snapshot.Campaign {
	excluded := make(map[string]struct{}, len(cfg.ExcludedTypes))
	for _, t := range cfg.ExcludedTypes {
		excluded[t] = struct{}{}
	}

	out := make([]snapshot.Campaign, 0, len(campaigns))
	for _, c := range campaigns {
		if _, ok := excluded[c.Type]; ok {
			continue
		}
		if cfg.ExcludedSubType != "" && c.SubType == cfg.ExcludedSubType {
			continue
		}
		out = append(out, c)
	}
	return out
}
