package analysis

import "github.com/antagata/campaign-winners/internal/snapshot"

// ProducerResolver fills missing producer names through a fixed chain of
// lookups: campaign table by item number, then stock list by item id,
// then the optional offer list by campaign number. The first hit wins.
type ProducerResolver struct {
	primary map[int]string    // item number -> producer (campaign table)
	stock   map[int]string    // item id -> producer (stock list)
	offers  map[string]string // campaign number -> producer (offer list)
}

// NewProducerResolver builds the lookup maps. For every source the first
// occurrence of a key wins; empty producer values never enter a map.
func NewProducerResolver(campaigns []snapshot.Campaign, tables *snapshot.Tables) *ProducerResolver {
	r := &ProducerResolver{
		primary: make(map[int]string, len(campaigns)),
		stock:   make(map[int]string, len(tables.Stock)),
	}

	for _, c := range campaigns {
		if c.ProducerName == "" {
			continue
		}
		if _, ok := r.primary[c.MainItemNo]; !ok {
			r.primary[c.MainItemNo] = c.ProducerName
		}
	}

	for _, s := range tables.Stock {
		if s.Producer == "" {
			continue
		}
		if _, ok := r.stock[s.ItemID]; !ok {
			r.stock[s.ItemID] = s.Producer
		}
	}

	if tables.OffersAvailable {
		r.offers = make(map[string]string, len(tables.Offers))
		for _, o := range tables.Offers {
			if o.ProducerName == "" {
				continue
			}
			if _, ok := r.offers[o.CampaignNo]; !ok {
				r.offers[o.CampaignNo] = o.ProducerName
			}
		}
	}

	return r
}

// Resolve fills ProducerName on every campaign that lacks one. A campaign
// with no producer in any source keeps an empty name; that is not an error.
func (r *ProducerResolver) Resolve(board *Scoreboard) {
	for i := range board.Campaigns {
		c := &board.Campaigns[i]
		if c.ProducerName != "" {
			continue
		}
		if name, ok := r.primary[c.MainItemNo]; ok {
			c.ProducerName = name
			continue
		}
		if name, ok := r.stock[c.MainItemNo]; ok {
			c.ProducerName = name
			continue
		}
		if r.offers != nil {
			if name, ok := r.offers[c.CampaignNo]; ok {
				c.ProducerName = name
			}
		}
	}
}
