package analysis

import "github.com/antagata/campaign-winners/internal/snapshot"

// JoinStock attaches stock quantity and tier to every scored campaign by
// item-number join. The stock slice is expected to hold exactly one record
// per item id (the loader deduplicates by first occurrence). Campaigns
// without a matching item get quantity 0 and the Unknown tier.
func JoinStock(board *Scoreboard, stock []snapshot.StockRecord) {
	quantities := make(map[int]float64, len(stock))
	for _, s := range stock {
		if _, ok := quantities[s.ItemID]; !ok {
			quantities[s.ItemID] = s.Quantity
		}
	}

	for i := range board.Campaigns {
		c := &board.Campaigns[i]
		c.StockQuantity = quantities[c.MainItemNo]
		c.StockTier = StockTierFor(c.StockQuantity)
	}
}
