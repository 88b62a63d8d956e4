package snapshot

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/antagata/campaign-winners/pkg/logger"
)

// PostgresLoader reads the snapshot tables from a reporting database
// instead of CSV exports. Table and column names mirror the CSV layout.
type PostgresLoader struct {
	db     *pgxpool.Pool
	logger *logger.Logger
}

// NewPostgresLoader creates a loader over the given pool.
func NewPostgresLoader(db *pgxpool.Pool, log *logger.Logger) *PostgresLoader {
	return &PostgresLoader{db: db, logger: log}
}

// Load reads all three tables. The offer table is optional: when it does
// not exist the fallback stage is disabled rather than failing the run.
func (l *PostgresLoader) Load(ctx context.Context) (*Tables, error) {
	campaigns, err := l.loadCampaigns(ctx)
	if err != nil {
		return nil, fmt.Errorf("load campaign statistics: %w", err)
	}

	stock, err := l.loadStock(ctx)
	if err != nil {
		return nil, fmt.Errorf("load detailed stock list: %w", err)
	}

	tables := &Tables{
		Campaigns: ValidateCampaignNumbers(campaigns, l.logger),
		Stock:     DedupeStock(stock),
	}

	offers, err := l.loadOffers(ctx)
	if err != nil {
		l.logger.WithError(err).Warn("Main offer list unavailable, producer fallback disabled")
	} else {
		tables.Offers = offers
		tables.OffersAvailable = true
	}

	l.logger.WithFields(map[string]interface{}{
		"campaigns": len(tables.Campaigns),
		"stock":     len(tables.Stock),
		"offers":    len(tables.Offers),
	}).Info("Snapshots loaded from database")

	return tables, nil
}

func (l *PostgresLoader) loadCampaigns(ctx context.Context) ([]Campaign, error) {
	// Text columns are coerced in Go so that one bad value defaults to
	// zero instead of failing the whole table.
	query := `
		SELECT
			COALESCE(campaign_no, ''),
			COALESCE(type, ''),
			COALESCE(sub_type, ''),
			COALESCE(main_wine_name, ''),
			COALESCE(vintage_code::text, ''),
			COALESCE(producer_name, ''),
			COALESCE(main_item_no::text, ''),
			COALESCE(scheduled_datetime1::text, ''),
			COALESCE(multiple_wines, ''),
			COALESCE(delayed_sending::text, ''),
			COALESCE(conversion_rate_pct::text, ''),
			COALESCE(total_sales_amount_lcy::text, ''),
			COALESCE(email_sent::text, ''),
			COALESCE(total_unique_customers_bought::text, ''),
			COALESCE(main_bottle_price_lcy::text, '')
		FROM campaign_statistics
	`

	rows, err := l.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query campaigns: %w", err)
	}
	defer rows.Close()

	campaigns := make([]Campaign, 0, 256)
	for rows.Next() {
		var (
			c                                     Campaign
			vintage, itemNo, start, delayed       string
			conv, sales, emails, customers, price string
		)
		err := rows.Scan(
			&c.CampaignNo, &c.Type, &c.SubType, &c.WineName,
			&vintage, &c.ProducerName, &itemNo, &start,
			&c.MultipleWines, &delayed,
			&conv, &sales, &emails, &customers, &price,
		)
		if err != nil {
			return nil, fmt.Errorf("scan campaign: %w", err)
		}

		c.Vintage = coerceVintage(vintage)
		c.MainItemNo = coerceInt(itemNo)
		c.ScheduledStart = coerceTime(start)
		c.DelayedSending = coerceBool(delayed)
		c.ConversionRate = coerceFloat(conv)
		c.TotalSales = coerceFloat(sales)
		c.EmailSent = coerceInt(emails)
		c.UniqueCustomers = coerceInt(customers)
		c.MainBottlePrice = coerceFloat(price)

		campaigns = append(campaigns, c)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate campaigns: %w", rows.Err())
	}

	return campaigns, nil
}

func (l *PostgresLoader) loadStock(ctx context.Context) ([]StockRecord, error) {
	query := `
		SELECT
			COALESCE(id::text, ''),
			COALESCE(stock::text, ''),
			COALESCE(producer, '')
		FROM detailed_stock_list
	`

	rows, err := l.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query stock: %w", err)
	}
	defer rows.Close()

	stock := make([]StockRecord, 0, 256)
	for rows.Next() {
		var id, qty string
		var r StockRecord
		if err := rows.Scan(&id, &qty, &r.Producer); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		r.ItemID = coerceInt(id)
		r.Quantity = coerceFloat(qty)
		stock = append(stock, r)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate stock: %w", rows.Err())
	}

	return stock, nil
}

func (l *PostgresLoader) loadOffers(ctx context.Context) ([]OfferRecord, error) {
	query := `
		SELECT COALESCE(campaign_no, ''), COALESCE(producer_name, '')
		FROM main_offers
	`

	rows, err := l.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query offers: %w", err)
	}
	defer rows.Close()

	offers := make([]OfferRecord, 0, 64)
	for rows.Next() {
		var o OfferRecord
		if err := rows.Scan(&o.CampaignNo, &o.ProducerName); err != nil {
			return nil, fmt.Errorf("scan offer: %w", err)
		}
		offers = append(offers, o)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate offers: %w", rows.Err())
	}

	return offers, nil
}
