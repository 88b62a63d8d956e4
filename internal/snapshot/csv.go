package snapshot

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/antagata/campaign-winners/pkg/logger"
)

// Default snapshot file names inside the snapshot directory.
const (
	CampaignFile = "campaign_statistics.csv"
	StockFile    = "detailed_stock_list.csv"
	OfferFile    = "omt_main_offer.csv"
)

// CSVLoader reads the snapshot tables from CSV exports.
// The campaign and stock tables are required; the offer table is optional.
type CSVLoader struct {
	dir    string
	logger *logger.Logger
}

// NewCSVLoader creates a loader over the given snapshot directory.
func NewCSVLoader(dir string, log *logger.Logger) *CSVLoader {
	return &CSVLoader{dir: dir, logger: log}
}

// Load reads all three tables. A missing campaign or stock file is fatal;
// a missing offer file only disables the third producer fallback.
func (l *CSVLoader) Load(ctx context.Context) (*Tables, error) {
	campaigns, err := l.loadCampaigns(filepath.Join(l.dir, CampaignFile))
	if err != nil {
		return nil, fmt.Errorf("load campaign statistics: %w", err)
	}

	stock, err := l.loadStock(filepath.Join(l.dir, StockFile))
	if err != nil {
		return nil, fmt.Errorf("load detailed stock list: %w", err)
	}

	tables := &Tables{
		Campaigns: ValidateCampaignNumbers(campaigns, l.logger),
		Stock:     DedupeStock(stock),
	}

	offerPath := filepath.Join(l.dir, OfferFile)
	if _, err := os.Stat(offerPath); err == nil {
		offers, err := l.loadOffers(offerPath)
		if err != nil {
			return nil, fmt.Errorf("load main offer list: %w", err)
		}
		tables.Offers = offers
		tables.OffersAvailable = true
	} else {
		l.logger.Warn("Main offer list not found, producer fallback unavailable")
	}

	l.logger.WithFields(map[string]interface{}{
		"campaigns": len(tables.Campaigns),
		"stock":     len(tables.Stock),
		"offers":    len(tables.Offers),
	}).Info("Snapshots loaded")

	return tables, nil
}

// header maps lower-cased column names to their index.
type header map[string]int

func (h header) get(record []string, name string) string {
	idx, ok := h[name]
	if !ok || idx >= len(record) {
		return ""
	}
	return record[idx]
}

func readTable(path string, row func(h header, record []string)) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	headRec, err := r.Read()
	if err != nil {
		return fmt.Errorf("read header: %w", err)
	}
	h := make(header, len(headRec))
	for i, name := range headRec {
		h[strings.ToLower(strings.TrimSpace(name))] = i
	}

	for {
		record, err := r.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read record: %w", err)
		}
		row(h, record)
	}
}

func (l *CSVLoader) loadCampaigns(path string) ([]Campaign, error) {
	campaigns := make([]Campaign, 0, 256)
	err := readTable(path, func(h header, rec []string) {
		campaigns = append(campaigns, Campaign{
			CampaignNo:      strings.TrimSpace(h.get(rec, "campaign no.")),
			Type:            strings.TrimSpace(h.get(rec, "type")),
			SubType:         strings.TrimSpace(h.get(rec, "sub-type")),
			WineName:        strings.TrimSpace(h.get(rec, "main wine name")),
			Vintage:         coerceVintage(h.get(rec, "vintage code")),
			ProducerName:    strings.TrimSpace(h.get(rec, "producer name")),
			MainItemNo:      coerceInt(h.get(rec, "main item no.")),
			ScheduledStart:  coerceTime(h.get(rec, "scheduled datetime1")),
			MultipleWines:   strings.TrimSpace(h.get(rec, "multiple wines")),
			DelayedSending:  coerceBool(h.get(rec, "delayed sending")),
			ConversionRate:  coerceFloat(h.get(rec, "conversion rate %")),
			TotalSales:      coerceFloat(h.get(rec, "total sales amount (lcy)")),
			EmailSent:       coerceInt(h.get(rec, "email sent")),
			UniqueCustomers: coerceInt(h.get(rec, "total unique customers bought")),
			MainBottlePrice: coerceFloat(h.get(rec, "main bottle price (lcy)")),
		})
	})
	if err != nil {
		return nil, err
	}
	return campaigns, nil
}

func (l *CSVLoader) loadStock(path string) ([]StockRecord, error) {
	stock := make([]StockRecord, 0, 256)
	err := readTable(path, func(h header, rec []string) {
		stock = append(stock, StockRecord{
			ItemID:   coerceInt(h.get(rec, "id")),
			Quantity: coerceFloat(h.get(rec, "stock")),
			Producer: strings.TrimSpace(h.get(rec, "producer")),
		})
	})
	if err != nil {
		return nil, err
	}
	return stock, nil
}

func (l *CSVLoader) loadOffers(path string) ([]OfferRecord, error) {
	offers := make([]OfferRecord, 0, 64)
	err := readTable(path, func(h header, rec []string) {
		offers = append(offers, OfferRecord{
			CampaignNo:   strings.TrimSpace(h.get(rec, "campaign no.")),
			ProducerName: strings.TrimSpace(h.get(rec, "producer name")),
		})
	})
	if err != nil {
		return nil, err
	}
	return offers, nil
}
