package report

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/PuerkitoBio/goquery"

	"github.com/antagata/campaign-winners/pkg/logger"
)

// PostProcess runs the rendered dashboard through a cleanup pass before it
// is written: duplicated element ids are dropped, the embedded race-chart
// payload is verified to parse, and stale dashboard.html self-links are
// rewritten to index.html. Returns the cleaned document.
func PostProcess(html []byte, log *logger.Logger) ([]byte, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse rendered dashboard: %w", err)
	}

	// Duplicate ids break the chart script's lookups.
	seen := make(map[string]bool)
	doc.Find("[id]").Each(func(_ int, s *goquery.Selection) {
		id, _ := s.Attr("id")
		if seen[id] {
			s.RemoveAttr("id")
			log.WithField("id", id).Warn("Removed duplicate element id from dashboard")
			return
		}
		seen[id] = true
	})

	// The published page is served as index.html.
	doc.Find("a[href='dashboard.html']").Each(func(_ int, s *goquery.Selection) {
		s.SetAttr("href", "index.html")
	})

	payload := doc.Find("script#race-data").Text()
	if payload == "" {
		return nil, fmt.Errorf("dashboard is missing the race-chart payload")
	}
	var probe map[string]json.RawMessage
	if err := json.Unmarshal([]byte(payload), &probe); err != nil {
		return nil, fmt.Errorf("embedded race-chart payload does not parse: %w", err)
	}

	out, err := doc.Html()
	if err != nil {
		return nil, fmt.Errorf("serialize dashboard: %w", err)
	}
	return []byte(out), nil
}
