package analysis

import (
	"fmt"
	"time"
)

// periodTopN is the fixed size of every period selection.
const periodTopN = 10

// PeriodSelection is the top-10 list for one trailing-day window.
type PeriodSelection struct {
	Days        int
	Name        string           // e.g. "Last 7 Days"
	PeriodCount int              // campaigns whose start fell inside the window
	Winners     []ScoredCampaign // PeriodRank assigned 1..len
	Backfilled  int              // entries pulled from the overall ranking
}

// SelectPeriods produces one selection per trailing-day window. The cutoff
// clock is injected so period membership is reproducible in tests.
func SelectPeriods(board *Scoreboard, now time.Time, windows []int) []PeriodSelection {
	selections := make([]PeriodSelection, 0, len(windows))
	for _, days := range windows {
		selections = append(selections, selectPeriod(board, now, days))
	}
	return selections
}

// selectPeriod applies the backfill policy:
//   - empty window: the global top-10 stands in for the window entirely
//   - short window: period-native entries first (score-descending), then
//     the highest-scoring campaigns from outside the selection appended
//     until 10 entries exist, or the whole population is exhausted
//   - full window: period-native top-10 only
//
// Backfilled entries are appended, never merged, so a backfilled entry can
// out-score the period-native entry ranked above it. That inversion is the
// documented behavior of the dashboard.
func selectPeriod(board *Scoreboard, now time.Time, days int) PeriodSelection {
	cutoff := now.AddDate(0, 0, -days)

	// board.Campaigns is score-descending, so any order-preserving filter
	// of it is too.
	period := make([]ScoredCampaign, 0, periodTopN)
	for _, c := range board.Campaigns {
		if !c.ScheduledStart.IsZero() && !c.ScheduledStart.Before(cutoff) {
			period = append(period, c)
		}
	}

	sel := PeriodSelection{
		Days:        days,
		Name:        fmt.Sprintf("Last %d Days", days),
		PeriodCount: len(period),
	}

	switch {
	case len(period) == 0:
		sel.Winners = append(sel.Winners, board.Top(periodTopN)...)
		sel.Backfilled = len(sel.Winners)

	case len(period) < periodTopN:
		sel.Winners = append(sel.Winners, period...)
		selected := make(map[string]struct{}, periodTopN)
		for _, c := range sel.Winners {
			selected[c.CampaignNo] = struct{}{}
		}
		for _, c := range board.Campaigns {
			if len(sel.Winners) == periodTopN {
				break
			}
			if _, ok := selected[c.CampaignNo]; ok {
				continue
			}
			selected[c.CampaignNo] = struct{}{}
			sel.Winners = append(sel.Winners, c)
			sel.Backfilled++
		}

	default:
		sel.Winners = append(sel.Winners, period[:periodTopN]...)
	}

	for i := range sel.Winners {
		sel.Winners[i].PeriodRank = i + 1
	}

	return sel
}
