// Package stats aggregates review history into per-month learning
// reports.
package stats

import (
	"fmt"
	"sort"

	"github.com/wiaanjvr/fluency-next-sub010/internal/srs"
)

// MonthlyStatistics holds statistics for one month
type MonthlyStatistics struct {
	Period         string // "2026-03"
	NewWordsCount  int    // Total first-time passes
	NewWordsUnique int    // Unique items passed for the first time
	RelearnsCount  int    // Total later passes
	RelearnsUnique int    // Unique items relearned
	LapsesCount    int    // Total failing reviews
	LapsesUnique   int    // Unique items that lapsed
}

// AggregateStatistics holds totals across all months with global unique counts
type AggregateStatistics struct {
	NewWordsCount  int
	NewWordsUnique int
	RelearnsCount  int
	RelearnsUnique int
	LapsesCount    int
	LapsesUnique   int
}

// Result holds both per-month and aggregate statistics
type Result struct {
	Periods   []MonthlyStatistics
	Aggregate AggregateStatistics
}

// periodData tracks counts per month
type periodData struct {
	newWordsTotal  int
	newWordsUnique map[string]struct{}
	relearnsTotal  int
	relearnsUnique map[string]struct{}
	lapsesTotal    int
	lapsesUnique   map[string]struct{}
}

// Calculate aggregates review events into monthly statistics. It accepts
// optional year and month filters (0 means no filter). A "new word" is
// an item's first passing review (rating 3 or higher); every later pass
// is a relearn. A lapse is a failing review (rating below 2). Hard
// passes at rating 2 keep the repetition streak alive but demonstrate no
// recall, so they count toward neither.
func Calculate(events []srs.ReviewEvent, year, month int) Result {
	byItem := make(map[string][]srs.ReviewEvent)
	for _, event := range events {
		byItem[event.ItemID] = append(byItem[event.ItemID], event)
	}

	stats := make(map[string]*periodData)
	// Track global unique items across all months
	globalNewWordsUnique := make(map[string]struct{})
	globalRelearnsUnique := make(map[string]struct{})
	globalLapsesUnique := make(map[string]struct{})

	for itemID, itemEvents := range byItem {
		processItem(itemID, itemEvents, year, month, stats, globalNewWordsUnique, globalRelearnsUnique, globalLapsesUnique)
	}

	return buildResult(stats, globalNewWordsUnique, globalRelearnsUnique, globalLapsesUnique)
}

// processItem walks one item's reviews oldest first
func processItem(
	itemID string,
	events []srs.ReviewEvent,
	year, month int,
	stats map[string]*periodData,
	globalNewWordsUnique, globalRelearnsUnique, globalLapsesUnique map[string]struct{},
) {
	// Storage order differs per backend, so sort instead of trusting it.
	sort.Slice(events, func(i, j int) bool {
		return events[i].ReviewedAt.Before(events[j].ReviewedAt)
	})

	foundFirstPass := false
	for _, event := range events {
		// Skip zero dates
		if event.ReviewedAt.IsZero() {
			continue
		}

		isPass := event.Rating >= 3
		isLapse := event.Rating < 2
		if !isPass && !isLapse {
			continue
		}

		eventYear := event.ReviewedAt.Year()
		eventMonth := int(event.ReviewedAt.Month())

		if !matchesFilter(eventYear, eventMonth, year, month) {
			// An out-of-filter pass still claims the first-pass slot,
			// so in-filter passes after it count as relearns.
			if isPass && !foundFirstPass {
				foundFirstPass = true
			}
			continue
		}

		period := fmt.Sprintf("%d-%02d", eventYear, eventMonth)
		ensurePeriodExists(stats, period)

		if isLapse {
			stats[period].lapsesTotal++
			stats[period].lapsesUnique[itemID] = struct{}{}
			globalLapsesUnique[itemID] = struct{}{}
			continue
		}

		if !foundFirstPass {
			foundFirstPass = true
			stats[period].newWordsTotal++
			stats[period].newWordsUnique[itemID] = struct{}{}
			globalNewWordsUnique[itemID] = struct{}{}
		} else {
			stats[period].relearnsTotal++
			stats[period].relearnsUnique[itemID] = struct{}{}
			globalRelearnsUnique[itemID] = struct{}{}
		}
	}
}

func ensurePeriodExists(stats map[string]*periodData, period string) {
	if stats[period] == nil {
		stats[period] = &periodData{
			newWordsUnique: make(map[string]struct{}),
			relearnsUnique: make(map[string]struct{}),
			lapsesUnique:   make(map[string]struct{}),
		}
	}
}

func matchesFilter(eventYear, eventMonth, filterYear, filterMonth int) bool {
	if filterYear == 0 {
		return true
	}
	if eventYear != filterYear {
		return false
	}
	if filterMonth == 0 {
		return true
	}
	return eventMonth == filterMonth
}

func buildResult(stats map[string]*periodData, globalNewWordsUnique, globalRelearnsUnique, globalLapsesUnique map[string]struct{}) Result {
	periods := make([]MonthlyStatistics, 0, len(stats))

	var totalNewWords, totalRelearns, totalLapses int
	for period, data := range stats {
		periods = append(periods, MonthlyStatistics{
			Period:         period,
			NewWordsCount:  data.newWordsTotal,
			NewWordsUnique: len(data.newWordsUnique),
			RelearnsCount:  data.relearnsTotal,
			RelearnsUnique: len(data.relearnsUnique),
			LapsesCount:    data.lapsesTotal,
			LapsesUnique:   len(data.lapsesUnique),
		})
		totalNewWords += data.newWordsTotal
		totalRelearns += data.relearnsTotal
		totalLapses += data.lapsesTotal
	}

	// Sort by period descending (newest first)
	sort.Slice(periods, func(i, j int) bool {
		return periods[i].Period > periods[j].Period
	})

	return Result{
		Periods: periods,
		Aggregate: AggregateStatistics{
			NewWordsCount:  totalNewWords,
			NewWordsUnique: len(globalNewWordsUnique),
			RelearnsCount:  totalRelearns,
			RelearnsUnique: len(globalRelearnsUnique),
			LapsesCount:    totalLapses,
			LapsesUnique:   len(globalLapsesUnique),
		},
	}
}
