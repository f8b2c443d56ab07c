// Package statistics aggregates review history into per-period reports.
package statistics

import (
	"fmt"
	"sort"

	"github.com/zafmy/sms-lms-v1-sub000/internal/review"
)

// PeriodStatistics holds review statistics for one month.
type PeriodStatistics struct {
	Period        string `yaml:"period"` // "2025-01"
	ReviewCount   int    `yaml:"review_count"`
	CorrectCount  int    `yaml:"correct_count"`
	LapseCount    int    `yaml:"lapse_count"`
	FirstLearns   int    `yaml:"first_learns"`   // first successful review of an item
	ItemsReviewed int    `yaml:"items_reviewed"` // unique items touched
	MasteryCount  int    `yaml:"mastery_count"`  // reviews that landed an item in the top box
}

// AggregateStatistics holds totals across all periods with global unique counts.
type AggregateStatistics struct {
	ReviewCount   int `yaml:"review_count"`
	CorrectCount  int `yaml:"correct_count"`
	LapseCount    int `yaml:"lapse_count"`
	FirstLearns   int `yaml:"first_learns"`
	ItemsReviewed int `yaml:"items_reviewed"` // deduplicated across periods
	MasteryCount  int `yaml:"mastery_count"`
}

// Result holds both per-period and aggregate statistics.
type Result struct {
	Periods   []PeriodStatistics  `yaml:"periods"`
	Aggregate AggregateStatistics `yaml:"aggregate"`
}

type periodData struct {
	reviews   int
	correct   int
	lapses    int
	first     int
	mastery   int
	itemsSeen map[int64]struct{}
}

// Calculate aggregates review events into monthly statistics. It accepts
// optional year and month filters (0 means no filter). A "first learn" is
// counted the first time an item receives a correct rating across its whole
// history, whether or not that event matches the filter.
func Calculate(events []review.ReviewEvent, year, month int) Result {
	sorted := make([]review.ReviewEvent, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].OccurredAt.Before(sorted[j].OccurredAt)
	})

	stats := make(map[string]*periodData)
	globalItems := make(map[int64]struct{})
	learnedItems := make(map[int64]struct{})
	var totals AggregateStatistics

	for _, event := range sorted {
		firstLearn := false
		if event.Rating.IsCorrect() {
			if _, seen := learnedItems[event.ItemID]; !seen {
				learnedItems[event.ItemID] = struct{}{}
				firstLearn = true
			}
		}

		if event.OccurredAt.IsZero() {
			continue
		}
		eventYear := event.OccurredAt.Year()
		eventMonth := int(event.OccurredAt.Month())
		if !matchesFilter(eventYear, eventMonth, year, month) {
			continue
		}

		period := fmt.Sprintf("%d-%02d", eventYear, eventMonth)
		data := stats[period]
		if data == nil {
			data = &periodData{itemsSeen: make(map[int64]struct{})}
			stats[period] = data
		}

		data.reviews++
		totals.ReviewCount++
		data.itemsSeen[event.ItemID] = struct{}{}
		globalItems[event.ItemID] = struct{}{}

		if event.Rating.IsCorrect() {
			data.correct++
			totals.CorrectCount++
		} else {
			data.lapses++
			totals.LapseCount++
		}
		if firstLearn {
			data.first++
			totals.FirstLearns++
		}
		if event.NewBox == review.MaxBox && event.PreviousBox < review.MaxBox {
			data.mastery++
			totals.MasteryCount++
		}
	}

	return buildResult(stats, globalItems, totals)
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

func buildResult(stats map[string]*periodData, globalItems map[int64]struct{}, totals AggregateStatistics) Result {
	periods := make([]PeriodStatistics, 0, len(stats))
	for period, data := range stats {
		periods = append(periods, PeriodStatistics{
			Period:        period,
			ReviewCount:   data.reviews,
			CorrectCount:  data.correct,
			LapseCount:    data.lapses,
			FirstLearns:   data.first,
			ItemsReviewed: len(data.itemsSeen),
			MasteryCount:  data.mastery,
		})
	}

	// Sort by period descending (newest first)
	sort.Slice(periods, func(i, j int) bool {
		return periods[i].Period > periods[j].Period
	})

	totals.ItemsReviewed = len(globalItems)
	return Result{Periods: periods, Aggregate: totals}
}
