package review

import "sort"

const (
	// minEventsForAnalysis is the history size below which the analyzer
	// returns a neutral profile instead of guessing at a trend.
	minEventsForAnalysis = 5

	// ratingTrendThreshold is the two-half mean score difference required
	// before a rating trend counts as improving or declining.
	ratingTrendThreshold = 0.3

	// latencyTrendThresholdMs is the two-half mean latency difference, in
	// milliseconds, required before a response time trend registers.
	latencyTrendThresholdMs = 500

	// lapseWindow is how many of the most recent events the lapse
	// frequency considers.
	lapseWindow = 10
)

// AnalyzePerformance derives a trend and retention profile from a learner's
// review history. The input may arrive in any order; a copy is sorted by
// occurrence time (stable, so equal timestamps keep their insertion order)
// before the halves are compared. Fewer than five events yield a neutral
// profile rather than an error.
func AnalyzePerformance(events []ReviewEvent) PerformanceProfile {
	if len(events) < minEventsForAnalysis {
		return PerformanceProfile{
			RatingTrend:            TrendStable,
			ResponseTimeTrend:      TrendStable,
			RetentionRate:          0.5,
			LapseFrequency:         0,
			TotalReviewsConsidered: len(events),
		}
	}

	sorted := make([]ReviewEvent, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].OccurredAt.Before(sorted[j].OccurredAt)
	})

	return PerformanceProfile{
		RatingTrend:              ratingTrend(sorted),
		ResponseTimeTrend:        responseTimeTrend(sorted),
		RetentionRate:            retentionRate(sorted),
		LapseFrequency:           lapseFrequency(sorted),
		TotalReviewsConsidered:   len(sorted),
		AverageResponseLatencyMs: averageLatency(sorted),
	}
}

func ratingTrend(sorted []ReviewEvent) Trend {
	scores := make([]float64, len(sorted))
	for i, ev := range sorted {
		scores[i] = float64(ev.Rating.Score())
	}
	first, second := halfMeans(scores)
	switch {
	case second > first+ratingTrendThreshold:
		return TrendImproving
	case second < first-ratingTrendThreshold:
		return TrendDeclining
	}
	return TrendStable
}

// responseTimeTrend compares the two halves of the latency series. The
// direction is inverted: falling latency means improving performance.
func responseTimeTrend(sorted []ReviewEvent) Trend {
	var latencies []float64
	for _, ev := range sorted {
		if ev.ResponseLatencyMs != nil {
			latencies = append(latencies, float64(*ev.ResponseLatencyMs))
		}
	}
	if len(latencies) < 2 {
		return TrendStable
	}
	first, second := halfMeans(latencies)
	switch {
	case second < first-latencyTrendThresholdMs:
		return TrendImproving
	case second > first+latencyTrendThresholdMs:
		return TrendDeclining
	}
	return TrendStable
}

func retentionRate(sorted []ReviewEvent) float64 {
	correct := 0
	for _, ev := range sorted {
		if ev.Rating.IsCorrect() {
			correct++
		}
	}
	return float64(correct) / float64(len(sorted))
}

// lapseFrequency is the share of hard ratings among the most recent events.
func lapseFrequency(sorted []ReviewEvent) float64 {
	recent := sorted
	if len(recent) > lapseWindow {
		recent = recent[len(recent)-lapseWindow:]
	}
	lapses := 0
	for _, ev := range recent {
		if ev.Rating == RatingHard {
			lapses++
		}
	}
	return float64(lapses) / float64(len(recent))
}

func averageLatency(sorted []ReviewEvent) *float64 {
	var sum float64
	count := 0
	for _, ev := range sorted {
		if ev.ResponseLatencyMs != nil {
			sum += float64(*ev.ResponseLatencyMs)
			count++
		}
	}
	if count == 0 {
		return nil
	}
	avg := sum / float64(count)
	return &avg
}

func halfMeans(values []float64) (first, second float64) {
	mid := len(values) / 2
	return mean(values[:mid]), mean(values[mid:])
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
