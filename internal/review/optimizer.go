package review

import "math"

const (
	// MinIntervalDays and MaxIntervalDays bound any optimizer output.
	MinIntervalDays = 1
	MaxIntervalDays = 365

	highLapseThreshold = 0.4
	lowLapseThreshold  = 0.2
)

// ComputeOptimalInterval adjusts a baseline interval using the learner's
// performance profile. With fewer than five reviews considered it returns
// the base interval untouched with zero confidence; insufficient history is
// a modeled fallback, never an error.
func ComputeOptimalInterval(profile PerformanceProfile, baseIntervalDays int) IntervalAdjustment {
	if profile.TotalReviewsConsidered < minEventsForAnalysis {
		return IntervalAdjustment{
			AdjustedIntervalDays: baseIntervalDays,
			Confidence:           0,
			ReasonCode:           "insufficient data",
		}
	}

	multiplier := 1.0
	confidence := 0.5
	reason := "stable performance"

	switch {
	case profile.RatingTrend == TrendDeclining && profile.LapseFrequency >= highLapseThreshold:
		multiplier, confidence, reason = 0.65, 0.7, "declining, high lapse"
	case profile.RatingTrend == TrendDeclining:
		multiplier, confidence, reason = 0.8, 0.6, "declining, moderate lapse"
	case profile.RatingTrend == TrendImproving && profile.LapseFrequency < lowLapseThreshold:
		multiplier, confidence, reason = 1.25, 0.7, "improving, low lapse"
	case profile.RatingTrend == TrendImproving:
		multiplier, confidence, reason = 1.1, 0.5, "improving, moderate lapse"
	}

	adjusted := int(math.Round(float64(baseIntervalDays) * multiplier))
	if adjusted < MinIntervalDays {
		adjusted = MinIntervalDays
	}
	if adjusted > MaxIntervalDays {
		adjusted = MaxIntervalDays
	}

	return IntervalAdjustment{
		AdjustedIntervalDays: adjusted,
		Confidence:           confidence,
		ReasonCode:           reason,
	}
}
