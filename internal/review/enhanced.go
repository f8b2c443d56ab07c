package review

import "time"

// EnhancedDueDate is the outcome of the adaptive due date computation.
type EnhancedDueDate struct {
	Date        time.Time
	Confidence  float64
	WasAdjusted bool
}

// ComputeEnhancedDueDate runs the performance analyzer and interval
// optimizer to adaptively shorten or lengthen a baseline interval. When the
// optimizer has no confidence (insufficient history) the base interval is
// applied unchanged; a learner with no history always gets a schedule, never
// an error. The input base date is never mutated.
func ComputeEnhancedDueDate(baseDate time.Time, history []ReviewEvent, baseIntervalDays int) EnhancedDueDate {
	profile := AnalyzePerformance(history)
	adjustment := ComputeOptimalInterval(profile, baseIntervalDays)

	if adjustment.Confidence == 0 {
		return EnhancedDueDate{
			Date:        baseDate.AddDate(0, 0, baseIntervalDays),
			Confidence:  0,
			WasAdjusted: false,
		}
	}
	return EnhancedDueDate{
		Date:        baseDate.AddDate(0, 0, adjustment.AdjustedIntervalDays),
		Confidence:  adjustment.Confidence,
		WasAdjusted: true,
	}
}
