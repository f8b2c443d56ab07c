package review

import "math"

// RetentionProbability estimates the odds the learner still remembers an
// item after the given number of days, using an exponential forgetting
// curve. A non-positive stability means no valid memory trace exists, so
// the probability is zero. Diagnostic only; the queue builder does not
// consume this.
func RetentionProbability(daysSinceLastReview float64, stability float64) float64 {
	if stability <= 0 {
		return 0
	}
	p := math.Exp(-daysSinceLastReview / stability)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
