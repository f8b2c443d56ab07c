// Package review implements the spaced repetition scheduling engine: the
// Leitner-box promotion model, weekend-aligned due dates, session queue
// construction, performance trend analysis with adaptive interval
// optimization, and the transactional submit-review contract.
package review

import "time"

const (
	// MinBox is the weakest mastery box. Items reset here after a hard rating.
	MinBox = 1
	// MaxBox is the mastered box.
	MaxBox = 5

	// DefaultEasinessFactor is assigned to items with no recorded easiness.
	DefaultEasinessFactor = 2.5
	// MinEasinessFactor is the floor below which easiness never drops.
	MinEasinessFactor = 1.3

	// EasyJumpThreshold is the easiness at or above which an easy rating
	// jumps two boxes instead of one. Product-tuned, do not re-derive.
	EasyJumpThreshold = 2.5

	// DefaultMaxSessionSize caps how many items a single sitting queues.
	DefaultMaxSessionSize = 15
)

// ReviewItem is one learner-owned reviewable concept and its mastery state.
type ReviewItem struct {
	ID                 int64     `db:"id"`
	OwnerID            int64     `db:"owner_id"`
	MasteryBox         int       `db:"mastery_box"`
	EasinessFactor     float64   `db:"easiness_factor"`
	ConsecutiveCorrect int       `db:"consecutive_correct"`
	NextDueDate        time.Time `db:"next_due_date"`
	TotalReviewCount   int       `db:"total_review_count"`
	IsActive           bool      `db:"is_active"`
	CreatedAt          time.Time `db:"created_at"`
	UpdatedAt          time.Time `db:"updated_at"`
}

// ReviewEvent is one append-only history record. Rows are never mutated.
type ReviewEvent struct {
	ID                int64     `db:"id"`
	ItemID            int64     `db:"item_id"`
	OwnerID           int64     `db:"owner_id"`
	SessionID         int64     `db:"session_id"`
	Rating            Rating    `db:"rating"`
	PreviousBox       int       `db:"previous_box"`
	NewBox            int       `db:"new_box"`
	PreviousEasiness  float64   `db:"previous_easiness"`
	NewEasiness       float64   `db:"new_easiness"`
	ResponseLatencyMs *int64    `db:"response_latency_ms"`
	OccurredAt        time.Time `db:"occurred_at"`
	CreatedAt         time.Time `db:"created_at"`
}

// ReviewSession aggregates one study sitting. Counters only ever increase.
type ReviewSession struct {
	ID               int64      `db:"id"`
	OwnerID          int64      `db:"owner_id"`
	TotalItemsQueued int        `db:"total_items_queued"`
	CorrectCount     int        `db:"correct_count"`
	XPAccrued        int        `db:"xp_accrued"`
	StartedAt        time.Time  `db:"started_at"`
	CompletedAt      *time.Time `db:"completed_at"`
}

// Trend classifies the direction of a learner's recent performance.
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendStable    Trend = "stable"
	TrendDeclining Trend = "declining"
)

// PerformanceProfile is derived from a learner's review history. Not persisted.
type PerformanceProfile struct {
	RatingTrend              Trend
	ResponseTimeTrend        Trend
	RetentionRate            float64
	LapseFrequency           float64
	TotalReviewsConsidered   int
	AverageResponseLatencyMs *float64
}

// IntervalAdjustment is the optimizer's verdict on a baseline interval.
type IntervalAdjustment struct {
	AdjustedIntervalDays int
	Confidence           float64
	ReasonCode           string
}
