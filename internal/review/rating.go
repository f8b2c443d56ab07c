package review

import "fmt"

// Rating represents a learner's self-assessment of a single review.
type Rating string

const (
	RatingHard Rating = "hard"
	RatingOK   Rating = "ok"
	RatingEasy Rating = "easy"
)

// ParseRating converts a raw string into a Rating.
// Unknown values are rejected so invalid input never reaches the scheduling logic.
func ParseRating(s string) (Rating, error) {
	switch Rating(s) {
	case RatingHard, RatingOK, RatingEasy:
		return Rating(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidRating, s)
}

// Score maps a rating to its numeric performance score.
func (r Rating) Score() int {
	switch r {
	case RatingHard:
		return 1
	case RatingOK:
		return 2
	case RatingEasy:
		return 3
	}
	return 0
}

// IsCorrect reports whether the rating counts as a successful recall.
func (r Rating) IsCorrect() bool {
	return r == RatingOK || r == RatingEasy
}
