package review

import "math"

// Promotion is the next mastery state computed from a single rating.
type Promotion struct {
	NewBox                int
	NewEasiness           float64
	NewConsecutiveCorrect int
}

// PromoteBox applies one rating to the Leitner-box state machine.
//
// A hard rating is deliberately punitive: it resets the item all the way to
// box 1, not one step down. An ok rating only promotes once a streak of two
// has built up. An easy rating jumps two boxes when the easiness factor is
// at least EasyJumpThreshold, otherwise one. The returned box always stays
// within [MinBox, MaxBox] and the easiness never drops below
// MinEasinessFactor, regardless of the inputs.
func PromoteBox(currentBox int, rating Rating, consecutiveCorrect int, easiness float64) Promotion {
	box := clampBox(currentBox)
	if easiness == 0 {
		easiness = DefaultEasinessFactor
	}
	if consecutiveCorrect < 0 {
		consecutiveCorrect = 0
	}

	switch rating {
	case RatingHard:
		return Promotion{
			NewBox:                MinBox,
			NewEasiness:           math.Max(MinEasinessFactor, easiness-0.3),
			NewConsecutiveCorrect: 0,
		}

	case RatingEasy:
		jump := 1
		if easiness >= EasyJumpThreshold {
			jump = 2
		}
		return Promotion{
			NewBox:                clampBox(box + jump),
			NewEasiness:           easiness + 0.15,
			NewConsecutiveCorrect: 0,
		}

	default: // RatingOK
		streak := consecutiveCorrect + 1
		if streak >= 2 {
			// Promotion consumes the streak.
			box = clampBox(box + 1)
			streak = 0
		}
		return Promotion{
			NewBox:                box,
			NewEasiness:           math.Max(MinEasinessFactor, easiness-0.1),
			NewConsecutiveCorrect: streak,
		}
	}
}

func clampBox(box int) int {
	if box < MinBox {
		return MinBox
	}
	if box > MaxBox {
		return MaxBox
	}
	return box
}
