package review

import (
	"math"
	"time"
)

// DefaultAnchorDay aligns all due dates to Saturdays so reviews land on the
// weekend regardless of when the learner actually studied.
const DefaultAnchorDay = time.Saturday

// boxWeekOffsets maps a mastery box to whole weeks added past the next
// anchor day: reviews land on the 1st/2nd/4th/8th/24th anchor occurrence.
// Product-tuned, do not re-derive.
var boxWeekOffsets = [MaxBox + 1]int{0, 0, 1, 3, 7, 23}

// NextDueDate returns the next review date for a mastery box, aligned to the
// given weekly anchor day. The result is always strictly after reference: a
// reference that already falls on the anchor day skips to the following week.
func NextDueDate(masteryBox int, reference time.Time, anchor time.Weekday) time.Time {
	due := truncateToDay(reference).AddDate(0, 0, 1)
	for due.Weekday() != anchor {
		due = due.AddDate(0, 0, 1)
	}
	return due.AddDate(0, 0, 7*boxWeekOffsets[clampBox(masteryBox)])
}

// truncateToDay drops the clock portion, keeping the calendar day and location.
func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// daysBetween counts calendar days from one day to another. Rounding keeps
// the count whole across daylight-saving transitions, where a local day is
// 23 or 25 hours long.
func daysBetween(from, to time.Time) int {
	return int(math.Round(truncateToDay(to).Sub(truncateToDay(from)).Hours() / 24))
}

// SameCalendarDay reports whether two instants fall on the same calendar day.
func SameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
