package review

import (
	"sort"
	"time"
)

// BuildQueue selects and orders a bounded review session from a learner's
// active items.
//
// Items are partitioned by comparing the calendar day of their due date to
// today: overdue items come first (oldest due date first), then items due
// today (weakest box first), then never-reviewed items scheduled for the
// future (earliest first). Future-dated items that have already been
// reviewed are excluded entirely. This ordering guarantees overdue items
// are never starved by due or new material.
func BuildQueue(items []ReviewItem, maxSize int, today time.Time) []ReviewItem {
	if maxSize <= 0 {
		maxSize = DefaultMaxSessionSize
	}
	day := truncateToDay(today)

	var overdue, dueToday, fresh []ReviewItem
	for _, item := range items {
		if !item.IsActive {
			continue
		}
		itemDay := truncateToDay(item.NextDueDate)
		switch {
		case itemDay.Before(day):
			overdue = append(overdue, item)
		case itemDay.Equal(day):
			dueToday = append(dueToday, item)
		case item.TotalReviewCount == 0:
			fresh = append(fresh, item)
		}
	}

	sort.SliceStable(overdue, func(i, j int) bool {
		return overdue[i].NextDueDate.Before(overdue[j].NextDueDate)
	})
	sort.SliceStable(dueToday, func(i, j int) bool {
		return dueToday[i].MasteryBox < dueToday[j].MasteryBox
	})
	sort.SliceStable(fresh, func(i, j int) bool {
		return fresh[i].NextDueDate.Before(fresh[j].NextDueDate)
	})

	queue := make([]ReviewItem, 0, len(overdue)+len(dueToday)+len(fresh))
	queue = append(queue, overdue...)
	queue = append(queue, dueToday...)
	queue = append(queue, fresh...)
	if len(queue) > maxSize {
		queue = queue[:maxSize]
	}
	return queue
}
