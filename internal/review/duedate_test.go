package review

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDaysBetween(t *testing.T) {
	newYork, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	tests := []struct {
		name string
		from time.Time
		to   time.Time
		want int
	}{
		{
			name: "same day",
			from: time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC),
			to:   time.Date(2025, 1, 15, 23, 0, 0, 0, time.UTC),
			want: 0,
		},
		{
			name: "one week",
			from: time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
			to:   time.Date(2025, 1, 22, 0, 0, 0, 0, time.UTC),
			want: 7,
		},
		{
			// 2026-03-08 is a spring-forward Sunday, a 23-hour day.
			name: "window spanning a spring-forward transition",
			from: time.Date(2026, 3, 4, 10, 0, 0, 0, newYork),
			to:   time.Date(2026, 3, 14, 0, 0, 0, 0, newYork),
			want: 10,
		},
		{
			// 2026-11-01 is a fall-back Sunday, a 25-hour day.
			name: "window spanning a fall-back transition",
			from: time.Date(2026, 10, 28, 10, 0, 0, 0, newYork),
			to:   time.Date(2026, 11, 4, 0, 0, 0, 0, newYork),
			want: 7,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, daysBetween(tt.from, tt.to))
		})
	}
}

func TestNextDueDate(t *testing.T) {
	// 2025-01-04 is a Saturday.
	saturday := time.Date(2025, 1, 4, 15, 30, 0, 0, time.UTC)
	wednesday := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		box       int
		reference time.Time
		anchor    time.Weekday
		want      time.Time
	}{
		{
			name: "box 1 from a weekday lands on the next saturday",
			box:  1, reference: wednesday, anchor: time.Saturday,
			want: time.Date(2025, 1, 4, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "box 1 from the anchor day skips to the following week",
			box:  1, reference: saturday, anchor: time.Saturday,
			want: time.Date(2025, 1, 11, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "box 2 adds one week past the anchor",
			box:  2, reference: wednesday, anchor: time.Saturday,
			want: time.Date(2025, 1, 11, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "box 3 adds three weeks past the anchor",
			box:  3, reference: wednesday, anchor: time.Saturday,
			want: time.Date(2025, 1, 25, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "box 4 adds seven weeks past the anchor",
			box:  4, reference: wednesday, anchor: time.Saturday,
			want: time.Date(2025, 2, 22, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "box 5 adds twenty-three weeks past the anchor",
			box:  5, reference: wednesday, anchor: time.Saturday,
			want: time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "sunday anchor",
			box:  1, reference: wednesday, anchor: time.Sunday,
			want: time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "out of range box behaves like box 5",
			box:  12, reference: wednesday, anchor: time.Saturday,
			want: time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextDueDate(tt.box, tt.reference, tt.anchor)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNextDueDate_NeverSameDay(t *testing.T) {
	// Walk a full week of reference days; the result is always strictly later.
	for dayOffset := 0; dayOffset < 7; dayOffset++ {
		reference := time.Date(2025, 3, 2, 12, 0, 0, 0, time.UTC).AddDate(0, 0, dayOffset)
		got := NextDueDate(1, reference, time.Saturday)
		assert.False(t, SameCalendarDay(got, reference))
		assert.True(t, got.After(reference.Add(-24*time.Hour)))
		assert.Equal(t, time.Saturday, got.Weekday())
	}
}

func TestNextDueDate_AnchorDayReferenceIsSevenDaysLater(t *testing.T) {
	// 2025-06-07 is a Saturday.
	anchorDay := time.Date(2025, 6, 7, 8, 0, 0, 0, time.UTC)
	got := NextDueDate(1, anchorDay, time.Saturday)
	assert.Equal(t, time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC), got)
}
