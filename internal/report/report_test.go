package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/zafmy/sms-lms-v1-sub000/internal/review"
)

func historyEvents(ratings []review.Rating, start time.Time) []review.ReviewEvent {
	events := make([]review.ReviewEvent, 0, len(ratings))
	for i, rating := range ratings {
		events = append(events, review.ReviewEvent{
			ItemID:     int64(i%3 + 1),
			OwnerID:    42,
			Rating:     rating,
			NewBox:     2,
			OccurredAt: start.AddDate(0, 0, i),
		})
	}
	return events
}

func TestBuild(t *testing.T) {
	now := time.Date(2025, time.June, 1, 10, 0, 0, 0, time.UTC)
	start := time.Date(2025, time.May, 1, 10, 0, 0, 0, time.UTC)

	t.Run("improving history extends the interval", func(t *testing.T) {
		ratings := []review.Rating{
			review.RatingHard, review.RatingHard, review.RatingOK,
			review.RatingOK, review.RatingEasy, review.RatingEasy,
			review.RatingEasy, review.RatingEasy, review.RatingEasy,
			review.RatingEasy, review.RatingEasy, review.RatingEasy,
		}
		got := Build(42, historyEvents(ratings, start), 10, now)

		assert.Equal(t, int64(42), got.OwnerID)
		assert.Equal(t, review.TrendImproving, got.Profile.RatingTrend)
		assert.Greater(t, got.Adjustment.AdjustedIntervalDays, 10)
		assert.Equal(t, 12, got.Statistics.Aggregate.ReviewCount)
	})

	t.Run("short history stays neutral", func(t *testing.T) {
		got := Build(42, historyEvents([]review.Rating{review.RatingOK}, start), 10, now)

		assert.Equal(t, review.TrendStable, got.Profile.RatingTrend)
		assert.Equal(t, 10, got.Adjustment.AdjustedIntervalDays)
		assert.False(t, got.HasLatency)
	})
}

func TestRenderMarkdown(t *testing.T) {
	now := time.Date(2025, time.June, 1, 10, 0, 0, 0, time.UTC)
	start := time.Date(2025, time.May, 1, 10, 0, 0, 0, time.UTC)
	ratings := []review.Rating{
		review.RatingOK, review.RatingOK, review.RatingOK,
		review.RatingOK, review.RatingOK, review.RatingOK,
	}
	data := Build(42, historyEvents(ratings, start), 10, now)

	got, err := RenderMarkdown(data, "")

	require.NoError(t, err)
	rendered := string(got)
	assert.Contains(t, rendered, "# Review Report for Learner 42")
	assert.Contains(t, rendered, "Generated at 2025-06-01")
	assert.Contains(t, rendered, "Rating trend: stable")
	assert.Contains(t, rendered, "| 2025-05 | 6 | 6 | 0 | 3 | 3 | 0 |")
	assert.NotContains(t, rendered, "Average response latency")
}

func TestRenderMarkdown_CustomTemplate(t *testing.T) {
	tmpDir := t.TempDir()
	templatePath := filepath.Join(tmpDir, "custom.md.go.tmpl")
	require.NoError(t, os.WriteFile(templatePath, []byte("Owner {{ .OwnerID }} only"), 0644))

	data := Data{OwnerID: 7}
	got, err := RenderMarkdown(data, templatePath)

	require.NoError(t, err)
	assert.Equal(t, "Owner 7 only", string(got))
}

func TestMarshalYAML(t *testing.T) {
	now := time.Date(2025, time.June, 1, 10, 0, 0, 0, time.UTC)
	start := time.Date(2025, time.May, 1, 10, 0, 0, 0, time.UTC)
	ratings := []review.Rating{
		review.RatingOK, review.RatingOK, review.RatingOK,
		review.RatingOK, review.RatingOK, review.RatingOK,
	}
	data := Build(42, historyEvents(ratings, start), 10, now)

	contents, err := MarshalYAML(data)

	require.NoError(t, err)
	var decoded Export
	require.NoError(t, yaml.Unmarshal(contents, &decoded))
	assert.Equal(t, int64(42), decoded.OwnerID)
	assert.Equal(t, review.TrendStable, decoded.RatingTrend)
	assert.Equal(t, 10, decoded.BaseIntervalDays)
	assert.InDelta(t, 1.0, decoded.RetentionRate, 0.001)
	require.Len(t, decoded.Statistics.Periods, 1)
	assert.Equal(t, "2025-05", decoded.Statistics.Periods[0].Period)
	assert.True(t, strings.Contains(string(contents), "owner_id: 42"))
}
