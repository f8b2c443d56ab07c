// Package report renders learner review reports from history snapshots.
package report

import (
	"bytes"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/zafmy/sms-lms-v1-sub000/internal/assets"
	"github.com/zafmy/sms-lms-v1-sub000/internal/review"
	"github.com/zafmy/sms-lms-v1-sub000/internal/statistics"
)

// Data is everything a learner report template needs.
type Data struct {
	OwnerID          int64
	GeneratedAt      time.Time
	Profile          review.PerformanceProfile
	RetentionPercent float64
	LapsePercent     float64
	HasLatency       bool
	AverageLatencyMs float64
	BaseIntervalDays int
	Adjustment       review.IntervalAdjustment
	Statistics       statistics.Result
}

// Export is the YAML shape of a learner report.
type Export struct {
	OwnerID          int64             `yaml:"owner_id"`
	GeneratedAt      time.Time         `yaml:"generated_at"`
	RatingTrend      review.Trend      `yaml:"rating_trend"`
	ResponseTrend    review.Trend      `yaml:"response_time_trend"`
	RetentionRate    float64           `yaml:"retention_rate"`
	LapseFrequency   float64           `yaml:"lapse_frequency"`
	BaseIntervalDays int               `yaml:"base_interval_days"`
	AdjustedInterval int               `yaml:"adjusted_interval_days"`
	ReasonCode       string            `yaml:"reason_code"`
	Confidence       float64           `yaml:"confidence"`
	Statistics       statistics.Result `yaml:"statistics"`
}

// Build derives report data for one learner from their review history.
// baseIntervalDays is the span the optimizer should treat as the baseline.
func Build(ownerID int64, events []review.ReviewEvent, baseIntervalDays int, now time.Time) Data {
	profile := review.AnalyzePerformance(events)
	adjustment := review.ComputeOptimalInterval(profile, baseIntervalDays)

	data := Data{
		OwnerID:          ownerID,
		GeneratedAt:      now,
		Profile:          profile,
		RetentionPercent: profile.RetentionRate * 100,
		LapsePercent:     profile.LapseFrequency * 100,
		BaseIntervalDays: baseIntervalDays,
		Adjustment:       adjustment,
		Statistics:       statistics.Calculate(events, 0, 0),
	}
	if profile.AverageResponseLatencyMs != nil {
		data.HasLatency = true
		data.AverageLatencyMs = *profile.AverageResponseLatencyMs
	}
	return data
}

// RenderMarkdown renders the report with the learner report template.
// templatePath may be empty to use the embedded template.
func RenderMarkdown(data Data, templatePath string) ([]byte, error) {
	tmpl, err := assets.ParseLearnerReportTemplate(templatePath)
	if err != nil {
		return nil, fmt.Errorf("assets.ParseLearnerReportTemplate() > %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("tmpl.Execute() > %w", err)
	}
	return buf.Bytes(), nil
}

// MarshalYAML serializes the report for machine consumption.
func MarshalYAML(data Data) ([]byte, error) {
	export := Export{
		OwnerID:          data.OwnerID,
		GeneratedAt:      data.GeneratedAt,
		RatingTrend:      data.Profile.RatingTrend,
		ResponseTrend:    data.Profile.ResponseTimeTrend,
		RetentionRate:    data.Profile.RetentionRate,
		LapseFrequency:   data.Profile.LapseFrequency,
		BaseIntervalDays: data.BaseIntervalDays,
		AdjustedInterval: data.Adjustment.AdjustedIntervalDays,
		ReasonCode:       data.Adjustment.ReasonCode,
		Confidence:       data.Adjustment.Confidence,
		Statistics:       data.Statistics,
	}

	contents, err := yaml.Marshal(export)
	if err != nil {
		return nil, fmt.Errorf("yaml.Marshal() > %w", err)
	}
	return contents, nil
}
