// Package notification delivers best-effort mastery notifications to an
// external webhook after a review transaction commits.
package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"resty.dev/v3"

	"github.com/zafmy/sms-lms-v1-sub000/internal/review"
)

// MasteryEvent is the payload sent when an item first reaches the top box.
type MasteryEvent struct {
	OwnerID    int64     `json:"owner_id"`
	ItemID     int64     `json:"item_id"`
	MasteryBox int       `json:"mastery_box"`
	XPAwarded  int       `json:"xp_awarded"`
	OccurredAt time.Time `json:"occurred_at"`
}

// WebhookNotifier posts mastery events to a configured endpoint. Delivery
// is at-most-once: a failed post is reported to the orchestrator, which
// logs and discards it.
type WebhookNotifier struct {
	httpClient *resty.Client
	logger     *logrus.Logger
}

// NewWebhookNotifier creates a notifier for the given webhook endpoint.
// A zero timeout falls back to 10 seconds.
func NewWebhookNotifier(endpoint, token string, timeout time.Duration, logger *logrus.Logger) *WebhookNotifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	client := resty.New()
	client.SetBaseURL(endpoint)
	client.SetHeader("Content-Type", "application/json")
	if token != "" {
		client.SetHeader("Authorization", "Bearer "+token)
	}
	client.SetTimeout(timeout)

	return &WebhookNotifier{
		httpClient: client,
		logger:     logger,
	}
}

// Close releases the underlying HTTP client.
func (n *WebhookNotifier) Close() error {
	return n.httpClient.Close()
}

// Name implements review.Hook.
func (n *WebhookNotifier) Name() string {
	return "mastery-notification"
}

// AfterReview implements review.Hook. Only reviews that newly reach the top
// box produce a notification.
func (n *WebhookNotifier) AfterReview(ctx context.Context, result review.SubmitResult) error {
	if !result.ReachedMastery {
		return nil
	}

	event := MasteryEvent{
		OwnerID:    result.OwnerID,
		ItemID:     result.ItemID,
		MasteryBox: result.NewBox,
		XPAwarded:  result.XPAwarded,
		OccurredAt: time.Now(),
	}
	n.logger.WithFields(logrus.Fields{
		"owner": event.OwnerID,
		"item":  event.ItemID,
	}).Debug("sending mastery notification")

	response, err := n.httpClient.R().
		SetContext(ctx).
		SetBody(event).
		Post("")
	if err != nil {
		return fmt.Errorf("httpClient.Post() > %w", err)
	}
	if response.IsError() {
		return fmt.Errorf("mastery webhook returned status %d", response.StatusCode())
	}
	return nil
}
