// Package gamification converts review outcomes into experience points and
// forwards them to the XP ledger after the scheduling transaction commits.
package gamification

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/zafmy/sms-lms-v1-sub000/internal/review"
)

const (
	xpHard = 1
	xpOK   = 3
	xpEasy = 5

	// masteryBonus rewards the review that first lands an item in box 5.
	masteryBonus = 2
)

// XPForReview computes the experience points a single review is worth. The
// scheduling engine stores the number on the session; everything else about
// XP (levels, badges) lives outside this engine.
func XPForReview(rating review.Rating, previousBox, newBox int) int {
	xp := 0
	switch rating {
	case review.RatingHard:
		xp = xpHard
	case review.RatingOK:
		xp = xpOK
	case review.RatingEasy:
		xp = xpEasy
	}
	if newBox == review.MaxBox && previousBox < review.MaxBox {
		xp += masteryBonus
	}
	return xp
}

// Ledger receives awarded experience points.
type Ledger interface {
	AwardXP(ctx context.Context, ownerID int64, amount int) error
}

// Awarder is a post-commit hook that pushes awarded XP to the ledger.
// Failures are the orchestrator's to log and discard.
type Awarder struct {
	ledger Ledger
	logger *logrus.Logger
}

// NewAwarder creates an Awarder.
func NewAwarder(ledger Ledger, logger *logrus.Logger) *Awarder {
	return &Awarder{ledger: ledger, logger: logger}
}

// Name implements review.Hook.
func (a *Awarder) Name() string {
	return "xp-award"
}

// AfterReview implements review.Hook.
func (a *Awarder) AfterReview(ctx context.Context, result review.SubmitResult) error {
	if result.XPAwarded == 0 {
		return nil
	}
	a.logger.WithFields(logrus.Fields{
		"owner": result.OwnerID,
		"xp":    result.XPAwarded,
	}).Debug("awarding review XP")
	return a.ledger.AwardXP(ctx, result.OwnerID, result.XPAwarded)
}
