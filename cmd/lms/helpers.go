package main

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/zafmy/sms-lms-v1-sub000/internal/config"
	"github.com/zafmy/sms-lms-v1-sub000/internal/database"
	"github.com/zafmy/sms-lms-v1-sub000/internal/gamification"
	"github.com/zafmy/sms-lms-v1-sub000/internal/notification"
	"github.com/zafmy/sms-lms-v1-sub000/internal/review"
)

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

func openDatabase(cfg *config.Config) (*sqlx.DB, error) {
	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("database.Open() > %w", err)
	}
	return db, nil
}

func newEngineLogger(level string) *logrus.Logger {
	logger := logrus.New()
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logger.SetLevel(parsed)
	return logger
}

// buildOrchestrator wires the review engine with the XP and notification
// hooks. The returned cleanup closes hook resources and must run after the
// last submission.
func buildOrchestrator(cfg *config.Config, db *sqlx.DB, logger *logrus.Logger) (*review.Orchestrator, func(), error) {
	anchor, err := cfg.Scheduler.AnchorDay()
	if err != nil {
		return nil, nil, fmt.Errorf("cfg.Scheduler.AnchorDay() > %w", err)
	}

	orchestrator := review.NewOrchestrator(db, logger, anchor, cfg.Scheduler.MaxSessionSize, gamification.XPForReview)
	orchestrator.AddHook(gamification.NewAwarder(gamification.NewDBLedger(db), logger))

	cleanup := func() {}
	if cfg.Notifications.WebhookURL != "" {
		notifier := notification.NewWebhookNotifier(
			cfg.Notifications.WebhookURL,
			cfg.Notifications.WebhookToken,
			cfg.Notifications.Timeout,
			logger,
		)
		orchestrator.AddHook(notifier)
		cleanup = func() {
			_ = notifier.Close()
		}
	}
	return orchestrator, cleanup, nil
}
