package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zafmy/sms-lms-v1-sub000/internal/cli"
	"github.com/zafmy/sms-lms-v1-sub000/internal/review"
)

func newReviewCommand() *cobra.Command {
	reviewCommand := &cobra.Command{
		Use:   "review",
		Short: "Review session commands",
	}

	reviewCommand.AddCommand(newReviewStartCommand())
	reviewCommand.AddCommand(newReviewQueueCommand())

	return reviewCommand
}

func newReviewStartCommand() *cobra.Command {
	var ownerID int64

	command := &cobra.Command{
		Use:   "start",
		Short: "Start an interactive review session for a learner",
		RunE: func(cmd *cobra.Command, args []string) error {
			if ownerID <= 0 {
				return fmt.Errorf("--owner must be a positive learner ID")
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := openDatabase(cfg)
			if err != nil {
				return err
			}
			defer func() {
				_ = db.Close()
			}()

			logger := newEngineLogger(cfg.Log.Level)
			orchestrator, cleanup, err := buildOrchestrator(cfg, db, logger)
			if err != nil {
				return err
			}
			defer cleanup()

			sessionCLI := cli.NewReviewSessionCLI(orchestrator, nil, ownerID)

			fmt.Println("Interactive review session started!")
			fmt.Println("Rate each item hard, ok or easy. Type 'quit' to exit.")
			fmt.Println()
			return sessionCLI.Run(cmd.Context(), sessionCLI)
		},
	}

	command.Flags().Int64Var(&ownerID, "owner", 0, "Learner ID (required)")

	return command
}

func newReviewQueueCommand() *cobra.Command {
	var ownerID int64
	var limit int

	command := &cobra.Command{
		Use:   "queue",
		Short: "Preview what the next session would queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			if ownerID <= 0 {
				return fmt.Errorf("--owner must be a positive learner ID")
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := openDatabase(cfg)
			if err != nil {
				return err
			}
			defer func() {
				_ = db.Close()
			}()

			if limit <= 0 {
				limit = cfg.Scheduler.MaxSessionSize
			}
			previewCLI := cli.NewQueuePreviewCLI(review.NewDBItemRepository(db))
			return previewCLI.Run(cmd.Context(), ownerID, limit)
		},
	}

	command.Flags().Int64Var(&ownerID, "owner", 0, "Learner ID (required)")
	command.Flags().IntVar(&limit, "limit", 0, "Queue size cap (defaults to scheduler.max_session_size)")

	return command
}
