package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/zafmy/sms-lms-v1-sub000/internal/review"
)

type StartingBox int

func (b *StartingBox) Set(val string) error {
	box, err := strconv.Atoi(val)
	if err != nil || box < review.MinBox || box > review.MaxBox {
		return fmt.Errorf("invalid box: %s", val)
	}
	*b = StartingBox(box)
	return nil
}

func (b StartingBox) String() string {
	return strconv.Itoa(int(b))
}

func (b *StartingBox) Type() string {
	return "StartingBox"
}

var _ pflag.Value = (*StartingBox)(nil)

func newItemCommand() *cobra.Command {
	itemCommand := &cobra.Command{
		Use:   "item",
		Short: "Manage reviewable items",
	}

	itemCommand.AddCommand(newItemAddCommand())
	itemCommand.AddCommand(newItemDeactivateCommand())
	itemCommand.AddCommand(newItemReactivateCommand())

	return itemCommand
}

func newItemAddCommand() *cobra.Command {
	var ownerID int64
	box := StartingBox(review.MinBox)

	command := &cobra.Command{
		Use:   "add",
		Short: "Register a new item for a learner",
		RunE: func(cmd *cobra.Command, args []string) error {
			if ownerID <= 0 {
				return fmt.Errorf("--owner must be a positive learner ID")
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			anchor, err := cfg.Scheduler.AnchorDay()
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

			now := time.Now()
			item := &review.ReviewItem{
				OwnerID:     ownerID,
				MasteryBox:  int(box),
				NextDueDate: review.NextDueDate(int(box), now, anchor),
				IsActive:    true,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			if err := review.NewDBItemRepository(db).Create(cmd.Context(), item); err != nil {
				return fmt.Errorf("items.Create() > %w", err)
			}

			fmt.Printf("Created item %d, first review on %s.\n",
				item.ID, item.NextDueDate.Format("2006-01-02"))
			return nil
		},
	}

	command.Flags().Int64Var(&ownerID, "owner", 0, "Learner ID (required)")
	command.Flags().Var(&box, "box", fmt.Sprintf("Initial mastery box (%d-%d)", review.MinBox, review.MaxBox))

	return command
}

func newItemDeactivateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "deactivate <item-id>",
		Short: "Exclude an item from queue selection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			itemID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid item ID %q: %w", args[0], err)
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

			if err := review.NewDBItemRepository(db).Deactivate(cmd.Context(), itemID); err != nil {
				return fmt.Errorf("items.Deactivate(%d) > %w", itemID, err)
			}
			fmt.Printf("Deactivated item %d.\n", itemID)
			return nil
		},
	}
}

func newItemReactivateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reactivate <item-id>",
		Short: "Return a deactivated item to queue selection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			itemID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid item ID %q: %w", args[0], err)
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			anchor, err := cfg.Scheduler.AnchorDay()
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

			items := review.NewDBItemRepository(db)
			if _, err := items.FindByID(cmd.Context(), itemID); err != nil {
				return fmt.Errorf("items.FindByID(%d) > %w", itemID, err)
			}

			// Reactivation starts the item over from box 1.
			now := time.Now()
			nextDue := review.NextDueDate(review.MinBox, now, anchor)
			if err := items.Reactivate(cmd.Context(), itemID, now, nextDue); err != nil {
				return fmt.Errorf("items.Reactivate(%d) > %w", itemID, err)
			}
			fmt.Printf("Reactivated item %d, next review on %s.\n",
				itemID, nextDue.Format("2006-01-02"))
			return nil
		},
	}
}
