package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"

	"github.com/zafmy/sms-lms-v1-sub000/internal/review"
)

// QueuePreviewCLI prints what a session would queue without opening one.
type QueuePreviewCLI struct {
	items        review.ItemRepository
	stdoutWriter io.Writer
	nowFunc      func() time.Time
}

// NewQueuePreviewCLI creates a new queue preview CLI
func NewQueuePreviewCLI(items review.ItemRepository) *QueuePreviewCLI {
	return &QueuePreviewCLI{
		items:        items,
		stdoutWriter: os.Stdout,
		nowFunc:      time.Now,
	}
}

func (q *QueuePreviewCLI) Run(ctx context.Context, ownerID int64, maxSize int) error {
	active, err := q.items.FindActiveByOwner(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("items.FindActiveByOwner(%d) > %w", ownerID, err)
	}

	now := q.nowFunc()
	queue := review.BuildQueue(active, maxSize, now)
	if len(queue) == 0 {
		fmt.Fprintln(q.stdoutWriter, "Nothing is due today.")
		return nil
	}

	red := color.New(color.FgRed)
	green := color.New(color.FgGreen)
	cyan := color.New(color.FgCyan)

	fmt.Fprintf(q.stdoutWriter, "Next session queues %d of %d active items:\n", len(queue), len(active))
	for i, item := range queue {
		label := categorize(item, now)
		line := fmt.Sprintf("%2d. item %d (box %d, due %s) %s",
			i+1, item.ID, item.MasteryBox, item.NextDueDate.Format("2006-01-02"), label)
		var writeErr error
		switch label {
		case "overdue":
			_, writeErr = red.Fprintln(q.stdoutWriter, line)
		case "new":
			_, writeErr = cyan.Fprintln(q.stdoutWriter, line)
		default:
			_, writeErr = green.Fprintln(q.stdoutWriter, line)
		}
		if writeErr != nil {
			return fmt.Errorf("failed to write to stdout: %w", writeErr)
		}
	}
	return nil
}

// categorize mirrors the queue partitioning: anything future-dated in the
// queue is there because it has never been reviewed.
func categorize(item review.ReviewItem, now time.Time) string {
	if review.SameCalendarDay(item.NextDueDate, now) {
		return "due"
	}
	if item.NextDueDate.Before(now) {
		return "overdue"
	}
	return "new"
}
