package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"github.com/fatih/color"

	"github.com/zafmy/sms-lms-v1-sub000/internal/review"
)

//go:generate mockgen -source=review_session.go -destination=../mocks/cli/mock_engine.go -package=mock_cli Engine

// Engine is the slice of the review orchestrator the CLI drives.
type Engine interface {
	StartSession(ctx context.Context, ownerID int64) (*review.ReviewSession, []review.ReviewItem, error)
	SubmitReview(ctx context.Context, itemID, sessionID int64, rating review.Rating, latencyMs *int64) (*review.SubmitResult, error)
	CloseSession(ctx context.Context, sessionID int64) error
}

// ItemPrompter loads a human readable prompt for a review item. The engine
// only schedules item IDs; what the learner actually studies lives with the
// caller.
type ItemPrompter func(ctx context.Context, item review.ReviewItem) (string, error)

// ReviewSessionCLI manages the interactive CLI session for reviewing due items
type ReviewSessionCLI struct {
	*InteractiveReviewCLI
	engine        Engine
	prompter      ItemPrompter
	ownerID       int64
	retryAttempts uint
	nowFunc       func() time.Time

	session  *review.ReviewSession
	queue    []review.ReviewItem
	position int
}

// NewReviewSessionCLI creates a new review session interactive CLI
func NewReviewSessionCLI(engine Engine, prompter ItemPrompter, ownerID int64) *ReviewSessionCLI {
	if prompter == nil {
		prompter = func(_ context.Context, item review.ReviewItem) (string, error) {
			return fmt.Sprintf("Item %d", item.ID), nil
		}
	}
	return &ReviewSessionCLI{
		InteractiveReviewCLI: newInteractiveReviewCLI(),
		engine:               engine,
		prompter:             prompter,
		ownerID:              ownerID,
		retryAttempts:        3,
		nowFunc:              time.Now,
	}
}

func (r *ReviewSessionCLI) Session(ctx context.Context) error {
	if r.session == nil {
		session, queue, err := r.engine.StartSession(ctx, r.ownerID)
		if err != nil {
			return fmt.Errorf("engine.StartSession() > %w", err)
		}
		r.session = session
		r.queue = queue
		if len(queue) == 0 {
			fmt.Fprintln(r.stdoutWriter, "Nothing is due today.")
			return r.finish(ctx)
		}
		fmt.Fprintf(r.stdoutWriter, "Session %d started with %d items.\n\n", session.ID, len(queue))
	}

	if r.position >= len(r.queue) {
		fmt.Fprintln(r.stdoutWriter, "All items reviewed.")
		return r.finish(ctx)
	}

	item := r.queue[r.position]
	prompt, err := r.prompter(ctx, item)
	if err != nil {
		return fmt.Errorf("prompter(%d) > %w", item.ID, err)
	}
	fmt.Fprintf(r.stdoutWriter, "[%d/%d] %s (box %d)\n",
		r.position+1, len(r.queue), r.bold.Sprintf("%s", prompt), item.MasteryBox)

	startTime := r.nowFunc()
	fmt.Fprint(r.stdoutWriter, "Rating (hard/ok/easy, or quit): ")
	ratingInput, err := r.stdinReader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("error reading rating input: %w", err)
	}
	input := strings.ToLower(strings.TrimSpace(ratingInput))

	if input == "quit" || input == "exit" {
		fmt.Fprintln(r.stdoutWriter, "Review session ended.")
		return r.finish(ctx)
	}

	rating, err := review.ParseRating(input)
	if err != nil {
		fmt.Fprintf(r.stdoutWriter, "Invalid input: %v\n", err)
		return nil
	}

	latencyMs := r.nowFunc().Sub(startTime).Milliseconds()
	result, err := r.submitWithRetry(ctx, item.ID, rating, &latencyMs)
	if err != nil {
		return err
	}

	if err := r.displayResult(*result); err != nil {
		return err
	}
	r.position++

	fmt.Fprintln(r.stdoutWriter)
	return nil
}

// submitWithRetry retries whole submissions on serialization conflicts. Each
// attempt re-reads the item state, so a retry after a concurrent commit still
// produces a consistent promotion.
func (r *ReviewSessionCLI) submitWithRetry(ctx context.Context, itemID int64, rating review.Rating, latencyMs *int64) (*review.SubmitResult, error) {
	var result *review.SubmitResult
	var lastErr error
	if err := retry.Do(
		func() error {
			response, err := r.engine.SubmitReview(ctx, itemID, r.session.ID, rating, latencyMs)
			if err != nil {
				lastErr = err
				if !errors.Is(err, review.ErrConflict) {
					return retry.Unrecoverable(err)
				}
				return err
			}
			result = response
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(r.retryAttempts+1),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			return retry.BackOffDelay(n, err, config)
		}),
	); err != nil {
		if lastErr == nil {
			lastErr = err
		}
		return nil, fmt.Errorf("engine.SubmitReview(%d) > %w", itemID, lastErr)
	}
	return result, nil
}

func (r *ReviewSessionCLI) displayResult(result review.SubmitResult) error {
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)

	if result.Rating.IsCorrect() {
		if _, err := green.Fprintf(r.stdoutWriter, "Moved from box %d to box %d.",
			result.PreviousBox, result.NewBox); err != nil {
			return fmt.Errorf("failed to write to stdout: %w", err)
		}
	} else {
		if _, err := red.Fprintf(r.stdoutWriter, "Back to box %d.", result.NewBox); err != nil {
			return fmt.Errorf("failed to write to stdout: %w", err)
		}
	}
	if _, err := fmt.Fprintf(r.stdoutWriter, " Next review on %s.",
		r.italic.Sprintf("%s", result.NextDueDate.Format("2006-01-02"))); err != nil {
		return fmt.Errorf("failed to write to stdout: %w", err)
	}
	if result.XPAwarded > 0 {
		if _, err := fmt.Fprintf(r.stdoutWriter, " +%d XP.", result.XPAwarded); err != nil {
			return fmt.Errorf("failed to write to stdout: %w", err)
		}
	}
	if result.ReachedMastery {
		if _, err := r.bold.Fprint(r.stdoutWriter, " Mastered!"); err != nil {
			return fmt.Errorf("failed to write to stdout: %w", err)
		}
	}
	if _, err := fmt.Fprintln(r.stdoutWriter); err != nil {
		return fmt.Errorf("failed to write to stdout: %w", err)
	}
	return nil
}

func (r *ReviewSessionCLI) finish(ctx context.Context) error {
	if r.session != nil {
		if err := r.engine.CloseSession(ctx, r.session.ID); err != nil {
			return fmt.Errorf("engine.CloseSession(%d) > %w", r.session.ID, err)
		}
	}
	return errEnd
}
