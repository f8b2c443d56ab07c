package review

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

// SubmitResult is the committed outcome of one review submission.
type SubmitResult struct {
	ItemID         int64
	SessionID      int64
	OwnerID        int64
	Rating         Rating
	PreviousBox    int
	NewBox         int
	NewEasiness    float64
	NextDueDate    time.Time
	WasAdjusted    bool
	Confidence     float64
	XPAwarded      int
	ReachedMastery bool
}

//go:generate mockgen -source=orchestrator.go -destination=../mocks/review/mock_hook.go -package=mock_review Hook

// Hook runs after a review transaction commits. Hooks are best-effort: a
// failing hook is logged and discarded, never retried, and can never roll
// back the committed scheduling state. No ordering is guaranteed between
// the effects of different hooks.
type Hook interface {
	Name() string
	AfterReview(ctx context.Context, result SubmitResult) error
}

// XPPolicy computes the experience points one review is worth. The engine
// only carries the number; how XP feeds badges or levels belongs elsewhere.
type XPPolicy func(rating Rating, previousBox, newBox int) int

// Orchestrator owns the transactional submit-review contract: per review it
// updates one item's mastery state, appends one history event, and bumps one
// session's aggregates atomically, then dispatches post-commit hooks.
type Orchestrator struct {
	db       *sqlx.DB
	logger   *logrus.Logger
	anchor   time.Weekday
	maxQueue int
	xpPolicy XPPolicy
	hooks    []Hook
	now      func() time.Time
}

// OrchestratorOption configures optional orchestrator behavior.
type OrchestratorOption func(*Orchestrator)

// WithClock overrides the time source. Used by tests.
func WithClock(now func() time.Time) OrchestratorOption {
	return func(o *Orchestrator) {
		o.now = now
	}
}

// NewOrchestrator creates an Orchestrator. A nil xpPolicy awards no XP.
func NewOrchestrator(db *sqlx.DB, logger *logrus.Logger, anchor time.Weekday, maxQueue int, xpPolicy XPPolicy, opts ...OrchestratorOption) *Orchestrator {
	if maxQueue <= 0 {
		maxQueue = DefaultMaxSessionSize
	}
	if xpPolicy == nil {
		xpPolicy = func(Rating, int, int) int { return 0 }
	}
	o := &Orchestrator{
		db:       db,
		logger:   logger,
		anchor:   anchor,
		maxQueue: maxQueue,
		xpPolicy: xpPolicy,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// AddHook registers a post-commit hook. Not safe to call concurrently with
// SubmitReview; register hooks during wiring.
func (o *Orchestrator) AddHook(hook Hook) {
	o.hooks = append(o.hooks, hook)
}

// StartSession builds the learner's review queue and opens a session sized
// to it.
func (o *Orchestrator) StartSession(ctx context.Context, ownerID int64) (*ReviewSession, []ReviewItem, error) {
	items := NewDBItemRepository(o.db)
	active, err := items.FindActiveByOwner(ctx, ownerID)
	if err != nil {
		return nil, nil, fmt.Errorf("items.FindActiveByOwner(%d) > %w", ownerID, err)
	}

	queue := BuildQueue(active, o.maxQueue, o.now())
	session := &ReviewSession{
		OwnerID:          ownerID,
		TotalItemsQueued: len(queue),
		StartedAt:        o.now(),
	}
	if err := NewDBSessionRepository(o.db).Create(ctx, session); err != nil {
		return nil, nil, fmt.Errorf("sessions.Create() > %w", err)
	}
	return session, queue, nil
}

// CloseSession marks a session complete. Called once per sitting.
func (o *Orchestrator) CloseSession(ctx context.Context, sessionID int64) error {
	return NewDBSessionRepository(o.db).Close(ctx, sessionID, o.now())
}

// SubmitReview records one rating for one item.
//
// The triple write (item update, event insert, session counters) happens in
// a single serializable transaction because the next mastery state is
// computed from a locked read of the prior state; a lost update would
// corrupt the promotion streak. A concurrent submission for the same item
// or session surfaces as ErrConflict and is not retried here. Side effects
// run only after the commit.
func (o *Orchestrator) SubmitReview(ctx context.Context, itemID, sessionID int64, rating Rating, latencyMs *int64) (*SubmitResult, error) {
	if _, err := ParseRating(string(rating)); err != nil {
		return nil, err
	}
	if latencyMs != nil && *latencyMs < 0 {
		return nil, fmt.Errorf("response latency must not be negative: %d", *latencyMs)
	}

	result, err := o.submitInTx(ctx, itemID, sessionID, rating, latencyMs)
	if err != nil {
		return nil, err
	}

	o.dispatchHooks(ctx, *result)
	return result, nil
}

func (o *Orchestrator) submitInTx(ctx context.Context, itemID, sessionID int64, rating Rating, latencyMs *int64) (*SubmitResult, error) {
	tx, err := o.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, fmt.Errorf("db.BeginTxx() > %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var item ReviewItem
	err = tx.GetContext(ctx, &item, "SELECT * FROM review_items WHERE id = ? FOR UPDATE", itemID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id %d", ErrItemNotFound, itemID)
	}
	if err != nil {
		return nil, wrapTxError("tx.GetContext(review_item)", err)
	}
	if !item.IsActive {
		return nil, fmt.Errorf("%w: id %d", ErrItemInactive, itemID)
	}

	var session ReviewSession
	err = tx.GetContext(ctx, &session, "SELECT * FROM review_sessions WHERE id = ? FOR UPDATE", sessionID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id %d", ErrSessionNotFound, sessionID)
	}
	if err != nil {
		return nil, wrapTxError("tx.GetContext(review_session)", err)
	}
	if session.CompletedAt != nil {
		return nil, fmt.Errorf("%w: id %d", ErrSessionClosed, sessionID)
	}
	if session.OwnerID != item.OwnerID {
		return nil, fmt.Errorf("session %d and item %d belong to different learners", sessionID, itemID)
	}

	var history []ReviewEvent
	if err := tx.SelectContext(ctx, &history,
		"SELECT * FROM review_events WHERE item_id = ? ORDER BY occurred_at, id", itemID); err != nil {
		return nil, wrapTxError("tx.SelectContext(review_events)", err)
	}

	now := o.now()
	promotion := PromoteBox(item.MasteryBox, rating, item.ConsecutiveCorrect, item.EasinessFactor)

	event := ReviewEvent{
		ItemID:            item.ID,
		OwnerID:           item.OwnerID,
		SessionID:         session.ID,
		Rating:            rating,
		PreviousBox:       item.MasteryBox,
		NewBox:            promotion.NewBox,
		PreviousEasiness:  item.EasinessFactor,
		NewEasiness:       promotion.NewEasiness,
		ResponseLatencyMs: latencyMs,
		OccurredAt:        now,
	}

	// The baseline comes from the anchor-aligned calculator; the optimizer
	// then replaces that interval whenever enough history exists.
	today := truncateToDay(now)
	baselineDue := NextDueDate(promotion.NewBox, now, o.anchor)
	baseIntervalDays := daysBetween(today, baselineDue)
	enhanced := ComputeEnhancedDueDate(today, append(append([]ReviewEvent{}, history...), event), baseIntervalDays)

	if _, err := tx.ExecContext(ctx,
		`UPDATE review_items
		SET mastery_box = ?, easiness_factor = ?, consecutive_correct = ?, next_due_date = ?, total_review_count = total_review_count + 1, updated_at = ?
		WHERE id = ?`,
		promotion.NewBox, promotion.NewEasiness, promotion.NewConsecutiveCorrect,
		enhanced.Date, now, item.ID); err != nil {
		return nil, wrapTxError("tx.ExecContext(update review_item)", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO review_events (item_id, owner_id, session_id, rating, previous_box, new_box, previous_easiness, new_easiness, response_latency_ms, occurred_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		event.ItemID, event.OwnerID, event.SessionID, event.Rating,
		event.PreviousBox, event.NewBox, event.PreviousEasiness, event.NewEasiness,
		event.ResponseLatencyMs, event.OccurredAt); err != nil {
		return nil, wrapTxError("tx.ExecContext(insert review_event)", err)
	}

	xp := o.xpPolicy(rating, item.MasteryBox, promotion.NewBox)
	correctIncrement := 0
	if rating.IsCorrect() {
		correctIncrement = 1
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE review_sessions SET correct_count = correct_count + ?, xp_accrued = xp_accrued + ? WHERE id = ?",
		correctIncrement, xp, session.ID); err != nil {
		return nil, wrapTxError("tx.ExecContext(update review_session)", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, wrapTxError("tx.Commit()", err)
	}

	return &SubmitResult{
		ItemID:         item.ID,
		SessionID:      session.ID,
		OwnerID:        item.OwnerID,
		Rating:         rating,
		PreviousBox:    item.MasteryBox,
		NewBox:         promotion.NewBox,
		NewEasiness:    promotion.NewEasiness,
		NextDueDate:    enhanced.Date,
		WasAdjusted:    enhanced.WasAdjusted,
		Confidence:     enhanced.Confidence,
		XPAwarded:      xp,
		ReachedMastery: promotion.NewBox == MaxBox && item.MasteryBox < MaxBox,
	}, nil
}

func (o *Orchestrator) dispatchHooks(ctx context.Context, result SubmitResult) {
	for _, hook := range o.hooks {
		if err := hook.AfterReview(ctx, result); err != nil {
			o.logger.WithFields(logrus.Fields{
				"hook":    hook.Name(),
				"item":    result.ItemID,
				"session": result.SessionID,
			}).WithError(err).Warn("post-commit hook failed, discarding")
		}
	}
}

// wrapTxError maps MySQL lock conflicts onto ErrConflict so callers can
// decide to retry the whole submission.
func wrapTxError(op string, err error) error {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		// 1213 deadlock, 1205 lock wait timeout
		if mysqlErr.Number == 1213 || mysqlErr.Number == 1205 {
			return fmt.Errorf("%s > %w: %v", op, ErrConflict, err)
		}
	}
	return fmt.Errorf("%s > %w", op, err)
}
