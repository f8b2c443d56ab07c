package review

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

//go:generate mockgen -source=repository.go -destination=../mocks/review/mock_repository.go -package=mock_review ItemRepository,EventRepository,SessionRepository

// ItemRepository defines operations for managing review items.
type ItemRepository interface {
	FindByID(ctx context.Context, id int64) (*ReviewItem, error)
	FindActiveByOwner(ctx context.Context, ownerID int64) ([]ReviewItem, error)
	Create(ctx context.Context, item *ReviewItem) error
	Deactivate(ctx context.Context, id int64) error
	Reactivate(ctx context.Context, id int64, now time.Time, nextDue time.Time) error
}

// EventRepository defines operations for the append-only review history.
type EventRepository interface {
	FindByItem(ctx context.Context, itemID int64) ([]ReviewEvent, error)
	FindByOwner(ctx context.Context, ownerID int64) ([]ReviewEvent, error)
	Create(ctx context.Context, event *ReviewEvent) error
}

// SessionRepository defines operations for review sessions.
type SessionRepository interface {
	FindByID(ctx context.Context, id int64) (*ReviewSession, error)
	Create(ctx context.Context, session *ReviewSession) error
	Close(ctx context.Context, id int64, completedAt time.Time) error
}

// DBItemRepository implements ItemRepository using MySQL.
type DBItemRepository struct {
	db *sqlx.DB
}

// NewDBItemRepository creates a new DBItemRepository.
func NewDBItemRepository(db *sqlx.DB) *DBItemRepository {
	return &DBItemRepository{db: db}
}

// FindByID returns one review item, or ErrItemNotFound.
func (r *DBItemRepository) FindByID(ctx context.Context, id int64) (*ReviewItem, error) {
	var item ReviewItem
	err := r.db.GetContext(ctx, &item, "SELECT * FROM review_items WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id %d", ErrItemNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(review_item) > %w", err)
	}
	return &item, nil
}

// FindActiveByOwner returns all schedulable items for a learner.
func (r *DBItemRepository) FindActiveByOwner(ctx context.Context, ownerID int64) ([]ReviewItem, error) {
	var items []ReviewItem
	if err := r.db.SelectContext(ctx, &items,
		"SELECT * FROM review_items WHERE owner_id = ? AND is_active = TRUE ORDER BY id",
		ownerID); err != nil {
		return nil, fmt.Errorf("db.SelectContext(active review_items) > %w", err)
	}
	return items, nil
}

// Create inserts a new review item. New items start in box 1.
func (r *DBItemRepository) Create(ctx context.Context, item *ReviewItem) error {
	if item.MasteryBox == 0 {
		item.MasteryBox = MinBox
	}
	if item.EasinessFactor == 0 {
		item.EasinessFactor = DefaultEasinessFactor
	}
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO review_items (owner_id, mastery_box, easiness_factor, consecutive_correct, next_due_date, total_review_count, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		item.OwnerID, item.MasteryBox, item.EasinessFactor, item.ConsecutiveCorrect,
		item.NextDueDate, item.TotalReviewCount, item.IsActive)
	if err != nil {
		return fmt.Errorf("db.ExecContext(insert review_item) > %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("result.LastInsertId() > %w", err)
	}
	item.ID = id
	return nil
}

// Deactivate excludes an item from scheduling while retaining its history.
func (r *DBItemRepository) Deactivate(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		"UPDATE review_items SET is_active = FALSE WHERE id = ?", id); err != nil {
		return fmt.Errorf("db.ExecContext(deactivate review_item) > %w", err)
	}
	return nil
}

// Reactivate brings a superseded item back into scheduling, reset to box 1.
func (r *DBItemRepository) Reactivate(ctx context.Context, id int64, now time.Time, nextDue time.Time) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE review_items
		SET is_active = TRUE, mastery_box = ?, consecutive_correct = 0, next_due_date = ?, updated_at = ?
		WHERE id = ?`,
		MinBox, nextDue, now, id); err != nil {
		return fmt.Errorf("db.ExecContext(reactivate review_item) > %w", err)
	}
	return nil
}

// DBEventRepository implements EventRepository using MySQL.
type DBEventRepository struct {
	db *sqlx.DB
}

// NewDBEventRepository creates a new DBEventRepository.
func NewDBEventRepository(db *sqlx.DB) *DBEventRepository {
	return &DBEventRepository{db: db}
}

// FindByItem returns all review events for an item in occurrence order.
func (r *DBEventRepository) FindByItem(ctx context.Context, itemID int64) ([]ReviewEvent, error) {
	var events []ReviewEvent
	if err := r.db.SelectContext(ctx, &events,
		"SELECT * FROM review_events WHERE item_id = ? ORDER BY occurred_at, id",
		itemID); err != nil {
		return nil, fmt.Errorf("db.SelectContext(review_events by item) > %w", err)
	}
	return events, nil
}

// FindByOwner returns all review events for a learner in occurrence order.
func (r *DBEventRepository) FindByOwner(ctx context.Context, ownerID int64) ([]ReviewEvent, error) {
	var events []ReviewEvent
	if err := r.db.SelectContext(ctx, &events,
		"SELECT * FROM review_events WHERE owner_id = ? ORDER BY occurred_at, id",
		ownerID); err != nil {
		return nil, fmt.Errorf("db.SelectContext(review_events by owner) > %w", err)
	}
	return events, nil
}

// Create appends a new review event. Events are insert-only.
func (r *DBEventRepository) Create(ctx context.Context, event *ReviewEvent) error {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO review_events (item_id, owner_id, session_id, rating, previous_box, new_box, previous_easiness, new_easiness, response_latency_ms, occurred_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		event.ItemID, event.OwnerID, event.SessionID, event.Rating,
		event.PreviousBox, event.NewBox, event.PreviousEasiness, event.NewEasiness,
		event.ResponseLatencyMs, event.OccurredAt)
	if err != nil {
		return fmt.Errorf("db.ExecContext(insert review_event) > %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("result.LastInsertId() > %w", err)
	}
	event.ID = id
	return nil
}

// DBSessionRepository implements SessionRepository using MySQL.
type DBSessionRepository struct {
	db *sqlx.DB
}

// NewDBSessionRepository creates a new DBSessionRepository.
func NewDBSessionRepository(db *sqlx.DB) *DBSessionRepository {
	return &DBSessionRepository{db: db}
}

// FindByID returns one review session, or ErrSessionNotFound.
func (r *DBSessionRepository) FindByID(ctx context.Context, id int64) (*ReviewSession, error) {
	var session ReviewSession
	err := r.db.GetContext(ctx, &session, "SELECT * FROM review_sessions WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id %d", ErrSessionNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(review_session) > %w", err)
	}
	return &session, nil
}

// Create inserts a new review session.
func (r *DBSessionRepository) Create(ctx context.Context, session *ReviewSession) error {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO review_sessions (owner_id, total_items_queued, correct_count, xp_accrued, started_at)
		VALUES (?, ?, ?, ?, ?)`,
		session.OwnerID, session.TotalItemsQueued, session.CorrectCount,
		session.XPAccrued, session.StartedAt)
	if err != nil {
		return fmt.Errorf("db.ExecContext(insert review_session) > %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("result.LastInsertId() > %w", err)
	}
	session.ID = id
	return nil
}

// Close completes a session. A session is closed exactly once; closing an
// already-closed session returns ErrSessionClosed.
func (r *DBSessionRepository) Close(ctx context.Context, id int64, completedAt time.Time) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE review_sessions SET completed_at = ? WHERE id = ? AND completed_at IS NULL",
		completedAt, id)
	if err != nil {
		return fmt.Errorf("db.ExecContext(close review_session) > %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("result.RowsAffected() > %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: id %d", ErrSessionClosed, id)
	}
	return nil
}
