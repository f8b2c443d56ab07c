package review_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	mock_review "github.com/zafmy/sms-lms-v1-sub000/internal/mocks/review"
	"github.com/zafmy/sms-lms-v1-sub000/internal/review"
)

var fixedNow = time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC) // a Wednesday

func newTestOrchestrator(t *testing.T) (*review.Orchestrator, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	orch := review.NewOrchestrator(
		sqlx.NewDb(db, "mysql"), logger, time.Saturday, 15, nil,
		review.WithClock(func() time.Time { return fixedNow }),
	)
	return orch, mock
}

func expectSubmitQueries(mock sqlmock.Sqlmock, itemBox int, sessionOwner int64) {
	itemRows := sqlmock.NewRows([]string{
		"id", "owner_id", "mastery_box", "easiness_factor", "consecutive_correct",
		"next_due_date", "total_review_count", "is_active", "created_at", "updated_at",
	}).AddRow(10, 7, itemBox, 2.5, 1, fixedNow, 4, true, fixedNow, fixedNow)
	mock.ExpectQuery("SELECT \\* FROM review_items WHERE id = \\? FOR UPDATE").
		WithArgs(int64(10)).WillReturnRows(itemRows)

	sessionRows := sqlmock.NewRows([]string{
		"id", "owner_id", "total_items_queued", "correct_count", "xp_accrued", "started_at", "completed_at",
	}).AddRow(3, sessionOwner, 5, 2, 10, fixedNow, nil)
	mock.ExpectQuery("SELECT \\* FROM review_sessions WHERE id = \\? FOR UPDATE").
		WithArgs(int64(3)).WillReturnRows(sessionRows)

	mock.ExpectQuery("SELECT \\* FROM review_events WHERE item_id = \\? ORDER BY occurred_at, id").
		WithArgs(int64(10)).WillReturnRows(sqlmock.NewRows([]string{
		"id", "item_id", "owner_id", "session_id", "rating", "previous_box", "new_box",
		"previous_easiness", "new_easiness", "response_latency_ms", "occurred_at", "created_at",
	}))
}

func TestOrchestrator_SubmitReview_CommitsTripleWrite(t *testing.T) {
	orch, mock := newTestOrchestrator(t)

	mock.ExpectBegin()
	expectSubmitQueries(mock, 2, 7)
	mock.ExpectExec("UPDATE review_items").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO review_events").WillReturnResult(sqlmock.NewResult(99, 1))
	mock.ExpectExec("UPDATE review_sessions SET correct_count").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	got, err := orch.SubmitReview(context.Background(), 10, 3, review.RatingOK, nil)
	require.NoError(t, err)

	// streak 1 + ok = streak 2: promotion from box 2 to 3
	assert.Equal(t, 2, got.PreviousBox)
	assert.Equal(t, 3, got.NewBox)
	assert.InDelta(t, 2.4, got.NewEasiness, 1e-9)
	// no history: base schedule applied unchanged
	assert.False(t, got.WasAdjusted)
	assert.Equal(t, 0.0, got.Confidence)
	// box 3 from a Wednesday: next Saturday + 3 weeks
	assert.Equal(t, time.Date(2025, 2, 8, 0, 0, 0, 0, time.UTC), got.NextDueDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrchestrator_SubmitReview_KeepsAnchorAcrossTimeChange(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	// 2026-03-08 is a spring-forward Sunday in this zone, so the scheduling
	// window contains a 23-hour day.
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	wednesday := time.Date(2026, 3, 4, 10, 0, 0, 0, loc)

	orch := review.NewOrchestrator(
		sqlx.NewDb(db, "mysql"), logger, time.Saturday, 15, nil,
		review.WithClock(func() time.Time { return wednesday }),
	)

	mock.ExpectBegin()
	expectSubmitQueries(mock, 1, 7)
	mock.ExpectExec("UPDATE review_items").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO review_events").WillReturnResult(sqlmock.NewResult(99, 1))
	mock.ExpectExec("UPDATE review_sessions SET correct_count").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	got, err := orch.SubmitReview(context.Background(), 10, 3, review.RatingOK, nil)
	require.NoError(t, err)

	// Box 2 from a Wednesday: the Saturday after next, still on the anchor
	// day even though one day in between is only 23 hours long.
	assert.Equal(t, 2, got.NewBox)
	assert.Equal(t, time.Date(2026, 3, 14, 0, 0, 0, 0, loc), got.NextDueDate)
	assert.Equal(t, time.Saturday, got.NextDueDate.Weekday())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrchestrator_SubmitReview_RejectsInvalidRating(t *testing.T) {
	orch, mock := newTestOrchestrator(t)

	_, err := orch.SubmitReview(context.Background(), 10, 3, review.Rating("again"), nil)
	assert.ErrorIs(t, err, review.ErrInvalidRating)
	// Nothing touched the database.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrchestrator_SubmitReview_RejectsNegativeLatency(t *testing.T) {
	orch, _ := newTestOrchestrator(t)

	latency := int64(-5)
	_, err := orch.SubmitReview(context.Background(), 10, 3, review.RatingOK, &latency)
	assert.Error(t, err)
}

func TestOrchestrator_SubmitReview_ItemNotFound(t *testing.T) {
	orch, mock := newTestOrchestrator(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM review_items WHERE id = \\? FOR UPDATE").
		WithArgs(int64(10)).WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	_, err := orch.SubmitReview(context.Background(), 10, 3, review.RatingOK, nil)
	assert.ErrorIs(t, err, review.ErrItemNotFound)
}

func TestOrchestrator_SubmitReview_OwnerMismatch(t *testing.T) {
	orch, mock := newTestOrchestrator(t)

	mock.ExpectBegin()
	expectSubmitQueries(mock, 2, 99)
	mock.ExpectRollback()

	_, err := orch.SubmitReview(context.Background(), 10, 3, review.RatingOK, nil)
	assert.Error(t, err)
}

func TestOrchestrator_SubmitReview_MapsDeadlockToConflict(t *testing.T) {
	orch, mock := newTestOrchestrator(t)

	mock.ExpectBegin()
	expectSubmitQueries(mock, 2, 7)
	mock.ExpectExec("UPDATE review_items").
		WillReturnError(&mysql.MySQLError{Number: 1213, Message: "Deadlock found"})
	mock.ExpectRollback()

	_, err := orch.SubmitReview(context.Background(), 10, 3, review.RatingOK, nil)
	assert.ErrorIs(t, err, review.ErrConflict)
}

func TestOrchestrator_SubmitReview_HookFailureIsSwallowed(t *testing.T) {
	orch, mock := newTestOrchestrator(t)
	ctrl := gomock.NewController(t)

	failing := mock_review.NewMockHook(ctrl)
	failing.EXPECT().AfterReview(gomock.Any(), gomock.Any()).Return(errors.New("webhook down"))
	failing.EXPECT().Name().Return("mastery-notification").AnyTimes()

	succeeding := mock_review.NewMockHook(ctrl)
	succeeding.EXPECT().AfterReview(gomock.Any(), gomock.Any()).Return(nil)

	orch.AddHook(failing)
	orch.AddHook(succeeding)

	mock.ExpectBegin()
	expectSubmitQueries(mock, 2, 7)
	mock.ExpectExec("UPDATE review_items").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO review_events").WillReturnResult(sqlmock.NewResult(99, 1))
	mock.ExpectExec("UPDATE review_sessions SET correct_count").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// A failing hook never fails the committed submission, and later hooks
	// still run.
	got, err := orch.SubmitReview(context.Background(), 10, 3, review.RatingOK, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, got.NewBox)
}

func TestOrchestrator_SubmitReview_HooksRunOnlyAfterCommit(t *testing.T) {
	orch, mock := newTestOrchestrator(t)
	ctrl := gomock.NewController(t)

	hook := mock_review.NewMockHook(ctrl)
	// The transaction fails, so the hook must never fire.
	orch.AddHook(hook)

	mock.ExpectBegin()
	expectSubmitQueries(mock, 2, 7)
	mock.ExpectExec("UPDATE review_items").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO review_events").WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	_, err := orch.SubmitReview(context.Background(), 10, 3, review.RatingOK, nil)
	assert.Error(t, err)
}

func TestOrchestrator_StartSession(t *testing.T) {
	orch, mock := newTestOrchestrator(t)

	itemRows := sqlmock.NewRows([]string{
		"id", "owner_id", "mastery_box", "easiness_factor", "consecutive_correct",
		"next_due_date", "total_review_count", "is_active", "created_at", "updated_at",
	}).
		AddRow(1, 7, 2, 2.5, 0, fixedNow.AddDate(0, 0, -3), 4, true, fixedNow, fixedNow).
		AddRow(2, 7, 1, 2.5, 0, fixedNow.AddDate(0, 0, 4), 0, true, fixedNow, fixedNow)
	mock.ExpectQuery("SELECT \\* FROM review_items WHERE owner_id = \\? AND is_active = TRUE ORDER BY id").
		WithArgs(int64(7)).WillReturnRows(itemRows)
	mock.ExpectExec("INSERT INTO review_sessions").WillReturnResult(sqlmock.NewResult(5, 1))

	session, queue, err := orch.StartSession(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, int64(5), session.ID)
	assert.Equal(t, 2, session.TotalItemsQueued)
	require.Len(t, queue, 2)
	// overdue item sorts before the new one
	assert.Equal(t, int64(1), queue[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
