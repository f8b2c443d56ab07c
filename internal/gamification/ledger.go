package gamification

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// DBLedger implements Ledger on the xp_ledger table.
type DBLedger struct {
	db *sqlx.DB
}

// NewDBLedger creates a new DBLedger.
func NewDBLedger(db *sqlx.DB) *DBLedger {
	return &DBLedger{db: db}
}

// AwardXP adds points to a learner's running total.
func (l *DBLedger) AwardXP(ctx context.Context, ownerID int64, amount int) error {
	if amount <= 0 {
		return nil
	}
	if _, err := l.db.ExecContext(ctx,
		`INSERT INTO xp_ledger (owner_id, total_xp) VALUES (?, ?)
		ON DUPLICATE KEY UPDATE total_xp = total_xp + VALUES(total_xp)`,
		ownerID, amount); err != nil {
		return fmt.Errorf("db.ExecContext(award xp) > %w", err)
	}
	return nil
}

// TotalXP returns a learner's accumulated points. Learners with no awards
// yet have zero.
func (l *DBLedger) TotalXP(ctx context.Context, ownerID int64) (int64, error) {
	var total int64
	err := l.db.GetContext(ctx, &total,
		"SELECT total_xp FROM xp_ledger WHERE owner_id = ?", ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("db.GetContext(total xp) > %w", err)
	}
	return total, nil
}
