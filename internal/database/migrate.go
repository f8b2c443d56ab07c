package database

import (
	"context"
	"fmt"
	"io/fs"
	"sort"

	"github.com/jmoiron/sqlx"

	"github.com/zafmy/sms-lms-v1-sub000/schemas"
)

// Migrate applies every embedded migration file in lexical order. Statements
// use IF NOT EXISTS, so re-running against an initialized database is safe.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	entries, err := fs.Glob(schemas.Migrations, "migrations/*.sql")
	if err != nil {
		return fmt.Errorf("fs.Glob() > %w", err)
	}
	sort.Strings(entries)

	for _, entry := range entries {
		contents, err := fs.ReadFile(schemas.Migrations, entry)
		if err != nil {
			return fmt.Errorf("fs.ReadFile(%s) > %w", entry, err)
		}
		if _, err := db.ExecContext(ctx, string(contents)); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", entry, err)
		}
	}
	return nil
}
