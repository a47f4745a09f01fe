package repositories

import (
	"context"
	"database/sql"
	"fmt"
)

// sequenced lists the tables that own a <table>_sequence counter.
var sequenced = map[string]bool{
	"tag_cache":   true,
	"resolutions": true,
}

// NextSequence atomically increments and returns the next sequence number for the given table.
//
// Sequence numbers order history entries (resolution #42) and cache rows for listing and debugging.
func NextSequence(ctx context.Context, db *sql.DB, table string) (int, error) {
	if !sequenced[table] {
		return 0, fmt.Errorf("no sequence for table %q", table)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	sequenceTable := table + "_sequence"

	var sequence int
	err = tx.QueryRowContext(ctx, fmt.Sprintf("UPDATE %s SET value = value + 1 WHERE id = 1 RETURNING value", sequenceTable)).Scan(&sequence)
	if err != nil {
		return 0, fmt.Errorf("failed to increment sequence: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit sequence transaction: %w", err)
	}

	return sequence, nil
}
