// Package postgres persists the Configuration and Record tiers in PostgreSQL.
// Every store resolves its executor through pkg/platform/tx, so calls made
// inside Tx.RunInTx share one database transaction.
package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"strconv"
)

//go:embed schema.sql
var schema string

// Migrate creates the tables if they do not exist.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// uint64 arguments go over the wire as decimal text: database/sql refuses
// values with the high bit set.
func u64(v uint64) string {
	return strconv.FormatUint(v, 10)
}

func parseU64(field, s string) (uint64, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("decode %s: %w", field, err)
	}
	return v, nil
}
