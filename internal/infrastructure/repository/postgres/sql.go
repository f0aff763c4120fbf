package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

func optionalString(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}

// withTx runs fn inside a transaction, rolling back when fn or commit fails.
func withTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// upsertSetClause renders "col = EXCLUDED.col" for every column except the key.
func upsertSetClause(columns []string, key string) string {
	parts := make([]string, 0, len(columns))
	for _, column := range columns {
		if column == key {
			continue
		}
		parts = append(parts, column+" = EXCLUDED."+column)
	}
	return strings.Join(parts, ",\n    ")
}
