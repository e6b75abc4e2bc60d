package db

import (
	"context"

	_ "embed"
)

//go:embed schema.sql
var schemaSQL string

// EnsureSchema creates the tables and the daily-uniqueness index if they do
// not exist yet. Safe to run on every startup.
func EnsureSchema(ctx context.Context, q Querier) error {
	_, err := q.Exec(ctx, schemaSQL)
	return err
}
