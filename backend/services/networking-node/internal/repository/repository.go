package repository

import (
	"context"
	"database/sql"
)

// Execer is the part of *sql.DB the repositories use.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}
