package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sagarc03/cfgchain/database/internal"
)

// Migrate creates the instance variable table if it does not exist.
func Migrate(ctx context.Context, pool *pgxpool.Pool, tableName string) error {
	if !internal.IsValidTableName(tableName) {
		return fmt.Errorf("migrate: invalid table name: %s", tableName)
	}

	if err := createVariablesTable(ctx, pool, tableName); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// DropTables removes the instance variable table.
func DropTables(ctx context.Context, pool *pgxpool.Pool, tableName string) error {
	if !internal.IsValidTableName(tableName) {
		return fmt.Errorf("drop tables: invalid table name: %s", tableName)
	}

	sql := fmt.Sprintf("DROP TABLE IF EXISTS %s", pgx.Identifier{tableName}.Sanitize())
	if _, err := pool.Exec(ctx, sql); err != nil {
		return fmt.Errorf("drop tables: %w", err)
	}
	return nil
}

func createVariablesTable(ctx context.Context, pool *pgxpool.Pool, tableName string) error {
	quotedTable := pgx.Identifier{tableName}.Sanitize()
	uniqueSessionName := pgx.Identifier{fmt.Sprintf("uq_%s_session_name", tableName)}.Sanitize()

	sql := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			session TEXT NOT NULL,
			name TEXT NOT NULL,
			value TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT %s UNIQUE (session, name)
		);
	`,
		quotedTable,
		uniqueSessionName,
	)

	_, err := pool.Exec(ctx, sql)
	if err != nil && !isConcurrentCreate(err) {
		return fmt.Errorf("create variables table: %w", err)
	}
	return nil
}

// isConcurrentCreate reports whether err comes from another connection
// creating the same table between the IF NOT EXISTS check and the catalog insert.
func isConcurrentCreate(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case pgerrcode.DuplicateTable, pgerrcode.DuplicateObject, pgerrcode.UniqueViolation:
		return true
	default:
		return false
	}
}
