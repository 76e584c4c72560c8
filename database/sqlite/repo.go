// Package sqlite stores session instance variables in SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sagarc03/cfgchain/database/internal"
	"github.com/sagarc03/cfgchain/session"
)

// Repo implements session.VariableRepo.
type Repo struct {
	db        *sql.DB
	tableName string
}

func NewRepo(db *sql.DB, tableName string) (*Repo, error) {
	if !internal.IsValidTableName(tableName) {
		return nil, fmt.Errorf("new repo: invalid table name: %s", tableName)
	}

	return &Repo{db: db, tableName: quoteIdentifier(tableName)}, nil
}

// Ping verifies database connectivity
func (r *Repo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *Repo) List(ctx context.Context, sess string) (map[string]any, error) {
	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`SELECT name, value FROM %s WHERE session = ? ORDER BY name`, r.tableName)

	rows, err := r.db.QueryContext(ctx, query, sess)
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	defer func() { _ = rows.Close() }()

	vars := make(map[string]any)
	for rows.Next() {
		var name, raw string
		if err := rows.Scan(&name, &raw); err != nil {
			return nil, fmt.Errorf("list: scan: %w", err)
		}

		value, err := internal.DecodeValue(raw)
		if err != nil {
			return nil, fmt.Errorf("list: %s: %w", name, err)
		}
		vars[name] = value
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list: rows: %w", err)
	}

	return vars, nil
}

func (r *Repo) Set(ctx context.Context, sess, name string, value any) error {
	raw, err := internal.EncodeValue(value)
	if err != nil {
		return fmt.Errorf("set: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`INSERT INTO %s (id, session, name, value, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (session, name) DO UPDATE
		SET value = excluded.value, updated_at = excluded.updated_at`, r.tableName)

	if _, err := r.db.ExecContext(ctx, query, uuid.New().String(), sess, name, raw, now, now); err != nil {
		return fmt.Errorf("set: %w", err)
	}

	return nil
}

func (r *Repo) Delete(ctx context.Context, sess, name string) error {
	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`DELETE FROM %s WHERE session = ? AND name = ?`, r.tableName)

	result, err := r.db.ExecContext(ctx, query, sess, name)
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete: rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("delete: %w", session.ErrNotFound)
	}

	return nil
}
