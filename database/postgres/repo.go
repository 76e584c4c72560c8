// Package postgres stores session instance variables in PostgreSQL.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sagarc03/cfgchain/database/internal"
	"github.com/sagarc03/cfgchain/session"
)

// Repo implements session.VariableRepo.
type Repo struct {
	pool      *pgxpool.Pool
	tableName string
}

func NewRepo(pool *pgxpool.Pool, tableName string) (*Repo, error) {
	if !internal.IsValidTableName(tableName) {
		return nil, fmt.Errorf("new repo: invalid table name: %s", tableName)
	}

	return &Repo{pool: pool, tableName: pgx.Identifier{tableName}.Sanitize()}, nil
}

// Ping verifies database connectivity
func (r *Repo) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func (r *Repo) List(ctx context.Context, sess string) (map[string]any, error) {
	query := fmt.Sprintf(`
		SELECT name, value
		FROM %s
		WHERE session = $1
		ORDER BY name
	`, r.tableName)

	rows, err := r.pool.Query(ctx, query, sess)
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	defer rows.Close()

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

	query := fmt.Sprintf(`
		INSERT INTO %s (session, name, value)
		VALUES ($1, $2, $3)
		ON CONFLICT (session, name) DO UPDATE
		SET value = EXCLUDED.value,
			updated_at = NOW()
	`, r.tableName)

	if _, err := r.pool.Exec(ctx, query, sess, name, raw); err != nil {
		return fmt.Errorf("set: %w", err)
	}

	return nil
}

func (r *Repo) Delete(ctx context.Context, sess, name string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE session = $1 AND name = $2
	`, r.tableName)

	tag, err := r.pool.Exec(ctx, query, sess, name)
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete: %w", session.ErrNotFound)
	}

	return nil
}
