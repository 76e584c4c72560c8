package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sagarc03/cfgchain/database/internal"
)

// quoteIdentifier safely quotes a SQLite identifier
func quoteIdentifier(name string) string {
	return `"` + name + `"`
}

type TableMigration struct {
	TableName string
	Up        func(ctx context.Context, db *sql.DB) error
	Down      func(ctx context.Context, db *sql.DB) error
}

func getTableMigrations(tableName string) []TableMigration {
	return []TableMigration{
		{
			TableName: tableName,
			Up:        createVariablesTable(tableName),
			Down:      dropTable(tableName),
		},
	}
}

// Migrate creates the instance variable table if it does not exist.
func Migrate(ctx context.Context, db *sql.DB, tableName string) error {
	if !internal.IsValidTableName(tableName) {
		return fmt.Errorf("migrate: invalid table name: %s", tableName)
	}

	for _, migration := range getTableMigrations(tableName) {
		if err := migration.Up(ctx, db); err != nil {
			return fmt.Errorf("migrate up %s: %w", migration.TableName, err)
		}
	}

	return nil
}

func DropTables(ctx context.Context, db *sql.DB, tableName string) error {
	if !internal.IsValidTableName(tableName) {
		return fmt.Errorf("drop tables: invalid table name: %s", tableName)
	}

	migrations := getTableMigrations(tableName)
	for i := len(migrations) - 1; i >= 0; i-- {
		migration := migrations[i]
		if err := migration.Down(ctx, db); err != nil {
			return fmt.Errorf("migrate down %s: %w", migration.TableName, err)
		}
	}

	return nil
}

func createVariablesTable(tableName string) func(context.Context, *sql.DB) error {
	return func(ctx context.Context, db *sql.DB) error {
		quotedTable := quoteIdentifier(tableName)
		indexSession := quoteIdentifier(fmt.Sprintf("idx_%s_session", tableName))

		createTableSQL := fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id TEXT NOT NULL PRIMARY KEY,
				session TEXT NOT NULL,
				name TEXT NOT NULL,
				value TEXT NOT NULL,
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL,
				UNIQUE (session, name)
			)
		`, quotedTable)

		if _, err := db.ExecContext(ctx, createTableSQL); err != nil {
			return fmt.Errorf("create table: %w", err)
		}

		indexSQL := fmt.Sprintf(`
			CREATE INDEX IF NOT EXISTS %s ON %s (session)
		`, indexSession, quotedTable)

		if _, err := db.ExecContext(ctx, indexSQL); err != nil {
			return fmt.Errorf("create index session: %w", err)
		}

		return nil
	}
}

func dropTable(tableName string) func(context.Context, *sql.DB) error {
	return func(ctx context.Context, db *sql.DB) error {
		quotedTable := quoteIdentifier(tableName)
		dropSQL := fmt.Sprintf("DROP TABLE IF EXISTS %s", quotedTable)

		_, err := db.ExecContext(ctx, dropSQL)
		return err
	}
}
