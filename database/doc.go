// Package database connects to the backends that persist session instance
// variables.
//
// The package supports multiple database backends (PostgreSQL and SQLite) and handles
// connection management, migrations, and schema validation automatically.
//
// # Supported Backends
//
//   - PostgreSQL: shared variables for a fleet of processes, using a pgx connection pool
//   - SQLite: a single file, suitable for one machine
//
// # Usage
//
//	cfg := database.Config{
//	    Type:  "sqlite",
//	    DSN:   "cfgchain.db",
//	    Table: "cfgchain_variables",
//	}
//
//	repo, cleanup, err := database.Connect(ctx, cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer cleanup()
//
//	s := session.New(session.WithVariableRepo(repo, "ci"))
//
// The Connect function automatically:
//   - Opens the database connection
//   - Runs schema migrations
//   - Validates the schema
//   - Returns a ready-to-use Repo
//
// # Table Layout
//
// One row per (session, name) pair. Values are stored as JSON text so any
// value a provider can return survives the round trip.
//
// # Subpackages
//
//   - database/postgres: PostgreSQL implementation using pgx
//   - database/sqlite: SQLite implementation using modernc.org/sqlite
package database
