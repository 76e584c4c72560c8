package sqlite_test

import (
	"context"
	"crypto/rand"
	"database/sql"
	"fmt"
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagarc03/cfgchain/database/sqlite"

	_ "modernc.org/sqlite" // SQLite driver
)

func getRandomString(t *testing.T) string {
	t.Helper()
	n, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
	assert.NoError(t, err, "random string")
	return fmt.Sprintf("test%x", n.Int64())
}

// openTestDB opens an in-memory database pinned to a single connection, since
// every new :memory: connection is a separate database.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err, "failed to open")
	db.SetMaxOpenConns(1)

	t.Cleanup(func() { _ = db.Close() })
	return db
}

// setupTestRepo creates a repo with a unique table name for test isolation
func setupTestRepo(t *testing.T) (*sqlite.Repo, *sql.DB, string) {
	t.Helper()

	ctx := context.Background()
	db := openTestDB(t)
	tableName := fmt.Sprintf("variables_%s", getRandomString(t))

	require.NoError(t, sqlite.Migrate(ctx, db, tableName), "failed to migrate")

	repo, err := sqlite.NewRepo(db, tableName)
	require.NoError(t, err, "failed to create repo")

	return repo, db, tableName
}
